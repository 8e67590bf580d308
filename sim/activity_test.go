package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivity_Validate(t *testing.T) {
	valid := Activity{Offset: 0, ThreadID: 2, TableID: 3, Kind: OpWrite, Duration: 1, Payload: "x", Line: 4}
	tests := []struct {
		name    string
		mutate  func(a *Activity)
		wantErr string
	}{
		{"valid", func(a *Activity) {}, ""},
		{"negative offset", func(a *Activity) { a.Offset = -1 }, "negative offset"},
		{"negative duration", func(a *Activity) { a.Duration = -2 }, "negative duration"},
		{"unknown kind", func(a *Activity) { a.Kind = "Read" }, "unknown operation"},
		{"thread zero", func(a *Activity) { a.ThreadID = 0 }, "thread id 0 out of range"},
		{"thread too large", func(a *Activity) { a.ThreadID = 3 }, "thread id 3 out of range"},
		{"table zero", func(a *Activity) { a.TableID = 0 }, "table id 0 out of range"},
		{"table too large", func(a *Activity) { a.TableID = 4 }, "table id 4 out of range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := valid
			tc.mutate(&a)
			err := a.Validate(2, 3)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrConfig)
			assert.ErrorContains(t, err, tc.wantErr)
			assert.ErrorContains(t, err, "line 4")
		})
	}
}

func TestIsValidOpKind(t *testing.T) {
	assert.True(t, IsValidOpKind("read"))
	assert.True(t, IsValidOpKind("write"))
	assert.False(t, IsValidOpKind("WRITE"))
	assert.False(t, IsValidOpKind(""))
}

func TestGroupByThread_PreservesWorkloadOrder(t *testing.T) {
	// GIVEN interleaved activities for two threads
	acts := []Activity{
		{ThreadID: 1, Payload: "a"},
		{ThreadID: 2, Payload: "b"},
		{ThreadID: 1, Payload: "c"},
		{ThreadID: 2, Payload: "d"},
		{ThreadID: 1, Payload: "e"},
	}

	// WHEN grouped
	groups := GroupByThread(acts)

	// THEN each thread keeps its own activities in file order
	assert.Len(t, groups, 2)
	var got []string
	for _, a := range groups[1] {
		got = append(got, a.Payload)
	}
	assert.Equal(t, []string{"a", "c", "e"}, got)
	assert.Len(t, groups[2], 2)
	assert.Empty(t, groups[3])
}
