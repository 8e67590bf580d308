package workload

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/table-sim/sim"
)

func TestGenerate_SameSeed_Deterministic(t *testing.T) {
	spec := DefaultGeneratorSpec()
	a, err := Generate(&spec)
	require.NoError(t, err)
	b, err := Generate(&spec)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_ActivitiesWithinRanges(t *testing.T) {
	// GIVEN a spec with 200 activities
	spec := DefaultGeneratorSpec()
	spec.NumActivities = 200

	// WHEN generated
	acts, err := Generate(&spec)

	// THEN every activity validates against the generator's counts
	require.NoError(t, err)
	require.Len(t, acts, 200)
	reads, writes := 0, 0
	for i := range acts {
		require.NoError(t, acts[i].Validate(spec.NumThreads, spec.NumTables))
		assert.LessOrEqual(t, acts[i].Offset, spec.MaxOffset)
		assert.LessOrEqual(t, acts[i].Duration, spec.MaxDuration)
		if acts[i].Kind == sim.OpRead {
			reads++
		} else {
			writes++
		}
	}
	assert.Positive(t, reads)
	assert.Positive(t, writes)
}

func TestGenerate_ReadFractionExtremes(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.ReadFraction = 1
	acts, err := Generate(&spec)
	require.NoError(t, err)
	for _, a := range acts {
		assert.Equal(t, sim.OpRead, a.Kind)
	}

	spec.ReadFraction = 0
	acts, err = Generate(&spec)
	require.NoError(t, err)
	for _, a := range acts {
		assert.Equal(t, sim.OpWrite, a.Kind)
		assert.Contains(t, a.Payload, spec.PayloadPrefix)
	}
}

func TestGenerate_OutputParsesBack(t *testing.T) {
	// GIVEN a generated workload
	spec := DefaultGeneratorSpec()
	acts, err := Generate(&spec)
	require.NoError(t, err)

	// WHEN written and parsed
	var buf bytes.Buffer
	require.NoError(t, WriteActivities(&buf, acts))
	parsed, err := ParseActivities(&buf)

	// THEN the activities match apart from source line numbers
	require.NoError(t, err)
	require.Len(t, parsed, len(acts))
	for i := range parsed {
		parsed[i].Line = 0
	}
	assert.Equal(t, acts, parsed)
}

func TestGenerate_InvalidSpec_Error(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.NumThreads = 0
	_, err := Generate(&spec)
	assert.Error(t, err)
}

func TestGenerate_TimingBoundsDoNotReshuffleAssignments(t *testing.T) {
	// GIVEN two specs that differ only in timing bounds
	base := DefaultGeneratorSpec()
	wider := base
	wider.MaxOffset = 10
	wider.MaxDuration = 9

	// WHEN both are generated
	a, err := Generate(&base)
	require.NoError(t, err)
	b, err := Generate(&wider)
	require.NoError(t, err)

	// THEN thread, table and operation choices are unchanged
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ThreadID, b[i].ThreadID, "activity %d thread", i)
		assert.Equal(t, a[i].TableID, b[i].TableID, "activity %d table", i)
		assert.Equal(t, a[i].Kind, b[i].Kind, "activity %d kind", i)
	}
}

func TestGenerate_UnboundedTimingBounds_ErrorNotPanic(t *testing.T) {
	// GIVEN bounds at the int64 limit
	spec := DefaultGeneratorSpec()
	spec.MaxOffset = math.MaxInt64
	spec.MaxDuration = math.MaxInt64

	// WHEN generated
	var err error
	assert.NotPanics(t, func() { _, err = Generate(&spec) })

	// THEN the spec is rejected
	assert.Error(t, err)
}

func TestGenerate_BoundsAtCap_StayInRange(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.MaxOffset = MaxTickBound
	spec.MaxDuration = MaxTickBound
	acts, err := Generate(&spec)
	require.NoError(t, err)
	for _, a := range acts {
		assert.LessOrEqual(t, a.Offset, int64(MaxTickBound))
		assert.LessOrEqual(t, a.Duration, int64(MaxTickBound))
	}
}
