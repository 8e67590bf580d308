package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{NumThreads: 1, NumTables: 1}, false},
		{"zero threads", Config{NumThreads: 0, NumTables: 1}, true},
		{"negative tables", Config{NumThreads: 1, NumTables: -2}, true},
		{"negative tick", Config{NumThreads: 1, NumTables: 1, TickUnit: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ZeroValues_UseDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultLogFileName, cfg.logFileName())
	assert.Equal(t, time.Second, cfg.tickUnit())

	cfg = Config{LogFileName: "run.log", TickUnit: time.Millisecond}
	assert.Equal(t, "run.log", cfg.logFileName())
	assert.Equal(t, time.Millisecond, cfg.tickUnit())
}
