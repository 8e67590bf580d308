package sim

import (
	"errors"
	"fmt"
	"time"
)

// Error classes. A run stopped by its context returns ctx.Err() unwrapped;
// every other failure returned by this package wraps exactly one of these.
var (
	// ErrConfig marks bad thread/table counts and invalid activities.
	ErrConfig = errors.New("configuration error")
	// ErrResource marks failures to create a table file or open the log.
	ErrResource = errors.New("resource acquisition error")
	// ErrAppend marks a failed append to a table's backing log.
	ErrAppend = errors.New("append error")
	// ErrLockState marks a lock released without being held.
	ErrLockState = errors.New("lock state error")
)

// DefaultLogFileName is the timeline log written next to the table files.
const DefaultLogFileName = "logfile.txt"

// Config groups everything a Simulation needs besides its activities.
type Config struct {
	NumThreads  int           // workers spawned, ids 1..NumThreads (must be > 0)
	NumTables   int           // tables created, ids 1..NumTables (must be > 0)
	OutputDir   string        // directory for table files and the log ("" = current dir)
	LogFileName string        // timeline log name inside OutputDir ("" = DefaultLogFileName)
	TickUnit    time.Duration // wall time of one tick (0 = time.Second)
	Echo        bool          // also print every timeline line to stdout
}

// Validate checks counts and units.
func (c *Config) Validate() error {
	if c.NumThreads <= 0 {
		return fmt.Errorf("%w: number of threads must be positive, got %d", ErrConfig, c.NumThreads)
	}
	if c.NumTables <= 0 {
		return fmt.Errorf("%w: number of tables must be positive, got %d", ErrConfig, c.NumTables)
	}
	if c.TickUnit < 0 {
		return fmt.Errorf("%w: tick unit must be non-negative, got %v", ErrConfig, c.TickUnit)
	}
	return nil
}

func (c *Config) logFileName() string {
	if c.LogFileName == "" {
		return DefaultLogFileName
	}
	return c.LogFileName
}

func (c *Config) tickUnit() time.Duration {
	if c.TickUnit == 0 {
		return time.Second
	}
	return c.TickUnit
}
