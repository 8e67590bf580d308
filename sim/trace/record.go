// Package trace provides lifecycle-event recording for table simulations.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import (
	"fmt"
	"time"
)

// Kind identifies a Worker phase transition.
type Kind string

const (
	KindReadStart  Kind = "read-start"
	KindReadEnd    Kind = "read-end"
	KindWriteWait  Kind = "write-wait"
	KindWriteStart Kind = "write-start"
	KindWriteEnd   Kind = "write-end"
)

// IsRead reports whether the kind belongs to a read activity.
func (k Kind) IsRead() bool {
	return k == KindReadStart || k == KindReadEnd
}

// Record captures a single lifecycle event as received by the event logger.
type Record struct {
	Seq    int64         // position in the physical log order, starting at 0
	At     time.Duration // elapsed time since the simulation started (0 for parsed logs)
	Kind   Kind
	Thread int    // 1-indexed thread id
	Table  string // table name as it appears in the log, e.g. "tbl1.txt"
}

// Message renders the record as one timeline line (without trailing newline).
func (r Record) Message() string {
	switch r.Kind {
	case KindReadStart:
		return fmt.Sprintf("Reader %d started reading %s", r.Thread, r.Table)
	case KindReadEnd:
		return fmt.Sprintf("Reader %d finished reading %s", r.Thread, r.Table)
	case KindWriteWait:
		return fmt.Sprintf("Writer %d is waiting to write to %s", r.Thread, r.Table)
	case KindWriteStart:
		return fmt.Sprintf("Writer %d started writing to %s", r.Thread, r.Table)
	case KindWriteEnd:
		return fmt.Sprintf("Writer %d finished writing to %s", r.Thread, r.Table)
	}
	return fmt.Sprintf("Thread %d %s %s", r.Thread, r.Kind, r.Table)
}

// Interval is a span during which a thread waited for, or held, a table.
type Interval struct {
	Thread int
	Table  string
	Write  bool // true for write holds and write waits
	Wait   bool // true for the waiting-to-write span preceding a write hold
	Start  time.Duration
	End    time.Duration
}
