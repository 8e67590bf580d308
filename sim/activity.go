package sim

import "fmt"

// OpKind is the operation an Activity performs on its table.
type OpKind string

const (
	OpRead  OpKind = "read"
	OpWrite OpKind = "write"
)

// validOpKinds maps accepted operation strings. Matching is case-sensitive.
var validOpKinds = map[OpKind]bool{
	OpRead:  true,
	OpWrite: true,
}

// IsValidOpKind returns true if the given string is a recognized operation.
func IsValidOpKind(kind string) bool {
	return validOpKinds[OpKind(kind)]
}

// Activity is one scheduled read or write assigned to a thread.
// Offset and Duration are in ticks; see Clock for the tick-to-time mapping.
type Activity struct {
	Offset   int64  // delay before the operation, relative to thread start
	ThreadID int    // 1-indexed owning worker
	TableID  int    // 1-indexed target table
	Kind     OpKind // read or write
	Duration int64  // ticks the table is held between acquire and release
	Payload  string // appended to the table on write; ignored on read
	Line     int    // source line in the workload file (0 when synthesized)
}

// Validate checks the activity against the configured thread and table counts.
func (a *Activity) Validate(numThreads, numTables int) error {
	if a.Offset < 0 {
		return fmt.Errorf("%w: %s: negative offset %d", ErrConfig, a.where(), a.Offset)
	}
	if a.Duration < 0 {
		return fmt.Errorf("%w: %s: negative duration %d", ErrConfig, a.where(), a.Duration)
	}
	if !validOpKinds[a.Kind] {
		return fmt.Errorf("%w: %s: unknown operation %q; valid: read, write", ErrConfig, a.where(), a.Kind)
	}
	if a.ThreadID < 1 || a.ThreadID > numThreads {
		return fmt.Errorf("%w: %s: thread id %d out of range [1, %d]", ErrConfig, a.where(), a.ThreadID, numThreads)
	}
	if a.TableID < 1 || a.TableID > numTables {
		return fmt.Errorf("%w: %s: table id %d out of range [1, %d]", ErrConfig, a.where(), a.TableID, numTables)
	}
	return nil
}

func (a *Activity) where() string {
	if a.Line > 0 {
		return fmt.Sprintf("activity at line %d", a.Line)
	}
	return "activity"
}

// GroupByThread returns each thread's activities in their original order.
// Threads with no activities are absent from the map.
func GroupByThread(activities []Activity) map[int][]Activity {
	groups := make(map[int][]Activity)
	for _, a := range activities {
		groups[a.ThreadID] = append(groups[a.ThreadID], a)
	}
	return groups
}
