package trace

import (
	"sync"
	"time"
)

// SimulationTrace collects lifecycle records during a simulation.
// Record may be called from many goroutines; Seq follows call order.
type SimulationTrace struct {
	mu      sync.Mutex
	records []Record
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		records: make([]Record, 0),
	}
}

// Record appends a lifecycle record, assigning its sequence number.
func (st *SimulationTrace) Record(at time.Duration, kind Kind, thread int, table string) Record {
	st.mu.Lock()
	defer st.mu.Unlock()
	rec := Record{
		Seq:    int64(len(st.records)),
		At:     at,
		Kind:   kind,
		Thread: thread,
		Table:  table,
	}
	st.records = append(st.records, rec)
	return rec
}

// Records returns a copy of the recorded events in physical order.
func (st *SimulationTrace) Records() []Record {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Record, len(st.records))
	copy(out, st.records)
	return out
}

// Len returns the number of recorded events.
func (st *SimulationTrace) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.records)
}

// Intervals pairs records into wait and hold spans. Each thread runs its
// activities sequentially, so at most one span per thread is open at a time.
// Spans still open at the end of the records are dropped.
func Intervals(records []Record) []Interval {
	type open struct {
		start time.Duration
		kind  Kind
	}
	pending := make(map[int]open)
	out := make([]Interval, 0, len(records)/2)
	for _, r := range records {
		switch r.Kind {
		case KindReadStart, KindWriteWait:
			pending[r.Thread] = open{start: r.At, kind: r.Kind}
		case KindWriteStart:
			if o, ok := pending[r.Thread]; ok && o.kind == KindWriteWait {
				out = append(out, Interval{Thread: r.Thread, Table: r.Table, Write: true, Wait: true, Start: o.start, End: r.At})
			}
			pending[r.Thread] = open{start: r.At, kind: r.Kind}
		case KindReadEnd:
			if o, ok := pending[r.Thread]; ok && o.kind == KindReadStart {
				out = append(out, Interval{Thread: r.Thread, Table: r.Table, Start: o.start, End: r.At})
				delete(pending, r.Thread)
			}
		case KindWriteEnd:
			if o, ok := pending[r.Thread]; ok && o.kind == KindWriteStart {
				out = append(out, Interval{Thread: r.Thread, Table: r.Table, Write: true, Start: o.start, End: r.At})
				delete(pending, r.Thread)
			}
		}
	}
	return out
}
