package trace

import (
	"sort"
	"time"
)

// TableSummary aggregates statistics for one table.
type TableSummary struct {
	Table         string        `json:"table"`
	Reads         int           `json:"reads"`
	Writes        int           `json:"writes"`
	PeakReaders   int           `json:"peak_concurrent_readers"`
	TotalReadHold time.Duration `json:"total_read_hold_ns"`
	TotalWrite    time.Duration `json:"total_write_hold_ns"`
	TotalWait     time.Duration `json:"total_write_wait_ns"`
	MeanWait      time.Duration `json:"mean_write_wait_ns"`
	MaxWait       time.Duration `json:"max_write_wait_ns"`
}

// TraceSummary aggregates statistics from a set of records.
type TraceSummary struct {
	TotalEvents int            `json:"total_events"`
	Tables      []TableSummary `json:"tables"` // sorted by table name
}

// Summarize computes aggregate statistics from records.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(records []Record) *TraceSummary {
	summary := &TraceSummary{
		TotalEvents: len(records),
		Tables:      make([]TableSummary, 0),
	}
	if len(records) == 0 {
		return summary
	}

	byTable := make(map[string]*TableSummary)
	get := func(name string) *TableSummary {
		ts, ok := byTable[name]
		if !ok {
			ts = &TableSummary{Table: name}
			byTable[name] = ts
		}
		return ts
	}

	readers := make(map[string]int)
	for _, r := range records {
		ts := get(r.Table)
		switch r.Kind {
		case KindReadStart:
			readers[r.Table]++
			if readers[r.Table] > ts.PeakReaders {
				ts.PeakReaders = readers[r.Table]
			}
		case KindReadEnd:
			readers[r.Table]--
			ts.Reads++
		case KindWriteEnd:
			ts.Writes++
		}
	}

	waits := make(map[string]int)
	for _, iv := range Intervals(records) {
		ts := get(iv.Table)
		span := iv.End - iv.Start
		switch {
		case iv.Wait:
			ts.TotalWait += span
			waits[iv.Table]++
			if span > ts.MaxWait {
				ts.MaxWait = span
			}
		case iv.Write:
			ts.TotalWrite += span
		default:
			ts.TotalReadHold += span
		}
	}

	for name, ts := range byTable {
		if n := waits[name]; n > 0 {
			ts.MeanWait = ts.TotalWait / time.Duration(n)
		}
		summary.Tables = append(summary.Tables, *ts)
	}
	sort.Slice(summary.Tables, func(i, j int) bool {
		return summary.Tables[i].Table < summary.Tables[j].Table
	})
	return summary
}
