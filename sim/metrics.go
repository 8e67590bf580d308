// Tracks run-wide and per-table counters and writes the end-of-run summary.

package sim

import (
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/atomic"

	"github.com/inference-sim/table-sim/sim/trace"
)

// TableMetrics are live counters for one table, updated by workers while
// they hold the table.
type TableMetrics struct {
	ActiveReaders atomic.Int64
	ActiveWriters atomic.Int64
	PeakReaders   atomic.Int64
	Reads         atomic.Int64 // completed reads
	Writes        atomic.Int64 // completed writes
	BytesAppended atomic.Int64
	WriteWait     atomic.Duration // total time writers spent waiting for the lock
}

func (m *TableMetrics) enterRead() {
	n := m.ActiveReaders.Inc()
	for {
		peak := m.PeakReaders.Load()
		if n <= peak || m.PeakReaders.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (m *TableMetrics) exitRead() {
	m.ActiveReaders.Dec()
	m.Reads.Inc()
}

func (m *TableMetrics) enterWrite(waited time.Duration) {
	m.ActiveWriters.Inc()
	m.WriteWait.Add(waited)
}

func (m *TableMetrics) exitWrite() {
	m.ActiveWriters.Dec()
	m.Writes.Inc()
}

// TableResult is the JSON form of one table's counters.
type TableResult struct {
	Table         string  `json:"table"`
	Reads         int64   `json:"reads"`
	Writes        int64   `json:"writes"`
	PeakReaders   int64   `json:"peak_concurrent_readers"`
	BytesAppended int64   `json:"bytes_appended"`
	WriteWaitS    float64 `json:"write_wait_s"`
	MeanWaitS     float64 `json:"mean_write_wait_s"`
	P50WaitS      float64 `json:"p50_write_wait_s"`
	P99WaitS      float64 `json:"p99_write_wait_s"`
}

// Results is the end-of-run summary.
type Results struct {
	RunID          string              `json:"run_id"`
	NumThreads     int                 `json:"num_threads"`
	NumTables      int                 `json:"num_tables"`
	NumActivities  int                 `json:"num_activities"`
	TickUnit       string              `json:"tick_unit"`
	SimulationS    float64             `json:"simulation_duration_s"`
	Tables         []TableResult       `json:"tables"`
	Trace          *trace.TraceSummary `json:"trace"`
	ExclusionCheck string              `json:"exclusion_check"`
}

// Results collects the summary of a finished run.
func (s *Simulation) Results() *Results {
	res := &Results{
		RunID:         s.RunID,
		NumThreads:    s.Config.NumThreads,
		NumTables:     s.Config.NumTables,
		NumActivities: len(s.Activities),
		TickUnit:      s.Config.tickUnit().String(),
		SimulationS:   s.wallTime.Seconds(),
		Tables:        make([]TableResult, 0, len(s.Tables)),
	}
	records := s.Trace.Records()
	waits := make(map[string][]time.Duration)
	for _, iv := range trace.Intervals(records) {
		if iv.Wait {
			waits[iv.Table] = append(waits[iv.Table], iv.End-iv.Start)
		}
	}
	for _, t := range s.Tables {
		w := waitSeconds(waits[t.Name])
		res.Tables = append(res.Tables, TableResult{
			Table:         t.Name,
			Reads:         t.Metrics.Reads.Load(),
			Writes:        t.Metrics.Writes.Load(),
			PeakReaders:   t.Metrics.PeakReaders.Load(),
			BytesAppended: t.Metrics.BytesAppended.Load(),
			WriteWaitS:    t.Metrics.WriteWait.Load().Seconds(),
			MeanWaitS:     CalculateMean(w),
			P50WaitS:      CalculatePercentile(w, 50),
			P99WaitS:      CalculatePercentile(w, 99),
		})
	}
	res.Trace = trace.Summarize(records)
	if err := trace.CheckExclusion(records); err != nil {
		res.ExclusionCheck = err.Error()
	} else {
		res.ExclusionCheck = "ok"
	}
	return res
}

// SaveResults prints the summary to w and, if path is non-empty, writes the
// same JSON to path.
func (r *Results) SaveResults(w io.Writer, path string) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if _, err := fmt.Fprintf(w, "=== Simulation Summary ===\n%s\n", data); err != nil {
		return fmt.Errorf("printing results: %w", err)
	}
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	return nil
}
