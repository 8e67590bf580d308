package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/table-sim/sim/trace"
)

// EventLogger serializes timeline lines from all workers into one sink.
// Each line is written whole; the order between workers is whatever order
// they reach the logger in. Its mutex is independent of every table lock.
type EventLogger struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	echo   io.Writer // optional second sink, e.g. stdout
	clock  Clock
	trace  *trace.SimulationTrace
}

// NewEventLogger creates a logger writing to out. clock and tr may be nil,
// in which case lines are written without being recorded.
func NewEventLogger(out io.Writer, clock Clock, tr *trace.SimulationTrace) *EventLogger {
	l := &EventLogger{out: out, clock: clock, trace: tr}
	if c, ok := out.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// OpenEventLogger creates (or truncates) the log file at path.
func OpenEventLogger(path string, clock Clock, tr *trace.SimulationTrace) (*EventLogger, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening log file %s: %v", ErrResource, path, err)
	}
	return NewEventLogger(file, clock, tr), nil
}

// SetEcho mirrors every line to w as well. Pass nil to disable.
func (l *EventLogger) SetEcho(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.echo = w
}

// SetClock replaces the clock used to timestamp recorded events.
func (l *EventLogger) SetClock(c Clock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = c
}

// Log appends one line.
func (l *EventLogger) Log(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeLocked(message)
}

// Emit records a lifecycle event and appends its line. Recording and writing
// happen under the same mutex, so trace order equals log order.
func (l *EventLogger) Emit(kind trace.Kind, thread int, table *Table) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := trace.Record{Kind: kind, Thread: thread, Table: table.Name}
	if l.trace != nil {
		var at time.Duration
		if l.clock != nil {
			at = l.clock.Elapsed()
		}
		rec = l.trace.Record(at, kind, thread, table.Name)
	}
	return l.writeLocked(rec.Message())
}

func (l *EventLogger) writeLocked(message string) error {
	line := message + "\n"
	if _, err := io.WriteString(l.out, line); err != nil {
		return fmt.Errorf("%w: writing log: %v", ErrAppend, err)
	}
	if l.echo != nil {
		_, _ = io.WriteString(l.echo, line)
	}
	logrus.Debug(message)
	return nil
}

// Close closes the underlying sink if it is closable.
func (l *EventLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
