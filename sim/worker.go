package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/table-sim/sim/trace"
)

// Worker runs one thread's activities, strictly one at a time.
type Worker struct {
	ThreadID   int
	Activities []Activity // in workload order
	sim        *Simulation
}

// Run executes every activity in order. Before each activity the worker
// sleeps for that activity's own offset; offsets are never summed or turned
// into absolute times. Run stops at the first error.
func (w *Worker) Run(ctx context.Context) error {
	logrus.Debugf("worker %d starting with %d activities", w.ThreadID, len(w.Activities))
	for i := range w.Activities {
		a := &w.Activities[i]
		if err := w.sim.Clock.Sleep(ctx, a.Offset); err != nil {
			return err
		}
		table := w.sim.Tables[a.TableID-1]
		var err error
		switch a.Kind {
		case OpRead:
			err = w.read(ctx, table, a)
		case OpWrite:
			err = w.write(ctx, table, a)
		default:
			err = fmt.Errorf("%w: thread %d: unknown operation %q", ErrConfig, w.ThreadID, a.Kind)
		}
		if err != nil {
			return err
		}
	}
	logrus.Debugf("worker %d done", w.ThreadID)
	return nil
}

func (w *Worker) read(ctx context.Context, table *Table, a *Activity) error {
	return table.Lock.WithRead(ctx, func() error {
		table.Metrics.enterRead()
		defer table.Metrics.exitRead()
		if err := w.sim.Logger.Emit(trace.KindReadStart, w.ThreadID, table); err != nil {
			return err
		}
		if err := w.sim.Clock.Sleep(ctx, a.Duration); err != nil {
			return err
		}
		return w.sim.Logger.Emit(trace.KindReadEnd, w.ThreadID, table)
	})
}

func (w *Worker) write(ctx context.Context, table *Table, a *Activity) error {
	if err := w.sim.Logger.Emit(trace.KindWriteWait, w.ThreadID, table); err != nil {
		return err
	}
	requested := w.sim.Clock.Elapsed()
	return table.Lock.WithWrite(ctx, func() error {
		table.Metrics.enterWrite(w.sim.Clock.Elapsed() - requested)
		defer table.Metrics.exitWrite()
		if err := w.sim.Logger.Emit(trace.KindWriteStart, w.ThreadID, table); err != nil {
			return err
		}
		if err := w.sim.Clock.Sleep(ctx, a.Duration); err != nil {
			return err
		}
		if err := table.Append(a.Payload); err != nil {
			logrus.Errorf("writer %d: %v", w.ThreadID, err)
			return err
		}
		return w.sim.Logger.Emit(trace.KindWriteEnd, w.ThreadID, table)
	})
}
