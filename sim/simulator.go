// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/table-sim/sim/trace"
)

// Simulation owns every table, the event logger and the workers of one run.
// Nothing is shared through package state; workers reach tables and the
// logger through their Simulation.
type Simulation struct {
	RunID      string
	Config     Config
	Activities []Activity
	Tables     []*Table
	Workers    []*Worker
	Logger     *EventLogger
	Clock      Clock
	Trace      *trace.SimulationTrace

	wallTime time.Duration
}

// NewSimulation validates the configuration and every activity, then creates
// the table files and the log. Nothing is created on disk if validation fails.
func NewSimulation(cfg Config, activities []Activity) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	maxTicks := math.MaxInt64 / int64(cfg.tickUnit())
	for i := range activities {
		a := &activities[i]
		if err := a.Validate(cfg.NumThreads, cfg.NumTables); err != nil {
			return nil, err
		}
		if a.Offset > maxTicks || a.Duration > maxTicks {
			return nil, fmt.Errorf("%w: %s: offset %d or duration %d exceeds %d ticks of %v",
				ErrConfig, a.where(), a.Offset, a.Duration, maxTicks, cfg.tickUnit())
		}
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("%w: creating output dir %s: %v", ErrResource, cfg.OutputDir, err)
		}
	}

	s := &Simulation{
		RunID:      uuid.NewString(),
		Config:     cfg,
		Activities: activities,
		Tables:     make([]*Table, 0, cfg.NumTables),
		Trace:      trace.NewSimulationTrace(),
	}
	for i := 0; i < cfg.NumTables; i++ {
		t, err := NewTable(cfg.OutputDir, i)
		if err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, t)
	}

	s.Clock = NewWallClock(cfg.tickUnit())
	logger, err := OpenEventLogger(filepath.Join(cfg.OutputDir, cfg.logFileName()), s.Clock, s.Trace)
	if err != nil {
		return nil, err
	}
	if cfg.Echo {
		logger.SetEcho(os.Stdout)
	}
	s.Logger = logger

	groups := GroupByThread(activities)
	s.Workers = make([]*Worker, 0, cfg.NumThreads)
	for id := 1; id <= cfg.NumThreads; id++ {
		s.Workers = append(s.Workers, &Worker{ThreadID: id, Activities: groups[id], sim: s})
	}
	return s, nil
}

// SetClock replaces the clock driving workers and timestamping events.
// It must be called before Run.
func (s *Simulation) SetClock(c Clock) {
	s.Clock = c
	s.Logger.SetClock(c)
}

// Run starts one goroutine per worker and waits for all of them. The first
// worker error cancels the others at their next sleep or lock wait, and is
// returned.
func (s *Simulation) Run(ctx context.Context) error {
	log := logrus.WithField("run_id", s.RunID)
	log.Infof("Starting simulation: %d threads, %d tables, %d activities, tick=%v",
		s.Config.NumThreads, s.Config.NumTables, len(s.Activities), s.Config.tickUnit())

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range s.Workers {
		g.Go(func() error {
			return w.Run(gctx)
		})
	}
	err := g.Wait()
	s.wallTime = time.Since(start)
	if err != nil {
		log.Errorf("Simulation aborted after %v: %v", s.wallTime, err)
		return err
	}
	log.Infof("Simulation complete in %v (%d events)", s.wallTime, s.Trace.Len())
	return nil
}

// Close releases the log handle. Table files are opened per append and hold
// no handle between writes.
func (s *Simulation) Close() error {
	if s.Logger == nil {
		return nil
	}
	if err := s.Logger.Close(); err != nil {
		return fmt.Errorf("closing log: %w", err)
	}
	return nil
}
