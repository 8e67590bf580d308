// Package sim provides the core engine for simulating concurrent access to
// file-backed tables under reader/writer locking.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - activity.go: the Activity record and its validation
//   - rwlock.go: the reader-preference ReaderWriterLock built on two binary semaphores
//   - worker.go: the per-thread loop (offset sleep, acquire, hold, append, release)
//   - simulator.go: Simulation construction, worker spawning and joining
//
// # Architecture
//
// The sim package owns the engine; supporting code lives in sub-packages:
//   - sim/workload/: activity-file parsing, formatting and synthetic generation
//   - sim/trace/: lifecycle records, exclusion checking, log parsing, summaries
//   - sim/timeline/: PNG rendering of lock-hold intervals
//
// Time is counted in ticks. A Clock converts ticks to wall time; the default
// tick is one second. Tests drive workers with a stepped fake Clock or with
// millisecond ticks.
//
// # Errors
//
// Failures wrap one of ErrConfig, ErrResource, ErrAppend or ErrLockState.
// A run stopped by its context returns ctx.Err() unwrapped. None is
// recovered: the first error stops the run.
package sim
