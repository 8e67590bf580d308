package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// ReaderWriterLock is a reader-preference lock built from two binary
// semaphores: writeLock, held by one writer or by the readers as a group,
// and countLock, which serializes updates to readers.
//
// The first reader in acquires writeLock on behalf of the group and the last
// reader out releases it, so a different goroutine may release writeLock than
// the one that acquired it. While readers keep overlapping, writeLock stays
// held and waiting writers starve.
type ReaderWriterLock struct {
	countLock *semaphore.Weighted
	writeLock *semaphore.Weighted
	readers   int // guarded by countLock
}

// NewReaderWriterLock creates an unlocked ReaderWriterLock.
func NewReaderWriterLock() *ReaderWriterLock {
	return &ReaderWriterLock{
		countLock: semaphore.NewWeighted(1),
		writeLock: semaphore.NewWeighted(1),
	}
}

// AcquireRead blocks while a writer holds the lock. It returns ctx.Err() if
// ctx ends first, leaving the lock as it found it.
func (l *ReaderWriterLock) AcquireRead(ctx context.Context) error {
	if err := l.countLock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.countLock.Release(1)

	l.readers++
	if l.readers == 1 {
		if err := l.writeLock.Acquire(ctx, 1); err != nil {
			l.readers--
			return err
		}
	}
	return nil
}

// ReleaseRead leaves the reader group, re-enabling writers when it empties.
func (l *ReaderWriterLock) ReleaseRead() error {
	// Holders of countLock only block on writeLock under a cancellable
	// context, so this acquire always completes.
	if err := l.countLock.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer l.countLock.Release(1)

	if l.readers == 0 {
		return fmt.Errorf("%w: read released with no active readers", ErrLockState)
	}
	l.readers--
	if l.readers == 0 {
		l.writeLock.Release(1)
	}
	return nil
}

// AcquireWrite blocks until neither the reader group nor another writer
// holds the lock.
func (l *ReaderWriterLock) AcquireWrite(ctx context.Context) error {
	return l.writeLock.Acquire(ctx, 1)
}

// ReleaseWrite releases exclusive access. Releasing an unheld write lock panics.
func (l *ReaderWriterLock) ReleaseWrite() {
	l.writeLock.Release(1)
}

// WithRead runs fn while holding read access. The lock is released on every
// return path, including a panic in fn.
func (l *ReaderWriterLock) WithRead(ctx context.Context, fn func() error) (err error) {
	if err := l.AcquireRead(ctx); err != nil {
		return err
	}
	defer func() {
		if relErr := l.ReleaseRead(); relErr != nil && err == nil {
			err = relErr
		}
	}()
	return fn()
}

// WithWrite runs fn while holding exclusive access. The lock is released on
// every return path, including a panic in fn.
func (l *ReaderWriterLock) WithWrite(ctx context.Context, fn func() error) error {
	if err := l.AcquireWrite(ctx); err != nil {
		return err
	}
	defer l.ReleaseWrite()
	return fn()
}

// Readers returns the current size of the reader group. It waits behind a
// first reader that is blocked on an active writer.
func (l *ReaderWriterLock) Readers() int {
	if err := l.countLock.Acquire(context.Background(), 1); err != nil {
		return 0
	}
	defer l.countLock.Release(1)
	return l.readers
}
