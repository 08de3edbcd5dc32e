// Package transaction provides advisory file locks so concurrent
// tfwrap invocations provisioning the same version converge on a
// single download instead of corrupting each other's cache entry.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// StaleLockThreshold is the maximum age of a lock before it's
	// considered abandoned by a dead process.
	StaleLockThreshold = 10 * time.Minute

	pollInterval = 200 * time.Millisecond
)

// ErrLockExists reports that another invocation holds the lock.
var ErrLockExists = errors.New("provisioning lock exists: another invocation may be in progress")

// Lock represents a held advisory lock.
type Lock struct {
	path string
	file *os.File
}

// Acquire attempts to take the named lock in dir exactly once.
// Uses O_CREATE|O_EXCL for atomic lock creation; a stale lock is
// stolen and retried once.
func Acquire(dir, name string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, name+".lock")

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if stale, _ := isLockStale(lockPath); !stale {
			return nil, ErrLockExists
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
		if err != nil {
			return nil, ErrLockExists
		}
	}

	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// AcquireWait polls for the named lock until it is acquired, the wait
// budget runs out, or the context is cancelled. A held live lock is
// expected during concurrent runs, so waiting is the normal path.
func AcquireWait(ctx context.Context, dir, name string, wait time.Duration) (*Lock, error) {
	deadline := time.Now().Add(wait)

	for {
		lock, err := Acquire(dir, name)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrLockExists) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, ErrLockExists
		}

		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Release releases the lock.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}

	return nil
}

// isLockStale checks if a lock file is older than the stale threshold.
func isLockStale(lockPath string) (bool, error) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false, err
	}

	return time.Since(info.ModTime()) > StaleLockThreshold, nil
}
