package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/nodech/sway-matiane/internal/logging"
)

// ErrTryLock is returned when another process already holds the
// single-instance lock.
var ErrTryLock = errors.New("failed to acquire lock")

// LockFile holds the advisory exclusive lock on the state directory's
// LOCK file for the lifetime of the process.
type LockFile struct {
	file *os.File
}

// AcquireLockFile opens dir/LOCK and takes an advisory exclusive lock on
// it without blocking.
func AcquireLockFile(dir string) (*LockFile, error) {
	path := filepath.Join(dir, "LOCK")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrTryLock, path)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	return &LockFile{file: file}, nil
}

// Release drops the OS lock and closes the file. Release errors are
// logged, not propagated.
func (l *LockFile) Release() {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		logging.WithError(err).Error("error unlocking lock file")
	}
	if err := l.file.Close(); err != nil {
		logging.WithError(err).Error("error closing lock file")
	}
}
