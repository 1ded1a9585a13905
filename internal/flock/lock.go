package flock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	perrors "github.com/protologic/cargo-protologic/internal/errors"
)

// Lock is a held exclusive lock on a file.
type Lock struct {
	file *os.File
	once sync.Once
}

// Acquire creates path if needed and takes an exclusive lock on it without
// blocking. Contention returns ErrBuildLocked.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- lock path is derived from the fleet output directory
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, perrors.ErrBuildLocked)
	}

	return &Lock{file: f}, nil
}

// Path returns the locked file's path.
func (l *Lock) Path() string {
	return l.file.Name()
}

// Release unlocks and closes the lock file. The file itself is left in place;
// removing it would let a waiter lock an unlinked inode. Safe to call twice.
func (l *Lock) Release() error {
	var err error
	l.once.Do(func() {
		unlockErr := Unlock(l.file.Fd())
		closeErr := l.file.Close()
		if unlockErr != nil {
			err = unlockErr
			return
		}
		err = closeErr
	})
	return err
}
