package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/tutar/city-guide-sub000/internal/errors"
)

// lockFileName is created inside the data directory.
const lockFileName = "cityguide.lock"

// DirLock guards the data directory against concurrent writer processes.
// Readers are unaffected; the lock serializes ingest runs only.
type DirLock struct {
	lock *flock.Flock
}

// AcquireDirLock takes an exclusive lock on dir without blocking.
// Returns a fatal error if another process holds it.
func AcquireDirLock(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking data dir %s: %w", dir, err)
	}
	if !locked {
		return nil, errors.New(errors.ErrCodeDataDirLocked,
			fmt.Sprintf("data dir %s is locked by another process", dir), nil).
			WithSuggestion("wait for the other ingest to finish or remove a stale lock file")
	}

	return &DirLock{lock: lock}, nil
}

// Release drops the lock.
func (d *DirLock) Release() error {
	return d.lock.Unlock()
}
