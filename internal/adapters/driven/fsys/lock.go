package fsys

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// LockFileName is created at the asset root while a run is active.
const LockFileName = ".orson-assets.lock"

// Ensure FileLock implements the interface.
var _ driven.RunLocker = (*FileLock)(nil)

// FileLock is an exclusive lock file at the asset root.
type FileLock struct {
	fs   *FS
	name string
}

// NewFileLock creates a lock on fs using LockFileName.
func NewFileLock(fs *FS) *FileLock {
	return &FileLock{fs: fs, name: LockFileName}
}

// Path returns the lock file path relative to the asset root.
func (l *FileLock) Path() string {
	return l.name
}

// Acquire creates the lock file or fails with domain.ErrRunLocked if it exists.
func (l *FileLock) Acquire() (func() error, error) {
	f, err := l.fs.fs.OpenFile(clean(l.name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%w: remove %s if no run is active", domain.ErrRunLocked, l.name)
	}
	if err != nil {
		return nil, fmt.Errorf("create lock %s: %w", l.name, err)
	}
	_, werr := fmt.Fprintf(f, "pid=%d\nstarted=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = l.fs.Remove(l.name)
		return nil, fmt.Errorf("write lock %s: %w", l.name, errors.Join(werr, cerr))
	}

	released := false
	return func() error {
		if released {
			return nil
		}
		released = true
		return l.fs.Remove(l.name)
	}, nil
}
