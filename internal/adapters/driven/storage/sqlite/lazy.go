package sqlite

import (
	"context"
	"sync"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// LazyStore is a RunStore that opens its database on first use.
// Nothing is created on disk until a run is saved or history is read.
type LazyStore struct {
	dataDir string

	mu    sync.Mutex
	store *Store
}

var _ driven.RunStore = (*LazyStore)(nil)

// NewLazyStore returns a store for dataDir without touching the filesystem.
func NewLazyStore(dataDir string) *LazyStore {
	return &LazyStore{dataDir: dataDir}
}

// open returns the database, creating it on the first call.
// A failed open is retried on the next call.
func (l *LazyStore) open() (*Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	s, err := NewStore(l.dataDir)
	if err != nil {
		return nil, err
	}
	l.store = s
	return s, nil
}

// Opened reports whether the database has been opened.
func (l *LazyStore) Opened() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store != nil
}

// Save opens the database if needed and stores the run.
func (l *LazyStore) Save(ctx context.Context, rec domain.RunRecord) error {
	s, err := l.open()
	if err != nil {
		return err
	}
	return s.RunStore().Save(ctx, rec)
}

// Recent opens the database if needed and returns up to limit runs.
func (l *LazyStore) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	s, err := l.open()
	if err != nil {
		return nil, err
	}
	return s.RunStore().Recent(ctx, limit)
}

// Close closes the database if it was opened.
func (l *LazyStore) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	return err
}
