// Package manifest persists the asset manifest as a JSON document.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// DefaultPath is the manifest location relative to the asset root.
const DefaultPath = "asset-manifest.json"

// Ensure Store implements the interface.
var _ driven.ManifestStore = (*Store)(nil)

// Store reads and writes the manifest through a FileSystem.
type Store struct {
	fs   driven.FileSystem
	path string
}

// NewStore creates a store for the manifest at path. An empty path uses DefaultPath.
func NewStore(fs driven.FileSystem, path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{fs: fs, path: path}
}

// Path returns the manifest location relative to the asset root.
func (s *Store) Path() string {
	return s.path
}

// Write atomically replaces the manifest.
func (s *Store) Write(m *domain.Manifest) error {
	if m.Version == 0 {
		m.Version = domain.ManifestVersion
	}
	if m.Entries == nil {
		m.Entries = []domain.ManifestEntry{}
	}
	if m.Failed == nil {
		m.Failed = []domain.ManifestFailure{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	if err := s.fs.WriteAtomic(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("%w: manifest %s: %v", domain.ErrWrite, s.path, err)
	}
	return nil
}

// Read loads the manifest. Returns domain.ErrNotFound if none was written yet.
func (s *Store) Read() (*domain.Manifest, error) {
	rc, err := s.fs.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: manifest %s", domain.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var m domain.Manifest
	if err := json.NewDecoder(rc).Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", s.path, err)
	}
	if m.Version > domain.ManifestVersion {
		return nil, fmt.Errorf("manifest %s: unsupported version %d", s.path, m.Version)
	}
	return &m, nil
}
