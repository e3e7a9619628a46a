package driven

import "github.com/orson-vision/orson-assets/internal/core/domain"

// ManifestStore persists the manifest consumed by the UI layer.
type ManifestStore interface {
	// Write atomically replaces the manifest.
	Write(m *domain.Manifest) error

	// Read loads the current manifest. Returns domain.ErrNotFound if none exists.
	Read() (*domain.Manifest, error)

	// Path returns the manifest location relative to the asset root.
	Path() string
}
