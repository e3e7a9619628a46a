package driving

import (
	"context"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// Pipeline resolves asset slots and writes the manifest.
type Pipeline interface {
	// Run resolves every slot, writes the manifest and returns the run report.
	// A configuration problem aborts the run before any I/O with a domain.ConfigError.
	// Per-slot failures never abort the run; they are listed in the report.
	Run(ctx context.Context, slots []domain.AssetSlot) (*domain.RunReport, error)

	// Validate checks slots without touching the filesystem or the network.
	Validate(slots []domain.AssetSlot) error

	// RemoteEnabled reports whether a remote fetcher is configured.
	RemoteEnabled() bool
}
