package driving

import (
	"context"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// Verifier checks a written manifest against the slots and the asset root.
type Verifier interface {
	// Verify reports missing entries, missing or empty files and unknown slots.
	Verify(ctx context.Context, slots []domain.AssetSlot) (*domain.VerifyReport, error)
}

// OrphanFinder lists files under the asset root that no slot accounts for.
type OrphanFinder interface {
	// Orphans returns relative paths sorted lexically.
	Orphans(ctx context.Context) ([]string, error)
}
