package driven

import (
	"context"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// RunStore persists the history of pipeline runs.
type RunStore interface {
	// Save stores a finished run.
	Save(ctx context.Context, rec domain.RunRecord) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
