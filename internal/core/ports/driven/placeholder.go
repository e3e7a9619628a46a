package driven

import (
	"context"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// PlaceholderRequest describes a stand-in asset to synthesise.
type PlaceholderRequest struct {
	TargetPath string
	Label      string
	Category   string
	Dimensions domain.Dimensions
}

// PlaceholderGenerator writes deterministic stand-in assets.
type PlaceholderGenerator interface {
	// Generate writes the placeholder to req.TargetPath.
	// It fails only on filesystem write errors.
	Generate(ctx context.Context, req PlaceholderRequest) (map[string]any, error)
}
