package driven

import (
	"context"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// FetchRequest describes one remote lookup.
type FetchRequest struct {
	SlotID     string
	Query      string
	Kind       domain.Kind
	TargetPath string
}

// RemoteFetcher locates one remote asset and downloads it to the target path.
// Implementations are stateless per call and never retry.
type RemoteFetcher interface {
	// Name identifies the provider in metadata and logs.
	Name() string

	// Fetch searches once, takes the first ranked result and downloads it.
	// Expected failures are folded into FetchResult.Status; the target path is
	// either untouched or holds the complete download.
	Fetch(ctx context.Context, req FetchRequest) domain.FetchResult
}
