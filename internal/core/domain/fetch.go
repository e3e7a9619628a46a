package domain

// FetchStatus is the outcome class of a remote lookup.
type FetchStatus string

const (
	// FetchFound means a result was found and downloaded.
	FetchFound FetchStatus = "Found"
	// FetchNotFound means the provider returned zero usable results.
	FetchNotFound FetchStatus = "NotFound"
	// FetchNetworkError covers connection failures, timeouts, non-2xx and rate limiting.
	FetchNetworkError FetchStatus = "NetworkError"
)

// Attribution credits the author of a downloaded asset.
type Attribution struct {
	Author     string
	ProfileURL string
}

// FetchResult is the outcome of one remote lookup for one slot.
// It is discarded after being folded into the manifest entry.
type FetchResult struct {
	Status FetchStatus

	// SourceURL is the downloaded binary's URL, present only when Found.
	SourceURL string

	// Attribution is optional author information.
	Attribution *Attribution

	// Metadata holds provider details (id, page url, width, height, bytes).
	Metadata map[string]any

	// Err is the underlying cause for NotFound or NetworkError.
	Err error
}

// Found reports whether the lookup produced a downloaded file.
func (r FetchResult) Found() bool {
	return r.Status == FetchFound
}
