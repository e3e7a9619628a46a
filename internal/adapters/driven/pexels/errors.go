package pexels

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// Provider-specific errors.
var (
	// ErrNoResults indicates the search returned zero media.
	ErrNoResults = errors.New("pexels: no results")

	// ErrNoDownloadLink indicates the first result carries no usable binary URL.
	ErrNoDownloadLink = errors.New("pexels: result has no downloadable file")

	// ErrEmptyBody indicates the download returned zero bytes.
	ErrEmptyBody = errors.New("pexels: empty download")

	// ErrTruncated indicates fewer bytes arrived than Content-Length announced.
	ErrTruncated = errors.New("pexels: truncated download")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "pexels: rate limit exceeded"
	}
	return fmt.Sprintf("pexels: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is makes rate limiting a network error subtype.
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrNetwork || target == domain.ErrRateLimited
}

// APIError represents a non-2xx API or download response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pexels: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is makes every API error a network error.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNetwork
}

// IsNotFound checks if the error indicates no usable result.
// API errors, 404 included, are network failures and never count.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoResults) || errors.Is(err, ErrNoDownloadLink)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates a rejected API key.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
