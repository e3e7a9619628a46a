package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfig indicates a broken slot configuration.
	// It is fatal for the whole run and is raised before any I/O.
	ErrConfig = errors.New("invalid configuration")

	// ErrDuplicateTarget indicates two slots resolve to the same file.
	ErrDuplicateTarget = errors.New("duplicate target path")

	// ErrInvalidDimensions indicates a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidSlot indicates a malformed slot declaration.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// Remote Errors.

	// ErrNetwork indicates a transient remote failure (connection, timeout, non-2xx).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited indicates the provider's rate limit was exceeded.
	// It is treated as a network error.
	ErrRateLimited = errors.New("rate limited")

	// ErrRemoteDisabled indicates no remote credential is configured.
	// Slots degrade straight to placeholders; this is not a failure.
	ErrRemoteDisabled = errors.New("remote fetching disabled")

	// Local Errors.

	// ErrWrite indicates a local filesystem failure.
	// It is the only condition that marks a slot Failed.
	ErrWrite = errors.New("write error")

	// ErrRunLocked indicates another pipeline run holds the asset root.
	ErrRunLocked = errors.New("asset root is locked by another run")

	// ErrSlotsFailed indicates one or more slots ended in the Failed state.
	ErrSlotsFailed = errors.New("one or more slots failed")
)

// ConfigError collects every validation problem found in a slot configuration.
type ConfigError struct {
	Problems []error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Is reports ErrConfig for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ConfigError) Unwrap() []error {
	return e.Problems
}

// SlotError records why a single slot could not be resolved.
type SlotError struct {
	SlotID string
	Err    error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %s: %v", e.SlotID, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}
