package driven

import (
	"time"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

// MetricsRecorder records counters and timings for a run.
type MetricsRecorder interface {
	// RecordSlot records a slot resolved with the given origin.
	RecordSlot(origin domain.Origin)

	// RecordFailure records a slot that ended Failed.
	RecordFailure()

	// RecordRemote records a remote operation ("search" or "download") and its outcome.
	RecordRemote(operation, outcome string, duration time.Duration)

	// RecordRun records the duration of a whole run.
	RecordRun(duration time.Duration)
}
