package metrics

import (
	"time"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// Ensure Noop implements the interface.
var _ driven.MetricsRecorder = Noop{}

// Noop discards all metrics.
type Noop struct{}

func (Noop) RecordSlot(domain.Origin)                   {}
func (Noop) RecordFailure()                             {}
func (Noop) RecordRemote(string, string, time.Duration) {}
func (Noop) RecordRun(time.Duration)                    {}
