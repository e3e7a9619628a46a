// Package metrics implements the MetricsRecorder port.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// Ensure PrometheusRecorder implements the interface.
var _ driven.MetricsRecorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements MetricsRecorder using Prometheus metrics on a
// private registry, exported as a node_exporter textfile after each run.
type PrometheusRecorder struct {
	registry              *prometheus.Registry
	slotsTotal            *prometheus.CounterVec
	slotFailuresTotal     prometheus.Counter
	remoteRequestTotal    *prometheus.CounterVec
	remoteRequestDuration *prometheus.HistogramVec
	runDuration           prometheus.Gauge
	lastRunTimestamp      prometheus.Gauge
	now                   func() time.Time
}

// NewPrometheusRecorder creates a new PrometheusRecorder and registers metrics
func NewPrometheusRecorder() *PrometheusRecorder {
	recorder := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		slotsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orson_assets_slots_resolved_total",
				Help: "Total number of slots resolved, by origin",
			},
			[]string{"origin"},
		),
		slotFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orson_assets_slot_failures_total",
				Help: "Total number of slots that ended Failed",
			},
		),
		remoteRequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orson_assets_remote_requests_total",
				Help: "Total number of requests made to the stock-media provider",
			},
			[]string{"operation", "outcome"},
		),
		remoteRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orson_assets_remote_request_duration_seconds",
				Help:    "Duration of stock-media provider requests in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),
		runDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orson_assets_last_run_duration_seconds",
				Help: "Duration of the last pipeline run in seconds",
			},
		),
		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orson_assets_last_run_timestamp_seconds",
				Help: "Unix time the last pipeline run finished",
			},
		),
		now: time.Now,
	}

	recorder.registry.MustRegister(
		recorder.slotsTotal,
		recorder.slotFailuresTotal,
		recorder.remoteRequestTotal,
		recorder.remoteRequestDuration,
		recorder.runDuration,
		recorder.lastRunTimestamp,
	)

	// Expose every origin even when a run produced none of it.
	for _, o := range domain.AllOrigins() {
		recorder.slotsTotal.WithLabelValues(string(o))
	}

	return recorder
}

// Registry returns the private registry holding all pipeline metrics.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordSlot records a slot resolved with the given origin.
func (r *PrometheusRecorder) RecordSlot(origin domain.Origin) {
	r.slotsTotal.WithLabelValues(string(origin)).Inc()
}

// RecordFailure records a slot that ended Failed.
func (r *PrometheusRecorder) RecordFailure() {
	r.slotFailuresTotal.Inc()
}

// RecordRemote records a provider request and its outcome.
func (r *PrometheusRecorder) RecordRemote(operation, outcome string, duration time.Duration) {
	r.remoteRequestTotal.WithLabelValues(operation, outcome).Inc()
	if duration > 0 {
		r.remoteRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// RecordRun records the duration of a finished run.
func (r *PrometheusRecorder) RecordRun(duration time.Duration) {
	r.runDuration.Set(duration.Seconds())
	r.lastRunTimestamp.Set(float64(r.now().Unix()))
}

// WriteTextfile writes all metrics in the Prometheus text format to path.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
