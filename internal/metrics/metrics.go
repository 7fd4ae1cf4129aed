// Package metrics exposes Prometheus collectors for renders.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/wavsynth"
)

// Outcomes of a render.
const (
	OutcomeOK      = "ok"
	OutcomeClipped = "clipped"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Counters
var (
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavsynth_renders_total",
		Help: "Total renders by outcome",
	}, []string{"outcome"})
	ClippedSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavsynth_clipped_samples_total",
		Help: "Total samples clamped during quantization",
	})
	EncodedBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wavsynth_encoded_bytes_total",
		Help: "Total bytes of encoded audio by container",
	}, []string{"container"})
	SkippedRendersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wavsynth_batch_skipped_total",
		Help: "Batch combinations skipped because they render to an existing name",
	})
)

// Gauges
var (
	BatchInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wavsynth_batch_in_flight",
		Help: "Number of batch renders currently running",
	})
)

// Histograms
var (
	RenderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wavsynth_render_duration_ms",
		Help:    "Render duration in milliseconds by container",
		Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 5000},
	}, []string{"container"})
)

// Outcome classifies a render result.
func Outcome(f *wavsynth.EncodedFile, err error) string {
	switch {
	case err == nil && f != nil && f.Clipped > 0:
		return OutcomeClipped
	case err == nil:
		return OutcomeOK
	case errors.Is(err, wavsynth.ErrInvalidSpec),
		errors.Is(err, wavsynth.ErrMismatchedFormat),
		errors.Is(err, wavsynth.ErrUnsupportedFormat):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// ObserveRender records one finished render.
func ObserveRender(container wavsynth.Container, f *wavsynth.EncodedFile, err error, elapsed time.Duration) {
	RendersTotal.WithLabelValues(Outcome(f, err)).Inc()
	RenderLatency.WithLabelValues(container.String()).Observe(float64(elapsed) / float64(time.Millisecond))

	if err != nil || f == nil {
		return
	}

	ClippedSamplesTotal.Add(float64(f.Clipped))
	EncodedBytesTotal.WithLabelValues(f.Container.String()).Add(float64(f.Len()))
}
