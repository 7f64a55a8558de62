package assembly

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/notargets/gocsm/utils"
)

const (
	metricsNamespace  = "gocsm"
	assemblySubsystem = "assembly"
)

// Metrics instruments the element loop. A nil *Metrics disables instrumentation.
type Metrics struct {
	// Elements counts successful element evaluations
	Elements prometheus.Counter
	// Failures counts failed element evaluations.
	// Labels: reason (inversion, degenerate_volume, dimension, canceled, other)
	Failures *prometheus.CounterVec
	// Duration measures one element evaluation in seconds
	Duration prometheus.Histogram
	// NonZeros tracks the stored entries of the last assembled tangent
	NonZeros prometheus.Gauge
}

// NewMetrics registers the assembly metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Elements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assemblySubsystem,
			Name:      "elements_total",
			Help:      "Total element evaluations",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assemblySubsystem,
			Name:      "element_failures_total",
			Help:      "Total failed element evaluations by reason",
		}, []string{"reason"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: assemblySubsystem,
			Name:      "element_duration_seconds",
			Help:      "Time to evaluate one element in seconds",
			Buckets:   prometheus.ExponentialBuckets(1.e-6, 4, 10),
		}),
		NonZeros: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: assemblySubsystem,
			Name:      "tangent_nonzeros",
			Help:      "Stored entries of the last assembled global tangent",
		}),
	}
}

func (m *Metrics) observe(seconds float64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Failures.WithLabelValues(failureReason(err)).Inc()
		return
	}
	m.Elements.Inc()
	m.Duration.Observe(seconds)
}

func (m *Metrics) setNonZeros(nnz int) {
	if m == nil {
		return
	}
	m.NonZeros.Set(float64(nnz))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, utils.ErrElementInversion):
		return "inversion"
	case errors.Is(err, utils.ErrDegenerateVolume):
		return "degenerate_volume"
	case errors.Is(err, utils.ErrDimension):
		return "dimension"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
