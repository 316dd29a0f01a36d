// README: Prometheus metrics for quotes, recommendations and distance resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Distance resolution sources.
const (
	SourceCache    = "cache"
	SourceTable    = "table"
	SourceEstimate = "estimate"
)

// Metrics methods are safe on a nil receiver so callers can run without metrics.
type Metrics struct {
	SuggestionsTotal     *prometheus.CounterVec
	RejectionsTotal      *prometheus.CounterVec
	RecommendationsTotal prometheus.Counter
	DistanceResolutions  *prometheus.CounterVec
	QuoteDuration        prometheus.Histogram
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SuggestionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_suggestions_total",
			Help:      "The total number of computed price suggestions",
		}, []string{"transport_type", "currency"}),
		RejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_rejections_total",
			Help:      "The total number of rejected price requests",
		}, []string{"reason"}),
		RecommendationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "The total number of transport recommendations computed",
		}),
		DistanceResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_resolutions_total",
			Help:      "Distance lookups by resolution source",
		}, []string{"source"}),
		QuoteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_duration_seconds",
			Help:      "Time taken to compute a price suggestion",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
}

func (m *Metrics) Suggestion(mode, currency string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SuggestionsTotal.WithLabelValues(mode, currency).Inc()
	m.QuoteDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) Rejection(reason string) {
	if m == nil {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) Recommendation() {
	if m == nil {
		return
	}
	m.RecommendationsTotal.Inc()
}

func (m *Metrics) DistanceResolved(source string) {
	if m == nil {
		return
	}
	m.DistanceResolutions.WithLabelValues(source).Inc()
}
