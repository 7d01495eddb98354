package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Push delivery metrics
	PushSends           *prometheus.CounterVec
	PushSendDuration    prometheus.Histogram
	InvalidEndpoints    prometheus.Counter
	SubscriptionsStored prometheus.Gauge

	// Fallback queue metrics
	QueueEnqueued prometheus.Counter
	QueueDrained  prometheus.Counter
	QueueCleaned  prometheus.Counter

	// Sweep metrics
	SweepDuration prometheus.Histogram
	SweepRemovals prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		PushSends: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_sends_total",
			Help:      "Total push sends by outcome",
		}, []string{"outcome"}),
		PushSendDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "push_send_duration_seconds",
			Help:      "Duration of individual push sends",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		InvalidEndpoints: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_endpoints_removed_total",
			Help:      "Total endpoints removed after a 404/410 from the push service",
		}),
		SubscriptionsStored: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions_stored",
			Help:      "Subscriptions counted during the last health sweep",
		}),
		QueueEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_enqueued_total",
			Help:      "Notifications enqueued into the polling fallback queue",
		}),
		QueueDrained: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_drained_total",
			Help:      "Notifications drained by polling clients",
		}),
		QueueCleaned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_cleaned_total",
			Help:      "Queued notifications removed by the retention sweep",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of full endpoint health sweeps",
			Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120},
		}),
		SweepRemovals: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_removals_total",
			Help:      "Endpoints removed by health sweeps",
		}),
	}
}
