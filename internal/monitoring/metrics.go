package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the run's Prometheus metrics. The run is a one-shot
// job, so metrics live in their own registry and are pushed to a
// gateway at the end instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	ItemsDiscovered prometheus.Counter
	ItemsExtracted  prometheus.Counter
	ItemsEligible   prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	RunDuration     prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ItemsDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricewatch_items_discovered_total",
			Help: "The total number of item cards found on the listing page",
		}),
		ItemsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricewatch_items_extracted_total",
			Help: "The total number of items with a resolved price",
		}),
		ItemsEligible: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricewatch_items_eligible_total",
			Help: "The total number of items eligible for notification",
		}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricewatch_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'notify_failed', 'extract_failed'
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricewatch_run_duration_seconds",
			Help:    "Wall-clock duration of a monitoring run",
			Buckets: []float64{5, 15, 30, 60, 90, 110, 120, 180},
		}),
	}
}

// Push ships the registry to a Pushgateway. Best-effort at the end of
// a run.
func (m *Metrics) Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.registry).Push()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
