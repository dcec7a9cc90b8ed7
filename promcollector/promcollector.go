// Package promcollector exports search metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/orthoset"
)

var _ orthoset.MetricsCollector = (*Collector)(nil)

// Collector implements orthoset.MetricsCollector with Prometheus metrics.
type Collector struct {
	BatchDuration  prometheus.Histogram
	Selections     *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	Searches       *prometheus.CounterVec
}

// New creates a Collector. namespace prefixes every metric name; an empty
// namespace defaults to "orthoset".
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "orthoset"
	}

	return &Collector{
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Time to score one batch of selections in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
		),

		Selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selections_total",
				Help:      "Total number of selections by outcome",
			},
			[]string{"outcome"},
		),

		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of complete searches in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"result"},
		),

		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of searches by result",
			},
			[]string{"result"},
		),
	}
}

// Register registers all metrics with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.BatchDuration,
		c.Selections,
		c.SearchDuration,
		c.Searches,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatch implements orthoset.MetricsCollector.
func (c *Collector) RecordBatch(size, retained, skipped int, duration time.Duration) {
	c.BatchDuration.Observe(duration.Seconds())
	c.Selections.WithLabelValues("retained").Add(float64(retained))
	c.Selections.WithLabelValues("skipped").Add(float64(skipped))
	c.Selections.WithLabelValues("filtered").Add(float64(size - retained - skipped))
}

// RecordSearch implements orthoset.MetricsCollector.
func (c *Collector) RecordSearch(_ uint64, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	c.Searches.WithLabelValues(result).Inc()
	c.SearchDuration.WithLabelValues(result).Observe(duration.Seconds())
}
