package orthoset

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see package promcollector for a ready-made implementation.
type MetricsCollector interface {
	// RecordBatch is called after each batch has been scored.
	// size is the number of selections in the batch, retained the number
	// that passed the threshold and skipped the number dropped under the
	// skip error policy.
	RecordBatch(size, retained, skipped int, duration time.Duration)

	// RecordSearch is called once per search with the evaluated selection
	// count, the total duration and the final error (nil on success).
	RecordSearch(evaluated uint64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBatch(int, int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordSearch(uint64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BatchCount       atomic.Int64
	BatchSelections  atomic.Int64
	BatchRetained    atomic.Int64
	BatchSkipped     atomic.Int64
	BatchTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchEvaluated  atomic.Int64
	SearchTotalNanos atomic.Int64
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(size, retained, skipped int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchSelections.Add(int64(size))
	b.BatchRetained.Add(int64(retained))
	b.BatchSkipped.Add(int64(skipped))
	b.BatchTotalNanos.Add(duration.Nanoseconds())
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(evaluated uint64, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchEvaluated.Add(int64(evaluated))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BatchCount:      b.BatchCount.Load(),
		BatchSelections: b.BatchSelections.Load(),
		BatchRetained:   b.BatchRetained.Load(),
		BatchSkipped:    b.BatchSkipped.Load(),
		BatchAvgNanos:   avg(b.BatchTotalNanos.Load(), b.BatchCount.Load()),
		SearchCount:     b.SearchCount.Load(),
		SearchErrors:    b.SearchErrors.Load(),
		SearchEvaluated: b.SearchEvaluated.Load(),
		SearchAvgNanos:  avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BatchCount      int64
	BatchSelections int64
	BatchRetained   int64
	BatchSkipped    int64
	BatchAvgNanos   int64
	SearchCount     int64
	SearchErrors    int64
	SearchEvaluated int64
	SearchAvgNanos  int64
}
