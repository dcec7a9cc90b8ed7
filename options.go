package orthoset

import (
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/hupe1980/orthoset/engine"
	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/resource"
)

// DefaultBatchSize bounds the selections buffered per batch when no
// WithBatchSize option is given.
const DefaultBatchSize = 1_000_000

// DefaultProgressInterval is the minimum time between progress log lines.
const DefaultProgressInterval = 10 * time.Second

type options struct {
	variant          kernel.Variant
	workers          int
	batchSize        int
	threshold        float64
	topK             int
	policy           engine.ErrorPolicy
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *resource.Controller
	progressInterval time.Duration
}

// Option configures a search.
type Option func(*options)

func defaultOptions() options {
	return options{
		variant:          kernel.Direct,
		workers:          runtime.GOMAXPROCS(0),
		batchSize:        DefaultBatchSize,
		threshold:        engine.NoThreshold,
		policy:           engine.ErrorPolicyAbort,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		progressInterval: DefaultProgressInterval,
	}
}

func newOptions(optFns []Option) (options, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	if o.workers < 0 {
		return o, ErrInvalidWorkers
	}
	if o.workers == 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.batchSize < 1 {
		return o, ErrInvalidBatchSize
	}
	if o.topK < 0 {
		return o, ErrInvalidTopK
	}
	if math.IsNaN(o.threshold) {
		o.threshold = engine.NoThreshold
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o, nil
}

func (o options) scorerConfig() engine.ScorerConfig {
	return engine.ScorerConfig{
		Variant:   o.variant,
		Threshold: o.threshold,
		Policy:    o.policy,
	}
}

// WithVariant selects the scoring kernel. SequentialAccumulation also
// switches column subsets from combinations to permutations.
func WithVariant(v kernel.Variant) Option {
	return func(o *options) {
		o.variant = v
	}
}

// WithWorkers sets the number of scoring workers used by Search.
// Zero means runtime.GOMAXPROCS(0). SearchSequential ignores it.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBatchSize bounds how many selections are buffered at once.
//
// Batch size and worker count are performance knobs only: they never
// change the ranked result.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithThreshold retains only selections scoring strictly below t.
// The filter runs right after scoring, so rejected selections are never
// buffered. Use engine.NoThreshold (the default) to keep everything.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithTopK keeps only the best k selections, in O(k) memory.
// Zero (the default) keeps all retained selections.
func WithTopK(k int) Option {
	return func(o *options) {
		o.topK = k
	}
}

// WithErrorPolicy chooses how degenerate selections are handled.
// The default aborts the search on the first one.
func WithErrorPolicy(p engine.ErrorPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &orthoset.BasicMetricsCollector{}
//	res, _ := orthoset.Search(ctx, m, shape, orthoset.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Batches: %d, Avg latency: %dns\n", stats.BatchCount, stats.BatchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := orthoset.NewJSONLogger(slog.LevelInfo)
//	res, _ := orthoset.Search(ctx, m, shape, orthoset.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController shares memory and concurrency limits between
// searches. Each batch reserves its estimated size before it is scored.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithProgressInterval sets the minimum time between progress log lines.
// Zero or negative disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}
