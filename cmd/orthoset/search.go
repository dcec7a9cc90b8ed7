package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/orthoset"
	"github.com/hupe1980/orthoset/dataset"
	"github.com/hupe1980/orthoset/engine"
	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/promcollector"
	"github.com/hupe1980/orthoset/report"
	"github.com/hupe1980/orthoset/resource"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [input.csv]",
		Short: "Search a matrix and write the ranked report",
		Long: `Load a CSV matrix (header = column labels, first column = row labels),
score every selection of the requested shape and write the best ones.

Input and output may be compressed (.zst, .lz4). Values from --config are
overridden by flags given explicitly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSearch,
	}

	def := DefaultConfig()
	f := cmd.Flags()
	f.String("config", "", "YAML config file")
	f.StringP("output", "o", def.Output, "Report path, - for stdout")
	f.String("format", def.Format, "Report format (csv|jsonl)")
	f.Int("rows", def.Shape.Rows, "Rows per selection")
	f.Int("cols", def.Shape.Cols, "Columns per selection")
	f.String("variant", def.Variant.String(), "Scoring variant (direct|sequential-accumulation)")
	f.Int("workers", def.Workers, "Scoring workers, 0 for GOMAXPROCS")
	f.Int("batch-size", def.BatchSize, "Selections buffered per batch")
	f.Float64("threshold", 0, "Keep only scores strictly below this value")
	f.Int("top-k", def.TopK, "Keep only the best k selections, 0 for all")
	f.String("error-policy", def.ErrorPolicy.String(), "Degenerate selection handling (abort|skip)")
	f.Int("limit", def.Limit, "Report rows, 0 for all")
	f.Float64("floor", def.Floor, "Clip input values below this floor")
	f.Bool("no-clip", def.NoClip, "Disable floor clipping")
	f.Bool("sequential", false, "Score on a single goroutine")
	f.Int64("memory-limit", def.MemoryLimitBytes, "Memory budget for buffered batches in bytes, 0 for unlimited")
	f.Int64("io-limit", def.IOLimitBytesPerSec, "Report write limit in bytes/sec, 0 for unlimited")
	f.String("log-level", def.LogLevel.String(), "Log level (debug|info|warn|error)")
	f.String("log-format", def.LogFormat, "Log format (text|json)")
	f.String("metrics-addr", def.MetricsAddr, "Serve Prometheus metrics on this address during the search")

	return cmd
}

func resolveConfig(cmd *cobra.Command, args []string) (Config, bool, error) {
	f := cmd.Flags()

	cfg := DefaultConfig()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return cfg, false, err
		}
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}

	var errs []error
	set := func(name string, apply func() error) {
		if f.Changed(name) {
			if err := apply(); err != nil {
				errs = append(errs, fmt.Errorf("--%s: %w", name, err))
			}
		}
	}

	set("output", func() (err error) { cfg.Output, err = f.GetString("output"); return })
	set("format", func() (err error) { cfg.Format, err = f.GetString("format"); return })
	set("rows", func() (err error) { cfg.Shape.Rows, err = f.GetInt("rows"); return })
	set("cols", func() (err error) { cfg.Shape.Cols, err = f.GetInt("cols"); return })
	set("variant", func() error {
		s, _ := f.GetString("variant")
		v, err := kernel.ParseVariant(s)
		cfg.Variant = v
		return err
	})
	set("workers", func() (err error) { cfg.Workers, err = f.GetInt("workers"); return })
	set("batch-size", func() (err error) { cfg.BatchSize, err = f.GetInt("batch-size"); return })
	set("threshold", func() error {
		t, err := f.GetFloat64("threshold")
		cfg.Threshold = &t
		return err
	})
	set("top-k", func() (err error) { cfg.TopK, err = f.GetInt("top-k"); return })
	set("error-policy", func() error {
		s, _ := f.GetString("error-policy")
		p, err := engine.ParseErrorPolicy(s)
		cfg.ErrorPolicy = p
		return err
	})
	set("limit", func() (err error) { cfg.Limit, err = f.GetInt("limit"); return })
	set("floor", func() (err error) { cfg.Floor, err = f.GetFloat64("floor"); return })
	set("no-clip", func() (err error) { cfg.NoClip, err = f.GetBool("no-clip"); return })
	set("memory-limit", func() (err error) { cfg.MemoryLimitBytes, err = f.GetInt64("memory-limit"); return })
	set("io-limit", func() (err error) { cfg.IOLimitBytesPerSec, err = f.GetInt64("io-limit"); return })
	set("log-level", func() error {
		s, _ := f.GetString("log-level")
		return cfg.LogLevel.UnmarshalText([]byte(s))
	})
	set("log-format", func() (err error) { cfg.LogFormat, err = f.GetString("log-format"); return })
	set("metrics-addr", func() (err error) { cfg.MetricsAddr, err = f.GetString("metrics-addr"); return })

	sequential, _ := f.GetBool("sequential")

	if err := errors.Join(errs...); err != nil {
		return cfg, false, err
	}
	return cfg, sequential, cfg.Validate()
}

func newLogger(cfg Config) *orthoset.Logger {
	if cfg.LogFormat == "json" {
		return orthoset.NewJSONLogger(cfg.LogLevel)
	}
	return orthoset.NewTextLogger(cfg.LogLevel)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, sequential, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := newLogger(cfg)

	m, err := dataset.Load(cfg.Input, func(o *dataset.Options) {
		o.Floor = cfg.Floor
		o.DisableClip = cfg.NoClip
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "dataset loaded", "input", cfg.Input, "rows", m.Rows(), "cols", m.Cols())

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemoryLimitBytes,
		IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
	})

	collector := promcollector.New("orthoset")
	if cfg.MetricsAddr != "" {
		stop, err := serveMetrics(ctx, cfg.MetricsAddr, collector, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	opts := []orthoset.Option{
		orthoset.WithVariant(cfg.Variant),
		orthoset.WithWorkers(cfg.Workers),
		orthoset.WithBatchSize(cfg.BatchSize),
		orthoset.WithTopK(cfg.TopK),
		orthoset.WithErrorPolicy(cfg.ErrorPolicy),
		orthoset.WithLogger(logger),
		orthoset.WithMetricsCollector(collector),
		orthoset.WithResourceController(rc),
	}
	if cfg.Threshold != nil {
		opts = append(opts, orthoset.WithThreshold(*cfg.Threshold))
	}

	search := orthoset.Search
	if sequential {
		search = orthoset.SearchSequential
	}
	res, err := search(ctx, m, cfg.Shape, opts...)
	if err != nil {
		return err
	}

	return writeReport(ctx, cfg, rc, report.Build(res, m, cfg.Limit), cmd.OutOrStdout())
}

func writeReport(ctx context.Context, cfg Config, rc *resource.Controller, rows []report.Row, stdout io.Writer) (err error) {
	var w io.Writer = stdout
	if cfg.Output != "-" && cfg.Output != "" {
		wc, err := report.Create(ctx, cfg.Output, rc)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, wc.Close())
		}()
		w = wc
	}

	if cfg.Format == "jsonl" {
		return report.WriteJSONL(w, rows)
	}
	return report.WriteCSV(w, rows)
}

func serveMetrics(ctx context.Context, addr string, c *promcollector.Collector, logger *orthoset.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := c.Register(reg); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.InfoContext(ctx, "serving metrics", "addr", addr)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log(ctx, slog.LevelWarn, "metrics server shutdown", "error", err)
		}
	}, nil
}
