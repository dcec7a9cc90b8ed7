package orthoset

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/orthoset/engine"
	"github.com/hupe1980/orthoset/selection"
)

// Logger wraps slog.Logger with search-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSearchID adds the search run ID to the logger.
func (l *Logger) WithSearchID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("search_id", id),
	}
}

// WithShape adds the requested selection shape to the logger.
func (l *Logger) WithShape(shape selection.Shape) *Logger {
	return &Logger{
		Logger: l.Logger.With("shape", shape.String()),
	}
}

// LogSearch logs the outcome of a search.
func (l *Logger) LogSearch(ctx context.Context, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "search completed",
		"evaluated", res.Evaluated,
		"retained", len(res.Scored),
		"skipped", res.Skipped,
		"duration", res.Duration,
	)
}

// LogBatch logs a scored batch.
func (l *Logger) LogBatch(ctx context.Context, batch, size, retained, skipped int) {
	if skipped > 0 {
		l.WarnContext(ctx, "batch completed with skipped selections",
			"batch", batch,
			"size", size,
			"retained", retained,
			"skipped", skipped,
		)
	} else {
		l.DebugContext(ctx, "batch completed",
			"batch", batch,
			"size", size,
			"retained", retained,
		)
	}
}

// LogSkip logs a selection dropped under the skip error policy.
func (l *Logger) LogSkip(ctx context.Context, skip engine.Skip) {
	l.DebugContext(ctx, "selection skipped",
		"selection", skip.Selection.String(),
		"error", skip.Err,
	)
}
