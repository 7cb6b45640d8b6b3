package pixload

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/pixload/pixel"
)

// Logger wraps slog.Logger with pixload-specific context.
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

// LogDecode logs a finished decode.
func (l *Logger) LogDecode(ctx context.Context, path string, d time.Duration, img *pixel.Image, err error) {
	if err != nil {
		l.WarnContext(ctx, "decode failed",
			"path", path,
			"duration", d,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "decode completed",
		"path", path,
		"duration", d,
		"width", img.Width(),
		"height", img.Height(),
		"size", humanize.IBytes(uint64(img.SizeBytes())),
	)
}

// LogDelivery logs what happened to a result on the owner goroutine.
func (l *Logger) LogDelivery(ctx context.Context, path, outcome string) {
	l.DebugContext(ctx, "result delivered",
		"path", path,
		"outcome", outcome,
	)
}

// LogEviction logs an entry leaving the memory cache.
func (l *Logger) LogEviction(ctx context.Context, path string, bytes int64) {
	l.DebugContext(ctx, "cache entry released",
		"path", path,
		"size", humanize.IBytes(uint64(max(bytes, 0))),
	)
}

// LogInvalidation logs a cache entry dropped because its source changed.
func (l *Logger) LogInvalidation(ctx context.Context, path string) {
	l.InfoContext(ctx, "source changed, cache entry invalidated",
		"path", path,
	)
}

// LogStart logs the engine configuration.
func (l *Logger) LogStart(ctx context.Context, threads int, ordering Ordering, budget int64) {
	l.InfoContext(ctx, "engine started",
		"threads", threads,
		"ordering", ordering.String(),
		"cache_budget", humanize.IBytes(uint64(budget)),
	)
}

// LogClose logs engine shutdown.
func (l *Logger) LogClose(ctx context.Context, dropped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "engine close failed",
			"dropped_tasks", dropped,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "engine closed",
		"dropped_tasks", dropped,
	)
}
