package rawmem

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with rawmem-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSubstrate adds a substrate name field to the logger.
func (l *Logger) WithSubstrate(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("substrate", name),
	}
}

// logAllocFailure logs a failed allocation or reallocation. Fatal failures
// (promoting variants) log at error level, try variants at debug level.
func (l *Logger) logAllocFailure(ctx context.Context, op string, req request, fatal bool) {
	attrs := []any{
		"op", op,
		"size", req.size,
		"alignment", req.alignment,
		"offset", req.offset,
	}
	if req.count != 0 || req.elemSize != 0 {
		attrs = append(attrs, "count", req.count, "element_size", req.elemSize)
	}

	if fatal {
		l.ErrorContext(ctx, "out of memory", attrs...)
	} else {
		l.DebugContext(ctx, "allocation failed", attrs...)
	}
}

// LogCapability logs the capability token selected at startup.
func (l *Logger) LogCapability(ctx context.Context, c Capability) {
	l.InfoContext(ctx, "simd capability",
		"isa", c.ISA,
		"width", c.Width,
		"stride_bytes", c.StrideBytes,
		"overridden", c.Overridden,
	)
}
