package rawmem

import (
	"log/slog"
)

type options struct {
	substrate   Substrate
	memoryLimit int64
	metrics     MetricsCollector
	logger      *Logger
}

// Option configures an Allocator.
type Option func(*options)

// WithSubstrate configures the allocator substrate.
//
// If nil is passed, a Go-heap substrate (substrate.NewHeap) is used.
//
// Example with off-heap memory:
//
//	a := rawmem.New(rawmem.WithSubstrate(substrate.NewMmap()))
func WithSubstrate(s Substrate) Option {
	return func(o *options) {
		o.substrate = s
	}
}

// WithMemoryLimit caps the bytes live at any time. Requests beyond the
// limit fail: try variants return nil, promoting variants panic with
// *OutOfMemoryError. A limit <= 0 disables the cap.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for allocation calls.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rawmem.BasicMetricsCollector{}
//	a := rawmem.New(rawmem.WithMetricsCollector(metrics))
//	// ... use a ...
//	fmt.Printf("Live regions: %d\n", metrics.Live())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger configures structured logging of allocation failures.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rawmem.NewJSONLogger(slog.LevelDebug)
//	a := rawmem.New(rawmem.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

func applyOptions(optFns []Option) options {
	o := options{
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
