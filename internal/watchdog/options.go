package watchdog

import (
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the polling cadence used when WithInterval is not set.
const DefaultInterval = 500 * time.Millisecond

type options struct {
	interval time.Duration
	logger   *zap.Logger
	dispatch func(func())
	fs       FileSystem
}

// Option configures a Registry.
type Option func(*options)

// WithInterval sets the polling interval for watches created by the
// registry. Values <= 0 fall back to DefaultInterval.
func WithInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

// WithLogger sets the logger used for background polling diagnostics.
// The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDispatcher installs an invocation strategy for callbacks. When set,
// a watch hands each detected change to dispatch instead of calling the
// callback on its polling goroutine. Applications embedding the watcher in
// a main-loop framework use this to marshal callbacks onto their own
// thread.
func WithDispatcher(dispatch func(func())) Option {
	return func(o *options) {
		o.dispatch = dispatch
	}
}

// WithFileSystem replaces the filesystem implementation. Used by tests.
func WithFileSystem(fs FileSystem) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		interval: DefaultInterval,
		logger:   zap.NewNop(),
		fs:       osFS{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
