package watchdog

import (
	"sync"
	"time"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Long-lived applications that want their own polling interval, logger or
// dispatcher should construct a Registry with New instead.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Watch registers callback for path on the process-wide registry.
func Watch(path string, callback Callback) error {
	return Default().Watch(path, callback)
}

// WatchList registers a list callback for path on the process-wide registry.
func WatchList(path string, callback ListCallback) error {
	return Default().WatchList(path, callback)
}

// Unwatch removes path from the process-wide registry.
func Unwatch(path string) {
	Default().Unwatch(path)
}

// UnwatchAll removes every watch from the process-wide registry.
func UnwatchAll() {
	Default().UnwatchAll()
}

// Touch sets the modification time of path. A zero mtime means now.
func Touch(path string, mtime time.Time) error {
	return Default().Touch(path, mtime)
}
