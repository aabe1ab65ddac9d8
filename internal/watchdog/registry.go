package watchdog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry tracks active watches keyed by the originally requested path
// string (including any wildcard segment). All methods are safe for
// concurrent use.
type Registry struct {
	opts *options

	mu      sync.Mutex
	watches map[string]*watch
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	return &Registry{
		opts:    newOptions(opts),
		watches: make(map[string]*watch),
	}
}

// Watch registers callback for path and starts polling it. The final path
// segment may carry a single * wildcard, in which case the parent directory
// is scanned for matching entries.
//
// Registration fails with ErrNotFound when the path (or, for wildcard
// patterns, the containing directory) does not exist, or when a wildcard
// pattern matches no current entry. A path that is already watched is left
// untouched: the call is a silent no-op and the original callback stays
// registered.
//
// A nil callback turns the call into a deregistration request: the path's
// watch is removed, and an empty path removes every watch.
func (r *Registry) Watch(path string, callback Callback) error {
	if callback == nil {
		if path == "" {
			r.UnwatchAll()
		} else {
			r.Unwatch(path)
		}
		return nil
	}
	return r.register(path, callback, nil)
}

// WatchList registers callback for path like Watch, but the callback
// receives the full paths of the entries that changed during a tick instead
// of the pattern path; several changes in one tick arrive as one call. For
// a wildcard pattern the registration callback carries every entry matching
// at registration time. Nil callbacks deregister exactly as in Watch.
func (r *Registry) WatchList(path string, callback ListCallback) error {
	if callback == nil {
		if path == "" {
			r.UnwatchAll()
		} else {
			r.Unwatch(path)
		}
		return nil
	}
	return r.register(path, nil, callback)
}

func (r *Registry) register(path string, callback Callback, listCallback ListCallback) error {
	dir, pattern := splitPattern(path)
	if !r.opts.fs.Exists(dir) {
		return notFound(path)
	}
	if pattern != "" && !r.anyMatch(dir, newFilter(pattern)) {
		return notFound(path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.watches[path]; ok {
		return nil
	}

	w := newWatch(dir, pattern, callback, listCallback, r.opts)
	w.start()
	r.watches[path] = w

	r.opts.logger.Debug("watch added",
		zap.String("path", path),
		zap.Int("active", len(r.watches)))
	return nil
}

// Unwatch stops and removes the watch registered under path. The polling
// goroutine is joined before Unwatch returns, so no callback for this path
// can fire afterwards. Unwatching an unknown path is a no-op.
func (r *Registry) Unwatch(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watches[path]
	if !ok {
		return
	}
	w.stop()
	delete(r.watches, path)

	r.opts.logger.Debug("watch removed",
		zap.String("path", path),
		zap.Int("active", len(r.watches)))
}

// UnwatchAll stops and removes every registered watch, joining each polling
// goroutine before returning.
func (r *Registry) UnwatchAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, w := range r.watches {
		w.stop()
		delete(r.watches, key)
	}
}

// Close stops all watches. It implements io.Closer so a registry can be
// torn down with defer; the error is always nil.
func (r *Registry) Close() error {
	r.UnwatchAll()
	return nil
}

// Len returns the number of active watches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watches)
}

// Touch sets the modification time of path, forcing the next poll that
// observes it to report a change. A zero mtime means the current time.
// When path itself does not exist but carries a wildcard, every matching
// entry in the parent directory is touched instead. Touch fails with
// ErrNotFound when there is nothing to touch.
func (r *Registry) Touch(path string, mtime time.Time) error {
	if mtime.IsZero() {
		mtime = time.Now()
	}

	fs := r.opts.fs
	if fs.Exists(path) {
		if err := fs.SetModTime(path, mtime); err != nil {
			return fmt.Errorf("watchdog: touch %s: %w", path, err)
		}
		return nil
	}

	dir, pattern := splitPattern(path)
	if pattern == "" {
		return notFound(path)
	}
	names, err := fs.ListDir(dir)
	if err != nil {
		return notFound(path)
	}

	filter := newFilter(pattern)
	touched := false
	for _, name := range names {
		if !filter.Matches(name) {
			continue
		}
		entry := filepath.Join(dir, name)
		if err := fs.SetModTime(entry, mtime); err != nil {
			return fmt.Errorf("watchdog: touch %s: %w", entry, err)
		}
		touched = true
	}
	if !touched {
		return notFound(path)
	}
	return nil
}

// anyMatch reports whether dir currently contains at least one entry
// matching filter.
func (r *Registry) anyMatch(dir string, filter Filter) bool {
	names, err := r.opts.fs.ListDir(dir)
	if err != nil {
		return false
	}
	for _, name := range names {
		if filter.Matches(name) {
			return true
		}
	}
	return false
}
