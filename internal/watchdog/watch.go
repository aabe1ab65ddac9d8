package watchdog

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Callback receives the originally watched path when a change is detected.
// For wildcard watches this is the literal pattern path (dir/filter), not
// the specific file that changed.
//
// Callbacks run without the registry lock held, so they may call back into
// the Registry, with one restriction: a callback must not unwatch its own
// path, since Unwatch joins the polling goroutine the callback runs on.
type Callback func(path string)

// ListCallback receives the full paths of the entries that changed during
// one tick. The re-entrancy restriction on Callback applies here too.
type ListCallback func(paths []string)

// watch owns one registration: the resolved directory, the optional filter
// and the callback, plus the goroutine that polls them. Exactly one of
// callback and listCallback is set.
type watch struct {
	dir     string
	pattern string // raw filter segment, "" for literal watches
	filter  Filter

	callback     Callback
	listCallback ListCallback
	dispatch     func(func())

	fs       FileSystem
	tracker  *modTracker
	interval time.Duration
	logger   *zap.Logger

	// matching entries present at registration, reported by the first
	// list invocation
	initial []string

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newWatch(dir, pattern string, callback Callback, listCallback ListCallback, opts *options) *watch {
	return &watch{
		dir:          dir,
		pattern:      pattern,
		filter:       newFilter(pattern),
		callback:     callback,
		listCallback: listCallback,
		dispatch:     opts.dispatch,
		fs:           opts.fs,
		tracker:      newModTracker(opts.fs),
		interval:     opts.interval,
		logger:       opts.logger,
		stopCh:       make(chan struct{}),
	}
}

// target is the path handed to the callback: dir/filter for wildcard
// watches, the bare path otherwise.
func (w *watch) target() string {
	if w.pattern == "" {
		return w.dir
	}
	return filepath.Join(w.dir, w.pattern)
}

// start seeds the baseline and spawns the polling goroutine.
//
// For a wildcard watch every currently matching entry is observed once, so
// the first poll does not report pre-existing files, and the callback fires
// exactly once up front. A literal watch gets no upfront callback: its
// first tick records the baseline and reports it as a change.
func (w *watch) start() {
	if w.pattern != "" {
		names, err := w.fs.ListDir(w.dir)
		if err != nil {
			names = nil
		}
		for _, name := range names {
			if !w.filter.Matches(name) {
				continue
			}
			path := filepath.Join(w.dir, name)
			if _, err := w.tracker.hasChanged(path); err != nil {
				w.logger.Debug("baseline stat failed",
					zap.String("path", path),
					zap.Error(err))
				continue
			}
			w.initial = append(w.initial, path)
		}
	}

	w.wg.Add(1)
	go w.run()
}

func (w *watch) run() {
	defer w.wg.Done()

	// The registration callback of a wildcard watch is delivered here,
	// off the registry lock, so it can call back into the registry. The
	// path callback receives the pattern path; the list callback receives
	// every entry that matched at registration time.
	if w.pattern != "" {
		select {
		case <-w.stopCh:
			return
		default:
			if w.listCallback != nil {
				w.invokeList(w.initial)
			} else {
				w.invoke(w.target())
			}
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-w.stopCh:
			return
		}
	}
}

// tick runs one round of change detection. Filesystem errors mean "no
// change this tick"; polling only stops on an explicit stop request.
func (w *watch) tick() {
	if w.pattern == "" {
		changed, err := w.tracker.hasChanged(w.dir)
		if err != nil {
			w.logger.Debug("stat failed",
				zap.String("path", w.dir),
				zap.Error(err))
			return
		}
		if !changed {
			return
		}
		if w.listCallback != nil {
			w.invokeList([]string{w.dir})
		} else {
			w.invoke(w.dir)
		}
		return
	}

	names, err := w.fs.ListDir(w.dir)
	if err != nil {
		// Directory vanished: nothing matches until it comes back.
		w.logger.Debug("list failed",
			zap.String("dir", w.dir),
			zap.Error(err))
		return
	}
	var changedPaths []string
	for _, name := range names {
		if !w.filter.Matches(name) {
			continue
		}
		path := filepath.Join(w.dir, name)
		changed, err := w.tracker.hasChanged(path)
		if err != nil || !changed {
			continue
		}
		if w.listCallback == nil {
			// At most one callback per tick, even when several
			// filtered entries changed.
			w.invoke(w.target())
			return
		}
		changedPaths = append(changedPaths, path)
	}
	if len(changedPaths) > 0 {
		w.invokeList(changedPaths)
	}
}

// invoke hands the callback to the dispatcher when one is configured,
// otherwise calls it directly on the current goroutine.
func (w *watch) invoke(path string) {
	if w.dispatch != nil {
		cb := w.callback
		w.dispatch(func() { cb(path) })
		return
	}
	w.callback(path)
}

func (w *watch) invokeList(paths []string) {
	if w.dispatch != nil {
		cb := w.listCallback
		w.dispatch(func() { cb(paths) })
		return
	}
	w.listCallback(paths)
}

// stop signals the polling goroutine and blocks until it has exited. No
// callback can fire from this watch once stop returns.
func (w *watch) stop() {
	close(w.stopCh)
	w.wg.Wait()
}
