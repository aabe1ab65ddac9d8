// Package watchdog implements a polling file watcher for development-time
// hot reloading of shaders, configs and other assets.
//
// A Registry maps watched paths to background polling loops. A path may
// carry a single * wildcard in its final segment ("shaders/*.frag"), in
// which case the parent directory is scanned each tick and the pattern path
// is handed back to the callback when any matching entry changes. Paths
// without a wildcard are polled directly.
//
// Two callback shapes are supported. Watch hands the callback the watched
// path (for wildcard watches the pattern path, regardless of which entry
// changed); WatchList hands it the full paths of the entries that changed
// during the tick.
//
// Change detection is mtime based: each watch remembers the last observed
// modification time per path and reports a change only when the timestamp
// strictly advances. There is no OS event integration; detection latency is
// bounded by the polling interval (500ms by default).
//
// Key properties:
//   - One goroutine per watch; ticks for a single watch never overlap
//   - Unwatch and UnwatchAll join the polling goroutine, so no callback
//     fires after they return
//   - Registration fails fast with ErrNotFound; errors during polling are
//     swallowed per tick and retried on the next one
//   - Callbacks run on the polling goroutine unless a Dispatcher hands
//     them to another execution context
//
// Example usage:
//
//	reg := watchdog.New(watchdog.WithLogger(logger))
//	defer reg.Close()
//
//	err := reg.Watch("shaders/*.frag", func(path string) {
//		recompile(path)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Force a reload without editing the file.
//	reg.Touch("shaders/blur.frag", time.Time{})
//
// A process-wide registry is available through the package-level Watch,
// Unwatch, UnwatchAll and Touch functions.
package watchdog
