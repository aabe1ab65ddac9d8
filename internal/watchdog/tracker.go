package watchdog

import "time"

// modTracker remembers the last observed modification time per path. Each
// watch owns exactly one tracker and only touches it from its polling
// goroutine, so no locking is needed.
type modTracker struct {
	fs   FileSystem
	seen map[string]time.Time
}

func newModTracker(fs FileSystem) *modTracker {
	return &modTracker{
		fs:   fs,
		seen: make(map[string]time.Time),
	}
}

// hasChanged reports whether the modification time of path advanced past
// the recorded baseline. The first observation of a path records the
// baseline and counts as a change; an equal or older timestamp does not.
// Stat failures (path vanished) are propagated to the caller.
func (t *modTracker) hasChanged(path string) (bool, error) {
	mtime, err := t.fs.ModTime(path)
	if err != nil {
		return false, err
	}

	prev, ok := t.seen[path]
	if !ok {
		t.seen[path] = mtime
		return true, nil
	}
	if mtime.After(prev) {
		t.seen[path] = mtime
		return true, nil
	}
	return false, nil
}
