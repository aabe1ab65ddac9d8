package watchdog

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// fakeFS is an in-memory FileSystem that lets tests drive modification
// times deterministically instead of sleeping on real mtime granularity.
type fakeFS struct {
	mu    sync.Mutex
	dirs  map[string]time.Time
	files map[string]time.Time
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs:  make(map[string]time.Time),
		files: make(map[string]time.Time),
	}
}

func (f *fakeFS) addDir(dir string, mtime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[dir] = mtime
}

// addFile creates or replaces a file and makes sure its parent directory
// exists.
func (f *fakeFS) addFile(path string, mtime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = mtime
	dir := filepath.Dir(path)
	if _, ok := f.dirs[dir]; !ok {
		f.dirs[dir] = mtime
	}
}

func (f *fakeFS) remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	delete(f.dirs, path)
}

func (f *fakeFS) mtime(path string) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mtime, ok := f.files[path]; ok {
		return mtime
	}
	return f.dirs[path]
}

func (f *fakeFS) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, file := f.files[path]
	_, dir := f.dirs[path]
	return file || dir
}

func (f *fakeFS) ModTime(path string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mtime, ok := f.files[path]; ok {
		return mtime, nil
	}
	if mtime, ok := f.dirs[path]; ok {
		return mtime, nil
	}
	return time.Time{}, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

func (f *fakeFS) SetModTime(path string, mtime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; ok {
		f.files[path] = mtime
		return nil
	}
	if _, ok := f.dirs[path]; ok {
		f.dirs[path] = mtime
		return nil
	}
	return &os.PathError{Op: "chtimes", Path: path, Err: os.ErrNotExist}
}

func (f *fakeFS) ListDir(dir string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dirs[dir]; !ok {
		return nil, &os.PathError{Op: "readdir", Path: dir, Err: os.ErrNotExist}
	}
	var names []string
	for path := range f.files {
		if filepath.Dir(path) == dir {
			names = append(names, filepath.Base(path))
		}
	}
	sort.Strings(names)
	return names, nil
}

// calls records callback invocations so tests can wait for them or assert
// their absence.
type calls struct {
	ch chan string
}

func newCalls() *calls {
	return &calls{ch: make(chan string, 64)}
}

func (c *calls) cb(path string) {
	c.ch <- path
}

// wait blocks until a callback arrives or the timeout expires.
func (c *calls) wait(t *testing.T, timeout time.Duration) string {
	t.Helper()
	select {
	case path := <-c.ch:
		return path
	case <-time.After(timeout):
		t.Fatalf("no callback within %v", timeout)
		return ""
	}
}

// expectNone asserts that no callback arrives for the given duration.
func (c *calls) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case path := <-c.ch:
		t.Fatalf("unexpected callback for %s", path)
	case <-time.After(d):
	}
}

// newTestRegistry builds a registry on the fake filesystem with a fast
// polling interval and registers cleanup with t.Cleanup.
func newTestRegistry(t *testing.T, fs *fakeFS) *Registry {
	t.Helper()
	reg := New(
		WithFileSystem(fs),
		WithInterval(2*time.Millisecond),
	)
	t.Cleanup(func() { reg.Close() })
	return reg
}

// writeTestFile creates a file with the given content, failing the test on
// error.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writeTestFile: %v", err)
	}
}

var _ FileSystem = (*fakeFS)(nil)
