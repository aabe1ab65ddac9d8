package watchdog

import (
	"os"
	"time"
)

// FileSystem is the narrow filesystem surface the watcher polls through.
// The default implementation talks to the OS; tests inject a fake to drive
// timestamps deterministically.
type FileSystem interface {
	// Exists reports whether path refers to an existing file or directory.
	Exists(path string) bool

	// ModTime returns the last modification time of path. It fails when
	// the path does not exist.
	ModTime(path string) (time.Time, error)

	// SetModTime sets the last modification time of path.
	SetModTime(path string, mtime time.Time) error

	// ListDir returns the names of the entries in dir. A directory that
	// disappears mid-enumeration yields an error, which callers treat as
	// an empty listing.
	ListDir(dir string) ([]string, error)
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (osFS) SetModTime(path string, mtime time.Time) error {
	return os.Chtimes(path, mtime, mtime)
}

func (osFS) ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
