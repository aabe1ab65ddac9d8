package watchdog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Watch when the target path does not exist, or
// when a wildcard pattern matches no current directory entry. Touch returns
// it when there is nothing to touch. Use errors.Is to test for it.
var ErrNotFound = errors.New("file or directory not found")

func notFound(path string) error {
	return fmt.Errorf("watchdog: %s: %w", path, ErrNotFound)
}
