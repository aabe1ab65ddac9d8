package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/watchdog/internal/config"
)

// dataDir returns the watchdog state directory, creating it if needed.
// Uses $HOME/.watchdog by default.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".watchdog")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// resolveJournalPath applies the flag > manifest > default precedence for
// the journal database location. Returns "" when journaling is disabled.
func resolveJournalPath(manifestPath string) (string, error) {
	if noJournal {
		return "", nil
	}
	if journalPath != "" {
		return journalPath, nil
	}
	if manifestPath != "" {
		return manifestPath, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "events.db"), nil
}

// journalPathFromManifest loads the manifest (default location unless
// manifestFlag overrides it) and resolves the journal path, so read-only
// commands see the same journal a manifest-configured watch writes to.
func journalPathFromManifest(manifestFlag string) (string, error) {
	path := manifestFlag
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return "", fmt.Errorf("failed to resolve manifest path: %w", err)
		}
		path = defaultPath
	}
	manifest, err := config.Load(path)
	if err != nil {
		return "", err
	}
	return resolveJournalPath(manifest.Journal)
}

func getDefaultPIDFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

func getDefaultLogFile() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}
