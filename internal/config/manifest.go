// Package config provides configuration file parsing for the watchdog CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Dir returns the watchdog config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/watchdog if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "watchdog"), nil
}

// DefaultPath returns the default manifest location: {Dir}/watchdog.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watchdog.yaml"), nil
}

// Duration wraps time.Duration so intervals can be written as "500ms" or
// "2s" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// WatchEntry is one watched path with an optional shell command to run when
// a change is detected.
type WatchEntry struct {
	Path string `yaml:"path"`
	Exec string `yaml:"exec,omitempty"`
}

// Manifest is the on-disk configuration for `watchdog watch`.
type Manifest struct {
	Interval Duration     `yaml:"interval,omitempty"`
	Serve    string       `yaml:"serve,omitempty"`
	Journal  string       `yaml:"journal,omitempty"`
	Watches  []WatchEntry `yaml:"watches,omitempty"`
}

// Load reads the manifest at path. If the file does not exist, an empty
// manifest is returned without an error so flag-only invocations work.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	for i, entry := range m.Watches {
		if entry.Path == "" {
			return nil, fmt.Errorf("manifest %s: watches[%d] has no path", path, i)
		}
	}
	return &m, nil
}
