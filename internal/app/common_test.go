package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalPathFromManifest(t *testing.T) {
	origJournal := journalPath
	origNoJournal := noJournal
	t.Cleanup(func() {
		journalPath = origJournal
		noJournal = origNoJournal
	})
	journalPath = ""
	noJournal = false

	manifest := filepath.Join(t.TempDir(), "watchdog.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("journal: /tmp/custom.db\n"), 0644))

	// The manifest's journal setting is honored, so read-only commands and
	// a manifest-configured watch agree on the journal location.
	got, err := journalPathFromManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", got)

	// The --journal flag still wins over the manifest.
	journalPath = "/tmp/flag.db"
	got, err = journalPathFromManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", got)

	// --no-journal disables it entirely.
	noJournal = true
	got, err = journalPathFromManifest(manifest)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJournalPathFromMissingManifest(t *testing.T) {
	origJournal := journalPath
	origNoJournal := noJournal
	t.Cleanup(func() {
		journalPath = origJournal
		noJournal = origNoJournal
	})
	journalPath = ""
	noJournal = false

	// A missing manifest falls back to the default journal location.
	got, err := journalPathFromManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "events.db", filepath.Base(got))
}
