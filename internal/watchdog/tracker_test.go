package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasChangedFirstObservation(t *testing.T) {
	fs := newFakeFS()
	t0 := time.Now()
	fs.addFile("/w/a.frag", t0)

	tracker := newModTracker(fs)

	// First observation establishes the baseline and counts as a change.
	changed, err := tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)
	assert.True(t, changed)

	// Unchanged timestamp is not a change.
	changed, err = tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestHasChangedRequiresStrictAdvance(t *testing.T) {
	fs := newFakeFS()
	t0 := time.Now()
	fs.addFile("/w/a.frag", t0)

	tracker := newModTracker(fs)
	_, err := tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)

	// Equal timestamp: no change.
	fs.addFile("/w/a.frag", t0)
	changed, err := tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)
	assert.False(t, changed)

	// Older timestamp: still no change.
	fs.addFile("/w/a.frag", t0.Add(-time.Second))
	changed, err = tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)
	assert.False(t, changed)

	// Strictly newer: change.
	fs.addFile("/w/a.frag", t0.Add(time.Second))
	changed, err = tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)
	assert.True(t, changed)

	// And only once per advance.
	changed, err = tracker.hasChanged("/w/a.frag")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestHasChangedMissingPath(t *testing.T) {
	fs := newFakeFS()
	tracker := newModTracker(fs)

	_, err := tracker.hasChanged("/nope")
	assert.Error(t, err)
}
