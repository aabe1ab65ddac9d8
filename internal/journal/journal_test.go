package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestJournal creates an in-memory journal and registers cleanup with
// t.Cleanup so callers don't need explicit defer.
func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("setupTestJournal: open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestAppendAndRecent(t *testing.T) {
	j := setupTestJournal(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	events := []Event{
		{Pattern: "shaders/shader.*", Path: "shaders/shader.*", DetectedAt: base},
		{Pattern: "cfg.json", Path: "cfg.json", DetectedAt: base.Add(time.Second)},
		{Pattern: "shaders/shader.*", Path: "shaders/shader.*", DetectedAt: base.Add(2 * time.Second)},
	}
	for _, ev := range events {
		require.NoError(t, j.Append(ev))
	}

	got, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "shaders/shader.*", got[0].Pattern)
	assert.True(t, got[0].DetectedAt.Equal(base.Add(2*time.Second)))
	assert.Equal(t, "cfg.json", got[1].Pattern)
	assert.True(t, got[2].DetectedAt.Equal(base))

	got, err = j.Recent(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].DetectedAt.Equal(base.Add(2*time.Second)))
}

func TestRecentForPattern(t *testing.T) {
	j := setupTestJournal(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.Append(Event{Pattern: "a.*", Path: "a.*", DetectedAt: base}))
	require.NoError(t, j.Append(Event{Pattern: "b.*", Path: "b.*", DetectedAt: base}))
	require.NoError(t, j.Append(Event{Pattern: "a.*", Path: "a.*", DetectedAt: base.Add(time.Second)}))

	got, err := j.RecentForPattern("a.*", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, ev := range got {
		assert.Equal(t, "a.*", ev.Pattern)
	}
}

func TestCountSince(t *testing.T) {
	j := setupTestJournal(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Append(Event{
			Pattern:    "cfg.json",
			Path:       "cfg.json",
			DetectedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	count, err := j.CountSince(base.Add(3 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = j.CountSince(base)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestPrune(t *testing.T) {
	j := setupTestJournal(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, j.Append(Event{
			Pattern:    "cfg.json",
			Path:       "cfg.json",
			DetectedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	pruned, err := j.Prune(base.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)

	got, err := j.Recent(10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecentOnEmptyJournal(t *testing.T) {
	j := setupTestJournal(t)

	got, err := j.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
