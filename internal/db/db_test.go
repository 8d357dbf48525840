package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	require.NoError(t, err, "opening test db")
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSettingsRoundTrip(t *testing.T) {
	d := openTestDB(t)

	v, err := d.GetSetting(KeyAIProvider)
	require.NoError(t, err)
	assert.Empty(t, v, "unset keys read as empty")

	require.NoError(t, d.SetSetting(KeyAIProvider, "ollama"))
	require.NoError(t, d.SetSetting(KeyAIProvider, "claude-code"))

	v, err = d.GetSetting(KeyAIProvider)
	require.NoError(t, err)
	assert.Equal(t, "claude-code", v)

	require.NoError(t, d.DeleteSetting(KeyAIProvider))
	v, err = d.GetSetting(KeyAIProvider)
	require.NoError(t, err)
	assert.Empty(t, v)

	// Deleting twice is fine.
	require.NoError(t, d.DeleteSetting(KeyAIProvider))
}

func TestSettingsPersistAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.SetSetting(KeyBaseDir, "/tmp/standup"))
	require.NoError(t, d.Close())

	d, err = Open(path)
	require.NoError(t, err)
	defer d.Close()

	v, err := d.GetSetting(KeyBaseDir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/standup", v)
}

func TestRecordAndListRuns(t *testing.T) {
	d := openTestDB(t)
	base := time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC)

	first, err := d.RecordRun(Run{
		Job: "daily", Day: "2024-01-02", Provider: "azure", Outcome: OutcomeSummarized,
		StartedAt: base, FinishedAt: base.Add(3 * time.Second),
	})
	require.NoError(t, err)
	assert.Len(t, first, 36, "uuid")

	second, err := d.RecordRun(Run{
		Job: "manual", Day: "2024-01-02", Provider: "claude-code", Outcome: OutcomeFailed,
		Detail:    "Claude Code timed out after 2m0s",
		StartedAt: base.Add(500 * time.Millisecond), FinishedAt: base.Add(2 * time.Minute),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := d.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first, sub-second precision kept")
	assert.Equal(t, OutcomeFailed, runs[0].Outcome)
	assert.Equal(t, "Claude Code timed out after 2m0s", runs[0].Detail)
	assert.Equal(t, 3*time.Second, runs[1].Duration())
	assert.True(t, runs[1].StartedAt.Equal(base))

	limited, err := d.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second, limited[0].ID)
}

func TestRecordRunKeepsGivenID(t *testing.T) {
	d := openTestDB(t)
	now := time.Now()

	id, err := d.RecordRun(Run{ID: "fixed", Job: "daily", Day: "2024-01-02", Outcome: OutcomeEmpty, StartedAt: now, FinishedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)

	_, err = d.RecordRun(Run{ID: "fixed", Job: "daily", Day: "2024-01-02", Outcome: OutcomeEmpty, StartedAt: now, FinishedAt: now})
	assert.Error(t, err, "ids are unique")
}
