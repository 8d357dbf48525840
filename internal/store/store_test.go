package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func at(clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2024-01-01 "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

// --- day keys ---

func TestParseDay(t *testing.T) {
	_, err := ParseDay("2024-01-01")
	assert.NoError(t, err)

	for _, bad := range []string{"", "2024-1-1", "2024-13-01", "../2024-01-01", "2024-01-01/x", "today"} {
		_, err := ParseDay(bad)
		assert.ErrorIs(t, err, ErrInvalidDay, bad)
	}
}

func TestDayKeyUsesLocalTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-03-05", DayKey(ts))
}

// --- entries ---

func TestAppendThenListKeepsAppendOrder(t *testing.T) {
	s := NewEntries(t.TempDir())

	require.NoError(t, s.Append("2024-01-01", Entry{Timestamp: at("10:00"), Text: "a"}))
	require.NoError(t, s.Append("2024-01-01", Entry{Timestamp: at("09:00"), Text: "b"}))

	got, err := s.List("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, texts(got))
}

func TestListMissingDayIsEmpty(t *testing.T) {
	s := NewEntries(t.TempDir())
	got, err := s.List("2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListCorruptFileIsEmpty(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "entries")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entries-2024-01-01.json"), []byte("{not json"), 0o644))

	s := NewEntries(base)
	got, err := s.List("2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Appending to a corrupt day starts it over.
	require.NoError(t, s.Append("2024-01-01", Entry{Timestamp: at("09:00"), Text: "fresh"}))
	got, err = s.List("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, texts(got))
}

func TestListReadsLegacyTimestampKey(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "entries")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	legacy := `[{"ts":"2024-01-01T09:00:00.000Z","text":"worked on CPT-42"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entries-2024-01-01.json"), []byte(legacy), 0o644))

	got, err := NewEntries(base).List("2024-01-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "worked on CPT-42", got[0].Text)
	assert.True(t, got[0].Timestamp.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
}

func TestRemoveOutOfRangeLeavesDayUnchanged(t *testing.T) {
	s := NewEntries(t.TempDir())
	require.NoError(t, s.Append("2024-01-01", Entry{Timestamp: at("09:00"), Text: "a"}))
	require.NoError(t, s.Append("2024-01-01", Entry{Timestamp: at("09:30"), Text: "b"}))

	err := s.Remove("2024-01-01", 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Remove("2024-01-01", -1), ErrIndexOutOfRange)

	got, err := s.List("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, texts(got))
}

func TestRemoveAndReplace(t *testing.T) {
	s := NewEntries(t.TempDir())
	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append("2024-01-01", Entry{Timestamp: at("09:00"), Text: text}))
	}

	require.NoError(t, s.Remove("2024-01-01", 1))
	require.NoError(t, s.Replace("2024-01-01", 1, Entry{Timestamp: at("11:00"), Text: "C"}))
	assert.ErrorIs(t, s.Replace("2024-01-01", 2, Entry{Text: "x"}), ErrIndexOutOfRange)

	got, err := s.List("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "C"}, texts(got))
}

func TestEntriesRejectInvalidDay(t *testing.T) {
	s := NewEntries(t.TempDir())
	assert.ErrorIs(t, s.Append("../../etc", Entry{Text: "x"}), ErrInvalidDay)
	_, err := s.List("nope")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestEntriesDaysNewestFirst(t *testing.T) {
	base := t.TempDir()
	s := NewEntries(base)
	for _, day := range []string{"2024-01-02", "2024-01-10", "2023-12-31"} {
		require.NoError(t, s.Append(day, Entry{Timestamp: at("09:00"), Text: "x"}))
	}
	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(base, "entries", "notes.txt"), nil, 0o644))

	days, err := s.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-01-02", "2023-12-31"}, days)
}

// --- summaries ---

func TestSaveSummaryOverwrites(t *testing.T) {
	s := NewSummaries(t.TempDir())
	require.NoError(t, s.Save("2024-01-01", "first"))
	require.NoError(t, s.Save("2024-01-01", "second"))

	got, ok, err := s.Get("2024-01-01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestGetMissingSummary(t *testing.T) {
	got, ok, err := NewSummaries(t.TempDir()).Get("2024-01-01")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestListSummariesMostRecentFirst(t *testing.T) {
	s := NewSummaries(t.TempDir())
	require.NoError(t, s.Save("2024-01-01", "one"))
	require.NoError(t, s.Save("2024-01-03", "three"))

	got, err := s.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-03", got[0].Day)
	assert.Equal(t, "three", got[0].Content)
	assert.Equal(t, "2024-01-01", got[1].Day)
}

func TestListSummariesEmptyDir(t *testing.T) {
	got, err := NewSummaries(t.TempDir()).List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteSummary(t *testing.T) {
	s := NewSummaries(t.TempDir())
	require.NoError(t, s.Save("2024-01-01", "one"))
	require.NoError(t, s.Delete("2024-01-01"))
	require.NoError(t, s.Delete("2024-01-01"), "deleting twice is fine")

	_, ok, err := s.Get("2024-01-01")
	require.NoError(t, err)
	assert.False(t, ok)
}
