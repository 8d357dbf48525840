// Package store keeps work notes and standup summaries as flat files, one
// file per day, under a base directory:
//
//	<base>/entries/entries-YYYY-MM-DD.json
//	<base>/summaries/summary-YYYY-MM-DD.txt
//
// Every write rewrites the whole file. Callers are expected to serialize
// access; the store does no locking of its own.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DayLayout is the time layout of a day key.
const DayLayout = "2006-01-02"

var (
	ErrInvalidDay      = errors.New("invalid day key")
	ErrIndexOutOfRange = errors.New("invalid entry index")
)

// Entry is a single timestamped work note.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// UnmarshalJSON also accepts the "ts" key used by older data folders.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Timestamp *time.Time `json:"timestamp"`
		TS        *time.Time `json:"ts"`
		Text      string     `json:"text"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.Timestamp != nil:
		e.Timestamp = *raw.Timestamp
	case raw.TS != nil:
		e.Timestamp = *raw.TS
	default:
		e.Timestamp = time.Time{}
	}
	e.Text = raw.Text
	return nil
}

// Summary is the stored standup text for one day.
type Summary struct {
	Day     string `json:"day" yaml:"day"`
	Content string `json:"content" yaml:"content"`
}

// DayKey returns the day key of t in the process's local time.
func DayKey(t time.Time) string {
	return t.Local().Format(DayLayout)
}

// ParseDay validates a day key and returns local midnight of that day.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, day, time.Local)
	if err != nil || t.Format(DayLayout) != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return t, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// writeFile replaces path with data via a temp file and rename, so readers
// see either the old or the new content.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
