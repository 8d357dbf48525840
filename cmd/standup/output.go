package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chris/standup/internal/store"
)

// printOutput writes v as JSON or YAML, or calls text for the default
// human-readable form.
func printOutput(w io.Writer, v any, text func(io.Writer) error) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// parseAt accepts an RFC 3339 timestamp or a wall clock time ("15:04",
// "3:04PM") on the day of now.
func parseAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"15:04", "3:04PM", "3:04pm", "3PM", "3pm"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("can't parse time %q (use 15:04 or RFC 3339)", s)
}

// dayArg resolves a --date value; empty means today.
func dayArg(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return globalTracker.Today(), nil
	case "yesterday":
		return store.DayKey(time.Now().AddDate(0, 0, -1)), nil
	}
	if _, err := store.ParseDay(s); err != nil {
		return "", err
	}
	return s, nil
}

// stdinIsTerminal reports whether stdin is interactive.
func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

func readStdin() (string, error) {
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
