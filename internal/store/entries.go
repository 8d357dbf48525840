package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	entriesPrefix = "entries-"
	entriesSuffix = ".json"
)

// Entries is the day-partitioned note store.
type Entries struct {
	dir string
}

func NewEntries(baseDir string) *Entries {
	return &Entries{dir: filepath.Join(baseDir, "entries")}
}

func (s *Entries) path(day string) (string, error) {
	if _, err := ParseDay(day); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, entriesPrefix+day+entriesSuffix), nil
}

// List returns the day's entries in insertion order. A missing or
// unparsable file reads as an empty day.
func (s *Entries) List(day string) ([]Entry, error) {
	p, err := s.path(day)
	if err != nil {
		return nil, err
	}
	return s.load(p)
}

func (s *Entries) load(p string) ([]Entry, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}

func (s *Entries) save(p string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	return writeFile(p, data)
}

// Append adds e to the end of the day's entries.
func (s *Entries) Append(day string, e Entry) error {
	p, err := s.path(day)
	if err != nil {
		return err
	}
	entries, err := s.load(p)
	if err != nil {
		return err
	}
	return s.save(p, append(entries, e))
}

// Replace overwrites the entry at index.
func (s *Entries) Replace(day string, index int, e Entry) error {
	p, err := s.path(day)
	if err != nil {
		return err
	}
	entries, err := s.load(p)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d (day %s has %d)", ErrIndexOutOfRange, index, day, len(entries))
	}
	entries[index] = e
	return s.save(p, entries)
}

// Remove deletes the entry at index, shifting later entries down.
func (s *Entries) Remove(day string, index int) error {
	p, err := s.path(day)
	if err != nil {
		return err
	}
	entries, err := s.load(p)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d (day %s has %d)", ErrIndexOutOfRange, index, day, len(entries))
	}
	entries = append(entries[:index], entries[index+1:]...)
	return s.save(p, entries)
}

// Days lists every day that has an entries file, newest first.
func (s *Entries) Days() ([]string, error) {
	return listDays(s.dir, entriesPrefix, entriesSuffix)
}

func listDays(dir, prefix, suffix string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	days := []string{}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if _, err := ParseDay(day); err != nil {
			continue
		}
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}
