package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	summaryPrefix = "summary-"
	summarySuffix = ".txt"
)

// Summaries holds one overwritable text blob per day.
type Summaries struct {
	dir string
}

func NewSummaries(baseDir string) *Summaries {
	return &Summaries{dir: filepath.Join(baseDir, "summaries")}
}

func (s *Summaries) path(day string) (string, error) {
	if _, err := ParseDay(day); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, summaryPrefix+day+summarySuffix), nil
}

// Save replaces whatever summary the day had.
func (s *Summaries) Save(day, content string) error {
	p, err := s.path(day)
	if err != nil {
		return err
	}
	return writeFile(p, []byte(content))
}

// Get returns the day's summary and whether one exists.
func (s *Summaries) Get(day string) (string, bool, error) {
	p, err := s.path(day)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading summary: %w", err)
	}
	return string(data), true, nil
}

// Delete removes the day's summary. A day without one is not an error.
func (s *Summaries) Delete(day string) error {
	p, err := s.path(day)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting summary: %w", err)
	}
	return nil
}

// List returns every stored summary, most recent day first.
func (s *Summaries) List() ([]Summary, error) {
	days, err := listDays(s.dir, summaryPrefix, summarySuffix)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(days))
	for _, day := range days {
		content, ok, err := s.Get(day)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Summary{Day: day, Content: content})
		}
	}
	return out, nil
}
