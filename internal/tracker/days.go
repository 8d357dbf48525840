package tracker

import (
	"context"

	"github.com/chris/standup/internal/store"
)

// Day joins a day's notes with its summary, if any.
type Day struct {
	Day     string        `json:"day" yaml:"day"`
	Entries []store.Entry `json:"entries" yaml:"entries"`
	Summary string        `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Days lists every day that has notes, newest first.
func (s *Service) Days(ctx context.Context) ([]Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.entries.Days()
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(keys))
	for _, k := range keys {
		entries, err := s.entries.List(k)
		if err != nil {
			return nil, err
		}
		summary, _, err := s.summaries.Get(k)
		if err != nil {
			return nil, err
		}
		days = append(days, Day{Day: k, Entries: entries, Summary: summary})
	}
	return days, nil
}
