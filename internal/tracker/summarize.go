package tracker

import (
	"context"
	"time"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/store"
)

// Outcome is what one summarization produced.
type Outcome struct {
	Day      string `json:"day"`
	Provider string `json:"provider"`
	// Text is the summary, or the message shown in its place.
	Text string `json:"text"`
	// Status is one of the db.Outcome* values.
	Status string `json:"status"`
}

func (o Outcome) Saved() bool { return o.Status == db.OutcomeSummarized }

// Summarize summarizes a day on demand and returns the text to show.
func (s *Service) Summarize(ctx context.Context, day string) (string, error) {
	o, err := s.SummarizeDay(ctx, day, JobManual)
	return o.Text, err
}

// SummarizeDay reads the day's notes, asks the selected provider for a
// standup update and saves it. Diagnostics come back in Outcome.Text and
// are not saved, so a failed run never replaces an earlier summary.
func (s *Service) SummarizeDay(ctx context.Context, day, job string) (Outcome, error) {
	if _, err := store.ParseDay(day); err != nil {
		return Outcome{}, err
	}
	provider, err := s.Provider(ctx)
	if err != nil {
		return Outcome{}, err
	}
	started := s.now()
	out := Outcome{Day: day, Provider: provider}

	s.mu.Lock()
	entries, err := s.entries.List(day)
	summaries := s.summaries
	s.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}

	if len(entries) == 0 {
		out.Text, out.Status = MsgNoEntries, db.OutcomeEmpty
		s.recordRun(job, out, started)
		return out, nil
	}

	s.log.Infof("tracker: summarizing %d note(s) for %s with %s", len(entries), day, provider)
	res := s.gateway.Run(ctx, provider, entries)
	took := s.now().Sub(started)

	out.Text = res.String()
	if !res.OK() {
		out.Status = db.OutcomeFailed
		s.log.Warnf("tracker: summary for %s failed: %s", day, res.Diagnostic)
		s.metrics.ObserveSummary(provider, out.Status, took)
		s.recordRun(job, out, started)
		return out, nil
	}

	s.mu.Lock()
	err = summaries.Save(day, res.Summary)
	s.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}
	out.Status = db.OutcomeSummarized
	s.metrics.ObserveSummary(provider, out.Status, took)
	s.recordRun(job, out, started)
	return out, nil
}

func (s *Service) recordRun(job string, o Outcome, started time.Time) {
	r := db.Run{
		Job:        job,
		Day:        o.Day,
		Provider:   o.Provider,
		Outcome:    o.Status,
		StartedAt:  started,
		FinishedAt: s.now(),
	}
	if !o.Saved() {
		r.Detail = o.Text
	}
	if _, err := s.db.RecordRun(r); err != nil {
		s.log.Errorf("tracker: recording run: %v", err)
	}
}

// Runs returns the most recent summarization runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]db.Run, error) {
	return s.db.ListRuns(limit)
}

func (s *Service) Summaries(ctx context.Context) ([]store.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries.List()
}

func (s *Service) Summary(ctx context.Context, day string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries.Get(day)
}

// UpdateSummary replaces a day's summary with hand-edited text.
func (s *Service) UpdateSummary(ctx context.Context, day, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries.Save(day, content)
}

func (s *Service) DeleteSummary(ctx context.Context, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries.Delete(day)
}
