package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/metrics"
	"github.com/chris/standup/internal/tracker"
)

type fakeNotifier struct {
	sent []Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

type fakeTracker struct {
	outcome tracker.Outcome
	err     error
	days    []string
	jobs    []string
}

func (f *fakeTracker) Today() string { return "2024-01-02" }

func (f *fakeTracker) SummarizeDay(_ context.Context, day, job string) (tracker.Outcome, error) {
	f.days = append(f.days, day)
	f.jobs = append(f.jobs, job)
	return f.outcome, f.err
}

func newTestScheduler(cfg Config, tr *fakeTracker, n *fakeNotifier, clock time.Time) (*Scheduler, *metrics.Collector) {
	m := metrics.NewCollector()
	s := New(cfg, tr, n, m, zap.NewNop().Sugar())
	s.now = func() time.Time { return clock }
	return s, m
}

func localClock(hour, minute int) time.Time {
	return time.Date(2024, 1, 2, hour, minute, 0, 0, time.Local)
}

func TestWithinWorkHours(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         bool
	}{
		{8, 59, false},
		{9, 0, true},
		{12, 30, true},
		{16, 59, true},
		{17, 0, false},
		{23, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withinWorkHours(localClock(tt.hour, tt.minute)), "%02d:%02d", tt.hour, tt.minute)
	}
}

func TestPromptJobGatedByWorkHours(t *testing.T) {
	n := &fakeNotifier{}
	s, m := newTestScheduler(Config{WorkHoursOnly: true}, &fakeTracker{}, n, localClock(18, 0))

	s.promptJob()
	assert.Empty(t, n.sent)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("prompt", "skipped")))

	s.now = func() time.Time { return localClock(10, 0) }
	s.promptJob()
	require.Len(t, n.sent, 1)
	assert.Equal(t, "Time for a quick update", n.sent[0].Title)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PromptsSent))
}

func TestPromptJobUngated(t *testing.T) {
	n := &fakeNotifier{}
	s, _ := newTestScheduler(Config{}, &fakeTracker{}, n, localClock(22, 0))

	s.promptJob()
	assert.Len(t, n.sent, 1)
}

func TestSummaryJobIgnoresWorkHours(t *testing.T) {
	n := &fakeNotifier{}
	tr := &fakeTracker{outcome: tracker.Outcome{Day: "2024-01-02", Text: "## Completed\n- x", Status: db.OutcomeSummarized}}
	s, _ := newTestScheduler(Config{WorkHoursOnly: true}, tr, n, localClock(17, 0))

	s.summaryJob()
	assert.Equal(t, []string{"2024-01-02"}, tr.days)
	assert.Equal(t, []string{tracker.JobDaily}, tr.jobs)
	require.Len(t, n.sent, 1)
	assert.Equal(t, Notification{Title: "Daily summary ready", Body: "## Completed\n- x"}, n.sent[0])
}

func TestSummaryJobEmptyDayIsQuiet(t *testing.T) {
	n := &fakeNotifier{}
	tr := &fakeTracker{outcome: tracker.Outcome{Text: tracker.MsgNoEntries, Status: db.OutcomeEmpty}}
	s, m := newTestScheduler(Config{}, tr, n, localClock(17, 0))

	s.summaryJob()
	assert.Empty(t, n.sent)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("summary", db.OutcomeEmpty)))
}

func TestSummaryJobReportsFailures(t *testing.T) {
	n := &fakeNotifier{}
	tr := &fakeTracker{outcome: tracker.Outcome{Text: "Azure OpenAI error 500: boom", Status: db.OutcomeFailed}}
	s, _ := newTestScheduler(Config{}, tr, n, localClock(17, 0))

	s.summaryJob()
	require.Len(t, n.sent, 1)
	assert.Equal(t, "Summary failed", n.sent[0].Title)
	assert.Equal(t, "Azure OpenAI error 500: boom", n.sent[0].Body)

	tr.err = errors.New("disk full")
	s.summaryJob()
	require.Len(t, n.sent, 2)
	assert.Equal(t, "Summary failed", n.sent[1].Title)
}

func TestDeliveryErrorsAreNotFatal(t *testing.T) {
	n := &fakeNotifier{err: errors.New("discord down")}
	s, m := newTestScheduler(Config{}, &fakeTracker{}, n, localClock(10, 0))

	assert.NotPanics(t, s.promptJob)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("prompt", "sent")))
}

func TestNilNotifier(t *testing.T) {
	s := New(Config{}, &fakeTracker{}, nil, nil, zap.NewNop().Sugar())
	assert.NotPanics(t, s.promptJob)
}

func TestStartRejectsInvalidCron(t *testing.T) {
	s := New(Config{PromptCron: "every now and then"}, &fakeTracker{}, nil, nil, zap.NewNop().Sugar())
	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt cron")

	s = New(Config{SummaryCron: "61 * * * *"}, &fakeTracker{}, nil, nil, zap.NewNop().Sugar())
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := New(Config{}, &fakeTracker{}, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
