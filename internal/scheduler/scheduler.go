// Package scheduler runs the two recurring jobs: the note reminder and the
// end of day summary.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/metrics"
	"github.com/chris/standup/internal/tracker"
)

const (
	DefaultPromptCron  = "*/20 * * * *"
	DefaultSummaryCron = "0 17 * * 1-5"

	workdayStart = 9
	workdayEnd   = 17

	// summaryTimeout bounds one scheduled summarization end to end.
	summaryTimeout = 5 * time.Minute
)

// Notification is a short message for the user.
type Notification struct {
	Title string
	Body  string
}

// Notifier delivers notifications, e.g. as a Discord DM.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Summarizer is the part of the tracker the daily job needs.
type Summarizer interface {
	Today() string
	SummarizeDay(ctx context.Context, day, job string) (tracker.Outcome, error)
}

type Config struct {
	PromptCron    string
	SummaryCron   string
	WorkHoursOnly bool
}

type Scheduler struct {
	cron     *cron.Cron
	cfg      Config
	tracker  Summarizer
	notifier Notifier
	metrics  *metrics.Collector
	log      *zap.SugaredLogger
	now      func() time.Time
}

func New(cfg Config, t Summarizer, n Notifier, m *metrics.Collector, log *zap.SugaredLogger) *Scheduler {
	if cfg.PromptCron == "" {
		cfg.PromptCron = DefaultPromptCron
	}
	if cfg.SummaryCron == "" {
		cfg.SummaryCron = DefaultSummaryCron
	}
	cl := cronLogger{log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.Local),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		cfg:      cfg,
		tracker:  t,
		notifier: n,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Start registers both jobs and starts the cron loop. An invalid cron
// expression fails here and nothing is started.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.PromptCron, s.promptJob); err != nil {
		return fmt.Errorf("scheduler: invalid prompt cron %q: %w", s.cfg.PromptCron, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.SummaryCron, s.summaryJob); err != nil {
		return fmt.Errorf("scheduler: invalid summary cron %q: %w", s.cfg.SummaryCron, err)
	}
	s.cron.Start()
	s.log.Infof("scheduler: loaded %d job(s), prompt %q, summary %q", len(s.cron.Entries()), s.cfg.PromptCron, s.cfg.SummaryCron)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// withinWorkHours reports whether t falls in 09:00-16:59 local time.
func withinWorkHours(t time.Time) bool {
	h := t.Local().Hour()
	return h >= workdayStart && h < workdayEnd
}

func (s *Scheduler) promptJob() {
	if s.cfg.WorkHoursOnly && !withinWorkHours(s.now()) {
		s.observe("prompt", "skipped")
		return
	}
	s.deliver(context.Background(), "prompt", Notification{
		Title: "Time for a quick update",
		Body:  "Jot down what you're working on",
	})
	if s.metrics != nil {
		s.metrics.PromptsSent.Inc()
	}
	s.observe("prompt", "sent")
}

// summaryJob is never gated by work hours; it is scheduled at day's end.
func (s *Scheduler) summaryJob() {
	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	day := s.tracker.Today()
	out, err := s.tracker.SummarizeDay(ctx, day, tracker.JobDaily)
	if err != nil {
		s.log.Errorf("scheduler[summary]: %s: %v", day, err)
		s.deliver(ctx, "summary", Notification{Title: "Summary failed", Body: "Check the logs for details."})
		s.observe("summary", "error")
		return
	}

	switch {
	case out.Status == db.OutcomeEmpty:
		s.log.Infof("scheduler[summary]: no notes for %s", day)
	case out.Saved():
		s.deliver(ctx, "summary", Notification{Title: "Daily summary ready", Body: out.Text})
		s.log.Infof("scheduler[summary]: saved summary for %s", day)
	default:
		s.deliver(ctx, "summary", Notification{Title: "Summary failed", Body: out.Text})
	}
	s.observe("summary", out.Status)
}

func (s *Scheduler) deliver(ctx context.Context, job string, n Notification) {
	if s.notifier == nil {
		s.log.Infof("scheduler[%s]: no delivery method available: %s", job, n.Title)
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warnf("scheduler[%s]: delivery failed: %v", job, err)
	}
}

func (s *Scheduler) observe(job, status string) {
	if s.metrics != nil {
		s.metrics.JobRuns.WithLabelValues(job, status).Inc()
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
