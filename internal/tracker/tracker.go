// Package tracker is the core service behind every surface: it records
// notes, edits them, runs summarization for a day and keeps the per-user
// settings (provider, data folder) that outlive a restart.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/llm"
	"github.com/chris/standup/internal/metrics"
	"github.com/chris/standup/internal/store"
)

// MsgNoEntries is returned instead of a summary when the day has no notes.
const MsgNoEntries = "No entries for today."

// Jobs recorded in the run log.
const (
	JobManual = "manual"
	JobDaily  = "daily"
)

var (
	ErrEmptyNote             = errors.New("note is empty")
	ErrUnknownProvider       = errors.New("unknown provider")
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Database is the settings and run log storage.
type Database interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
	RecordRun(r db.Run) (string, error)
	ListRuns(limit int) ([]db.Run, error)
}

type Options struct {
	Gateway         *llm.Gateway
	DB              Database
	DefaultProvider string
	DefaultBaseDir  string
	Metrics         *metrics.Collector
	Log             *zap.SugaredLogger
	Now             func() time.Time
}

type Service struct {
	gateway         *llm.Gateway
	db              Database
	defaultProvider string
	defaultBaseDir  string
	metrics         *metrics.Collector
	log             *zap.SugaredLogger
	now             func() time.Time

	// mu serializes whole-file read-modify-write on the stores and guards
	// swapping them when the data folder changes.
	mu        sync.Mutex
	baseDir   string
	entries   *store.Entries
	summaries *store.Summaries
}

func New(opts Options) (*Service, error) {
	s := &Service{
		gateway:         opts.Gateway,
		db:              opts.DB,
		defaultProvider: opts.DefaultProvider,
		defaultBaseDir:  opts.DefaultBaseDir,
		metrics:         opts.Metrics,
		log:             opts.Log,
		now:             opts.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	if s.now == nil {
		s.now = time.Now
	}

	dir, err := s.db.GetSetting(db.KeyBaseDir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = s.defaultBaseDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data folder: %w", err)
	}
	s.useDir(dir)
	return s, nil
}

func (s *Service) useDir(dir string) {
	s.baseDir = dir
	s.entries = store.NewEntries(dir)
	s.summaries = store.NewSummaries(dir)
}

// Today is the day key for the current local date.
func (s *Service) Today() string {
	return store.DayKey(s.now())
}

// Record appends a trimmed note to the day it was taken on. A zero at means now.
func (s *Service) Record(ctx context.Context, text string, at time.Time) (store.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Entry{}, ErrEmptyNote
	}
	if at.IsZero() {
		at = s.now()
	}
	e := store.Entry{Timestamp: at, Text: text}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.entries.Append(store.DayKey(at), e); err != nil {
		return store.Entry{}, err
	}
	if s.metrics != nil {
		s.metrics.EntriesSaved.Inc()
	}
	s.log.Debugf("tracker: recorded note for %s", store.DayKey(at))
	return e, nil
}

// TodayEntries lists today's notes in recorded order.
func (s *Service) TodayEntries(ctx context.Context) ([]store.Entry, error) {
	return s.Entries(ctx, s.Today())
}

func (s *Service) Entries(ctx context.Context, day string) ([]store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.List(day)
}

func (s *Service) UpdateEntry(ctx context.Context, day string, index int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyNote
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.entries.List(day)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d", store.ErrIndexOutOfRange, index)
	}
	e := entries[index]
	e.Text = text
	if err := s.entries.Replace(day, index, e); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.EntriesEdited.WithLabelValues("update").Inc()
	}
	return nil
}

func (s *Service) DeleteEntry(ctx context.Context, day string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.entries.Remove(day, index); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.EntriesEdited.WithLabelValues("delete").Inc()
	}
	return nil
}
