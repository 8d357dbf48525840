package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/llm"
)

// Provider returns the selected provider id: the saved override if any,
// else the configured default.
func (s *Service) Provider(ctx context.Context) (string, error) {
	id, err := s.db.GetSetting(db.KeyAIProvider)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = s.defaultProvider
	}
	return id, nil
}

// SetProvider saves a provider override. Only known providers whose
// credentials are present can be selected.
func (s *Service) SetProvider(ctx context.Context, id string) error {
	p, ok := s.gateway.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	if !p.Configured() {
		return fmt.Errorf("%w: %s", ErrProviderNotConfigured, p.Name())
	}
	if err := s.db.SetSetting(db.KeyAIProvider, id); err != nil {
		return err
	}
	s.log.Infof("tracker: provider set to %s", id)
	return nil
}

// ProviderChoice is a provider as shown in a selection menu.
type ProviderChoice struct {
	llm.ProviderInfo `yaml:",inline"`
	Selected         bool `json:"selected" yaml:"selected"`
}

func (s *Service) Providers(ctx context.Context) ([]ProviderChoice, error) {
	current, err := s.Provider(ctx)
	if err != nil {
		return nil, err
	}
	infos := s.gateway.Providers()
	out := make([]ProviderChoice, 0, len(infos))
	for _, info := range infos {
		out = append(out, ProviderChoice{ProviderInfo: info, Selected: info.ID == current})
	}
	return out, nil
}

// BaseDir is the folder holding entries/ and summaries/.
func (s *Service) BaseDir(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseDir
}

// SetBaseDir moves future reads and writes to dir. Existing files are not
// copied over.
func (s *Service) SetBaseDir(ctx context.Context, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("creating data folder: %w", err)
	}
	if err := s.db.SetSetting(db.KeyBaseDir, abs); err != nil {
		return err
	}

	s.mu.Lock()
	s.useDir(abs)
	s.mu.Unlock()
	s.log.Infof("tracker: data folder set to %s", abs)
	return nil
}

// ResetBaseDir drops the override and goes back to the default folder.
func (s *Service) ResetBaseDir(ctx context.Context) error {
	if err := os.MkdirAll(s.defaultBaseDir, 0o755); err != nil {
		return fmt.Errorf("creating data folder: %w", err)
	}
	if err := s.db.DeleteSetting(db.KeyBaseDir); err != nil {
		return err
	}

	s.mu.Lock()
	s.useDir(s.defaultBaseDir)
	s.mu.Unlock()
	return nil
}
