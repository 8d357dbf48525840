package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chris/standup/internal/store"
)

const (
	MsgNoProvider = "No AI provider configured. Please select an AI provider in preferences."
	MsgNoSummary  = "No summary produced."
)

// Result is the outcome of one summarization attempt. Exactly one of
// Summary and Diagnostic is set.
type Result struct {
	Provider   string
	Summary    string
	Diagnostic string
	Err        error
}

func (r Result) OK() bool { return r.Diagnostic == "" }

// String is the text shown to the user either way.
func (r Result) String() string {
	if r.OK() {
		return r.Summary
	}
	return r.Diagnostic
}

// ProviderInfo describes a provider for selection menus.
type ProviderInfo struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Configured bool   `json:"configured" yaml:"configured"`
}

// Gateway routes a day's notes to one provider and folds every failure into
// a diagnostic string at its boundary.
type Gateway struct {
	providers map[string]Provider
	builder   Builder
	log       *zap.SugaredLogger
}

func NewGateway(providers map[string]Provider, builder Builder, log *zap.SugaredLogger) *Gateway {
	return &Gateway{providers: providers, builder: builder, log: log}
}

// Summarize is Run reduced to the string the UI displays.
func (g *Gateway) Summarize(ctx context.Context, providerID string, entries []store.Entry) string {
	return g.Run(ctx, providerID, entries).String()
}

// Run checks the provider's preconditions and only then invokes it.
func (g *Gateway) Run(ctx context.Context, providerID string, entries []store.Entry) Result {
	p, ok := g.providers[providerID]
	if !ok {
		g.log.Warnf("gateway: unknown provider %q", providerID)
		return Result{
			Provider:   providerID,
			Diagnostic: MsgNoProvider,
			Err:        fmt.Errorf("%w: %q", ErrUnknown, providerID),
		}
	}

	if err := p.Ready(ctx); err != nil {
		g.log.Infof("gateway: %s not ready: %v", providerID, err)
		return Result{Provider: providerID, Diagnostic: diagnostic(p, err), Err: err}
	}

	prompt := g.builder.Build(entries)
	g.log.Infof("gateway: summarizing %d entries with %s (~%d tokens)", len(entries), providerID, prompt.EstimatedTokens())

	text, err := p.Summarize(ctx, prompt)
	if err != nil {
		g.log.Errorf("gateway: %s failed: %v", providerID, err)
		return Result{Provider: providerID, Diagnostic: diagnostic(p, err), Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Provider: providerID, Diagnostic: MsgNoSummary}
	}
	return Result{Provider: providerID, Summary: text}
}

// Providers lists every known provider in display order.
func (g *Gateway) Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(IDs))
	for _, id := range IDs {
		p, ok := g.providers[id]
		if !ok {
			continue
		}
		out = append(out, ProviderInfo{ID: id, Name: p.Name(), Configured: p.Configured()})
	}
	return out
}

// Lookup returns the provider registered under id.
func (g *Gateway) Lookup(id string) (Provider, bool) {
	p, ok := g.providers[id]
	return p, ok
}

func diagnostic(p Provider, err error) string {
	var (
		notReady *NotReadyError
		status   *StatusError
		exit     *ExitError
		timeout  *TimeoutError
	)
	switch {
	case errors.As(err, &notReady):
		return notReady.Message
	case errors.As(err, &status), errors.As(err, &exit), errors.As(err, &timeout):
		return err.Error()
	default:
		return fmt.Sprintf("%s request failed: %v", p.Name(), err)
	}
}
