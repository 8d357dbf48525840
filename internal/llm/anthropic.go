package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicProvider struct {
	apiKey    string
	authToken string
	model     string
	baseURL   string // empty means the SDK default
	http      *http.Client
}

func NewAnthropicProvider(apiKey, authToken, model string, httpClient *http.Client) *AnthropicProvider {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicProvider{
		apiKey:    apiKey,
		authToken: authToken,
		model:     model,
		http:      httpClient,
	}
}

func (p *AnthropicProvider) Name() string { return "Anthropic" }

func (p *AnthropicProvider) Configured() bool {
	return p.apiKey != "" || p.authToken != ""
}

func (p *AnthropicProvider) Ready(ctx context.Context) error {
	if p.Configured() {
		return nil
	}
	return &NotReadyError{
		Provider: p.Name(),
		Err:      ErrNotConfigured,
		Message:  "Anthropic not configured. Set ANTHROPIC_API_KEY or ANTHROPIC_AUTH_TOKEN to enable summarization.",
	}
}

func (p *AnthropicProvider) Summarize(ctx context.Context, prompt Prompt) (string, error) {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if p.authToken != "" {
		opts = append(opts,
			option.WithAuthToken(p.authToken),
			option.WithHeader("anthropic-beta", "oauth-2025-04-20"),
		)
	} else {
		opts = append(opts, option.WithAPIKey(p.apiKey))
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.http != nil {
		opts = append(opts, option.WithHTTPClient(p.http))
	}
	client := anthropic.NewClient(opts...)

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   2048,
		System:      []anthropic.TextBlockParam{{Text: prompt.System}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.Notes))},
		Temperature: anthropic.Float(0.2),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{Provider: p.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
