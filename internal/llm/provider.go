package llm

import (
	"context"
	"net/http"
	"time"
)

const (
	IDAzure      = "azure"
	IDClaudeCode = "claude-code"
	IDOpenAI     = "openai"
	IDOllama     = "ollama"
	IDAnthropic  = "anthropic"
)

// IDs lists every known provider in display order.
var IDs = []string{IDAzure, IDClaudeCode, IDOpenAI, IDOllama, IDAnthropic}

// Provider turns a prompt into summary text.
type Provider interface {
	// Name is the human-readable provider name used in messages.
	Name() string
	// Configured is a cheap, side-effect free check of static settings.
	Configured() bool
	// Ready checks every precondition of Summarize without calling it.
	// It returns a *NotReadyError when the provider cannot run.
	Ready(ctx context.Context) error
	Summarize(ctx context.Context, p Prompt) (string, error)
}

type ProviderConfig struct {
	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string

	OpenAIKey     string
	OllamaBaseURL string
	Model         string // applies to openai, ollama and anthropic

	AnthropicKey   string
	AnthropicToken string // OAuth token (Bearer auth)

	ClaudeCodePath    string
	ClaudeCodeTimeout time.Duration

	HTTPClient *http.Client // optional, for hosted providers
}

// NewProviders builds every known provider from cfg. Providers with missing
// settings are still returned; their Ready reports what is missing.
func NewProviders(cfg ProviderConfig) map[string]Provider {
	ollamaModel := cfg.Model
	if ollamaModel == "" {
		ollamaModel = "llama3.1"
	}
	return map[string]Provider{
		IDAzure:      NewAzureProvider(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureDeployment, cfg.AzureAPIVersion, cfg.HTTPClient),
		IDClaudeCode: NewClaudeCodeProvider(cfg.ClaudeCodePath, cfg.ClaudeCodeTimeout),
		IDOpenAI:     NewOpenAIProvider(cfg.OpenAIKey, cfg.Model, cfg.HTTPClient),
		IDOllama:     NewOllamaProvider(cfg.OllamaBaseURL, ollamaModel, cfg.HTTPClient),
		IDAnthropic:  NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicToken, cfg.Model, cfg.HTTPClient),
	}
}
