package llm

import (
	"context"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

// AzureProvider calls a chat completions deployment on Azure OpenAI.
type AzureProvider struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	http       *http.Client
}

func NewAzureProvider(endpoint, apiKey, deployment, apiVersion string, httpClient *http.Client) *AzureProvider {
	if apiVersion == "" {
		apiVersion = "2024-06-01"
	}
	return &AzureProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		http:       httpClient,
	}
}

func (p *AzureProvider) Name() string { return "Azure OpenAI" }

func (p *AzureProvider) Configured() bool {
	return p.endpoint != "" && p.apiKey != "" && p.deployment != ""
}

func (p *AzureProvider) Ready(ctx context.Context) error {
	if p.Configured() {
		return nil
	}
	return &NotReadyError{
		Provider: p.Name(),
		Err:      ErrNotConfigured,
		Message:  "Azure OpenAI not configured. Set AZURE_OPENAI_* env vars to enable summarization.",
	}
}

func (p *AzureProvider) Summarize(ctx context.Context, prompt Prompt) (string, error) {
	opts := []option.RequestOption{
		azure.WithEndpoint(p.endpoint, p.apiVersion),
		azure.WithAPIKey(p.apiKey),
		option.WithMaxRetries(0),
	}
	if p.http != nil {
		opts = append(opts, option.WithHTTPClient(p.http))
	}
	// The deployment name takes the place of the model; the azure options
	// route it into the request path.
	return chatCompletion(ctx, openai.NewClient(opts...), p.deployment, prompt, p.Name())
}
