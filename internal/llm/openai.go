package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider talks to the OpenAI chat completions API or any server
// that speaks it (Ollama's /v1 endpoint).
type OpenAIProvider struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	local   bool   // no key needed, but a base URL is
	hint    string // what to set when not configured
	http    *http.Client
}

func NewOpenAIProvider(apiKey, model string, httpClient *http.Client) *OpenAIProvider {
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAIProvider{name: "OpenAI", apiKey: apiKey, model: model, hint: "OPENAI_API_KEY", http: httpClient}
}

func NewOllamaProvider(baseURL, model string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{name: "Ollama", apiKey: "ollama", baseURL: baseURL, model: model, local: true, hint: "OLLAMA_BASE_URL", http: httpClient}
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Configured() bool {
	if p.local {
		return p.baseURL != ""
	}
	return p.apiKey != ""
}

func (p *OpenAIProvider) Ready(ctx context.Context) error {
	if p.Configured() {
		return nil
	}
	return &NotReadyError{
		Provider: p.name,
		Err:      ErrNotConfigured,
		Message:  p.name + " not configured. Set " + p.hint + " to enable summarization.",
	}
}

func (p *OpenAIProvider) Summarize(ctx context.Context, prompt Prompt) (string, error) {
	opts := []option.RequestOption{option.WithAPIKey(p.apiKey), option.WithMaxRetries(0)}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.http != nil {
		opts = append(opts, option.WithHTTPClient(p.http))
	}
	return chatCompletion(ctx, openai.NewClient(opts...), p.model, prompt, p.name)
}

// chatCompletion sends the instructions as the system message and the notes
// as the user message, and returns the first choice's text.
func chatCompletion(ctx context.Context, client openai.Client, model string, prompt Prompt, name string) (string, error) {
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.Notes),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{Provider: name, StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", fmt.Errorf("%s request: %w", name, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
