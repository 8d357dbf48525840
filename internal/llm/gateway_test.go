package llm

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/store"
)

type fakeProvider struct {
	configured bool
	readyErr   error
	reply      string
	err        error
	calls      int
	lastPrompt Prompt
}

func (f *fakeProvider) Name() string                { return "Fake" }
func (f *fakeProvider) Configured() bool            { return f.configured }
func (f *fakeProvider) Ready(context.Context) error { return f.readyErr }
func (f *fakeProvider) Summarize(_ context.Context, p Prompt) (string, error) {
	f.calls++
	f.lastPrompt = p
	return f.reply, f.err
}

func newTestGateway(providers map[string]Provider) *Gateway {
	return NewGateway(providers, Builder{Location: time.UTC}, zap.NewNop().Sugar())
}

var sampleEntries = []store.Entry{
	{Timestamp: at("09:30"), Text: "reviewed teammate's PR for CPT-10"},
	{Timestamp: at("09:00"), Text: "worked on CPT-42"},
}

func TestGatewayUnknownProvider(t *testing.T) {
	g := newTestGateway(map[string]Provider{})
	res := g.Run(context.Background(), "nope", sampleEntries)
	assert.False(t, res.OK())
	assert.Equal(t, MsgNoProvider, res.String())
	assert.ErrorIs(t, res.Err, ErrUnknown)
}

func TestGatewayChecksReadinessBeforeInvoking(t *testing.T) {
	fake := &fakeProvider{readyErr: &NotReadyError{Err: ErrNotConfigured, Message: "Fake not configured."}}
	g := newTestGateway(map[string]Provider{"fake": fake})

	got := g.Summarize(context.Background(), "fake", sampleEntries)
	assert.Equal(t, "Fake not configured.", got)
	assert.Zero(t, fake.calls)
}

func TestGatewayTrimsSummary(t *testing.T) {
	fake := &fakeProvider{reply: "\n  ## Completed\n- shipped (CPT-42)  \n"}
	g := newTestGateway(map[string]Provider{"fake": fake})

	res := g.Run(context.Background(), "fake", sampleEntries)
	require.True(t, res.OK())
	assert.Equal(t, "## Completed\n- shipped (CPT-42)", res.Summary)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "- [9:00:00 AM] worked on CPT-42\n- [9:30:00 AM] reviewed teammate's PR for CPT-10", fake.lastPrompt.Notes)
}

func TestGatewayEmptySummary(t *testing.T) {
	g := newTestGateway(map[string]Provider{"fake": &fakeProvider{reply: "   "}})
	assert.Equal(t, MsgNoSummary, g.Summarize(context.Background(), "fake", sampleEntries))
}

func TestGatewayFoldsErrorsIntoDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status", &StatusError{Provider: "Fake", StatusCode: 401, Body: `{"error":"bad key"}`}, `Fake error 401: {"error":"bad key"}`},
		{"exit", &ExitError{Provider: "Fake", Code: 2, Stderr: "usage"}, "Fake exited with code 2: usage"},
		{"timeout", &TimeoutError{Provider: "Fake", After: 2 * time.Minute}, "Fake timed out after 2m0s"},
		{"transport", errors.New("dial tcp: connection refused"), "Fake request failed: dial tcp: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(map[string]Provider{"fake": &fakeProvider{err: tt.err}})
			res := g.Run(context.Background(), "fake", sampleEntries)
			assert.False(t, res.OK())
			assert.Equal(t, tt.want, res.String())
			assert.ErrorIs(t, res.Err, tt.err)
		})
	}
}

type countingTransport struct{ calls atomic.Int32 }

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, errors.New("network disabled in tests")
}

func TestHostedProvidersWithoutCredentialsMakeNoCalls(t *testing.T) {
	transport := &countingTransport{}
	providers := NewProviders(ProviderConfig{HTTPClient: &http.Client{Transport: transport}})
	g := newTestGateway(providers)

	assert.Equal(t,
		"Azure OpenAI not configured. Set AZURE_OPENAI_* env vars to enable summarization.",
		g.Summarize(context.Background(), IDAzure, sampleEntries))
	assert.Contains(t, g.Summarize(context.Background(), IDOpenAI, sampleEntries), "not configured")
	assert.Contains(t, g.Summarize(context.Background(), IDAnthropic, sampleEntries), "not configured")
	assert.Zero(t, transport.calls.Load())
}

func TestGatewayProviders(t *testing.T) {
	g := newTestGateway(NewProviders(ProviderConfig{
		AzureEndpoint:   "https://example.openai.azure.com",
		AzureAPIKey:     "key",
		AzureDeployment: "dep",
		OllamaBaseURL:   "http://localhost:11434/v1",
		ClaudeCodePath:  "definitely-not-installed-standup-cli",
	}))

	infos := g.Providers()
	require.Len(t, infos, len(IDs))
	byID := map[string]ProviderInfo{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.True(t, byID[IDAzure].Configured)
	assert.False(t, byID[IDClaudeCode].Configured)
	assert.False(t, byID[IDOpenAI].Configured)
	assert.True(t, byID[IDOllama].Configured)
	assert.False(t, byID[IDAnthropic].Configured)
	assert.Equal(t, IDAzure, infos[0].ID)
}
