package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"AI_PROVIDER", "PROMPT_INTERVAL_CRON", "DAILY_SUMMARY_CRON", "WORK_HOURS_ONLY", "CLAUDE_CODE_TIMEOUT", "AZURE_OPENAI_API_VERSION"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "azure", cfg.AIProvider)
	assert.Equal(t, "*/20 * * * *", cfg.PromptIntervalCron)
	assert.Equal(t, "0 17 * * 1-5", cfg.DailySummaryCron)
	assert.Equal(t, "2024-06-01", cfg.AzureAPIVersion)
	assert.Equal(t, 120*time.Second, cfg.ClaudeCodeTimeout)
	assert.False(t, cfg.WorkHoursOnly)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "claude-code")
	t.Setenv("WORK_HOURS_ONLY", "TRUE")
	t.Setenv("CLAUDE_CODE_TIMEOUT", "45")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("API_ADDR", "")

	cfg := Load()
	assert.Equal(t, "claude-code", cfg.AIProvider)
	assert.True(t, cfg.WorkHoursOnly)
	assert.Equal(t, 45*time.Second, cfg.ClaudeCodeTimeout)
	assert.Equal(t, "https://example.openai.azure.com", cfg.AzureEndpoint)
	assert.Empty(t, cfg.APIAddr, "an explicitly empty API_ADDR disables the API")
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", time.Minute},
		{"go duration", "90s", 90 * time.Second},
		{"seconds", "30", 30 * time.Second},
		{"garbage", "soon", time.Minute},
		{"negative", "-5s", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STANDUP_TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, envDuration("STANDUP_TEST_DURATION", time.Minute))
		})
	}
}
