package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AIProvider string // azure, claude-code, openai, ollama, anthropic

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string

	OpenAIKey     string
	LLMModel      string
	OllamaBaseURL string

	AnthropicKey   string // API key (X-Api-Key header)
	AnthropicToken string // OAuth token (Authorization: Bearer header)

	ClaudeCodePath    string
	ClaudeCodeTimeout time.Duration

	WorkHoursOnly      bool
	PromptIntervalCron string
	DailySummaryCron   string

	DataDir      string
	DatabasePath string

	DiscordToken   string
	DiscordWebhook string

	APIAddr   string
	LogLevel  string
	LogFormat string
}

// ConfigDir is where the persistent config file and settings database live.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".standup")
}

// ConfigFile is a dotenv file read after ./.env.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config")
}

// DefaultDataDir is the base directory used when neither DATA_DIR nor a
// stored override is set.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "standup")
	}
	return ConfigDir()
}

func Load() *Config {
	// godotenv never overrides variables that are already set, so the
	// environment wins over .env, which wins over the config file.
	_ = godotenv.Load() // ignore error if no .env
	_ = godotenv.Load(ConfigFile())

	return &Config{
		AIProvider: envOr("AI_PROVIDER", "azure"),

		AzureEndpoint:   strings.TrimRight(os.Getenv("AZURE_OPENAI_ENDPOINT"), "/"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		AzureAPIVersion: envOr("AZURE_OPENAI_API_VERSION", "2024-06-01"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		LLMModel:      os.Getenv("LLM_MODEL"),
		OllamaBaseURL: envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),

		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken: os.Getenv("ANTHROPIC_AUTH_TOKEN"),

		ClaudeCodePath:    envOr("CLAUDE_CODE_PATH", "claude"),
		ClaudeCodeTimeout: envDuration("CLAUDE_CODE_TIMEOUT", 120*time.Second),

		WorkHoursOnly:      envBool("WORK_HOURS_ONLY"),
		PromptIntervalCron: envOr("PROMPT_INTERVAL_CRON", "*/20 * * * *"),
		DailySummaryCron:   envOr("DAILY_SUMMARY_CRON", "0 17 * * 1-5"),

		DataDir:      envOr("DATA_DIR", DefaultDataDir()),
		DatabasePath: envOr("DATABASE_PATH", filepath.Join(ConfigDir(), "settings.db")),

		DiscordToken:   os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordWebhook: os.Getenv("DISCORD_WEBHOOK_URL"),

		APIAddr:   envSetOr("API_ADDR", "127.0.0.1:7420"),
		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "console"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envSetOr is envOr for values where an explicitly empty setting means "off".
func envSetOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// envBool is true only for a case-insensitive "true".
func envBool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "true")
}

// envDuration accepts Go durations ("90s") or a plain number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
