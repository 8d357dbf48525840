package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris/standup/config"
	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/llm"
	"github.com/chris/standup/internal/logging"
	"github.com/chris/standup/internal/metrics"
	"github.com/chris/standup/internal/tracker"
)

var (
	globalConfig  *config.Config
	globalLog     *zap.SugaredLogger
	globalDB      *db.DB
	globalMetrics *metrics.Collector
	globalTracker *tracker.Service
	outputFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "standup",
	Short: "Jot work notes through the day, get a standup update at the end of it",
	Long: `standup collects short work notes during the day and asks a language
model to turn them into a standup update.

Notes live in day files under the data folder; summaries are saved next
to them. Run "standup run" to get reminders and an automatic end of day
summary over Discord.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		switch outputFormat {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
		}

		cfg := config.Load()
		globalConfig = cfg

		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		globalLog = log

		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		globalDB = database
		globalMetrics = metrics.NewCollector()

		gw := llm.NewGateway(llm.NewProviders(providerConfig(cfg)), llm.Builder{Location: time.Local}, log)
		svc, err := tracker.New(tracker.Options{
			Gateway:         gw,
			DB:              database,
			DefaultProvider: cfg.AIProvider,
			DefaultBaseDir:  cfg.DataDir,
			Metrics:         globalMetrics,
			Log:             log,
		})
		if err != nil {
			return fmt.Errorf("failed to start tracker: %w", err)
		}
		globalTracker = svc
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalDB != nil {
			_ = globalDB.Close()
			globalDB = nil
		}
		if globalLog != nil {
			_ = globalLog.Sync()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")
}

func providerConfig(cfg *config.Config) llm.ProviderConfig {
	return llm.ProviderConfig{
		AzureEndpoint:     cfg.AzureEndpoint,
		AzureAPIKey:       cfg.AzureAPIKey,
		AzureDeployment:   cfg.AzureDeployment,
		AzureAPIVersion:   cfg.AzureAPIVersion,
		OpenAIKey:         cfg.OpenAIKey,
		OllamaBaseURL:     cfg.OllamaBaseURL,
		Model:             cfg.LLMModel,
		AnthropicKey:      cfg.AnthropicKey,
		AnthropicToken:    cfg.AnthropicToken,
		ClaudeCodePath:    cfg.ClaudeCodePath,
		ClaudeCodeTimeout: cfg.ClaudeCodeTimeout,
		HTTPClient:        &http.Client{Timeout: 2 * time.Minute},
	}
}
