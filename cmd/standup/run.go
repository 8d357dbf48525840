package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chris/standup/internal/api"
	"github.com/chris/standup/internal/discord"
	"github.com/chris/standup/internal/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run reminders, the daily summary, the Discord bot and the local API",
	Long: `Run in the foreground until interrupted:

  - every PROMPT_INTERVAL_CRON, remind you to jot a note
  - at DAILY_SUMMARY_CRON, summarize the day and send it to you
  - with DISCORD_BOT_TOKEN set, DM the bot to record notes
  - unless API_ADDR is empty, serve the JSON API and /metrics`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log := globalConfig, globalLog
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// If Discord token is set, run the bot and DM through it
	var dm discord.DMSender
	if cfg.DiscordToken != "" {
		handler := discord.NewHandler(globalTracker, globalDB, log)
		bot, err := discord.NewBot(cfg.DiscordToken, handler, log)
		if err != nil {
			return fmt.Errorf("failed to start Discord bot: %w", err)
		}
		defer bot.Close()
		dm = bot
	}

	var notifier scheduler.Notifier
	if dm != nil || cfg.DiscordWebhook != "" {
		notifier = discord.NewNotifier(dm, globalDB, cfg.DiscordWebhook, log)
	} else {
		log.Warn("run: no DISCORD_BOT_TOKEN or DISCORD_WEBHOOK_URL, reminders are only logged")
	}

	sched := scheduler.New(scheduler.Config{
		PromptCron:    cfg.PromptIntervalCron,
		SummaryCron:   cfg.DailySummaryCron,
		WorkHoursOnly: cfg.WorkHoursOnly,
	}, globalTracker, notifier, globalMetrics, log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	errc := make(chan error, 1)
	if cfg.APIAddr != "" {
		router := api.NewRouter(globalTracker, globalMetrics, log)
		go func() { errc <- api.Serve(ctx, cfg.APIAddr, router.Handler(), log) }()
	}

	logStartup(ctx, globalTracker, log)

	var err error
	select {
	case <-ctx.Done():
		if cfg.APIAddr != "" {
			err = <-errc
		}
	case err = <-errc:
	}
	log.Info("run: shutting down")
	return err
}

type runStatus interface {
	Provider(ctx context.Context) (string, error)
	BaseDir(ctx context.Context) string
}

func logStartup(ctx context.Context, st runStatus, log *zap.SugaredLogger) {
	provider, err := st.Provider(ctx)
	if err != nil {
		log.Warnf("run: reading provider setting: %v", err)
		provider = "unknown"
	}
	log.Infof("run: using provider %s, data folder %s. Press Ctrl+C to exit.", provider, st.BaseDir(ctx))
}
