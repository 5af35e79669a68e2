package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FXPulse/internal/collector"
	"FXPulse/internal/config"
	"FXPulse/internal/logger"
	"FXPulse/internal/metrics"
	"FXPulse/internal/model"
	"FXPulse/internal/notifier"
	"FXPulse/internal/recorder"
	"FXPulse/internal/scheduler"
	"FXPulse/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "fxpulse",
		Short:         "FXPulse: rolling hourly FX metrics refreshed from 5-minute bars",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "Path to config file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Load history and refresh metrics on schedule until interrupted",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cfgPath)
			},
		},
		&cobra.Command{
			Use:   "once",
			Short: "Load history, run a single tick and print the table",
			RunE: func(cmd *cobra.Command, args []string) error {
				return once(cmd.Context(), cfgPath)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println("fxpulse", version)
			},
		},
	)
	return cmd
}

// app is the wired set of components shared by run and once.
type app struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	sched *scheduler.Scheduler
	tn    *notifier.TelegramNotifier
	rec   recorder.Recorder
}

func setup(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Type {
	case config.SourceVsTrader:
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.SourceMock:
		fetcher = &collector.MockFetcher{Price: 1.0}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Infow("data source selected", "source", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warnw("init sqlite recorder failed, using noop", "error", err)
		} else {
			rec = sr
		}
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	eng := metrics.NewEngine(cfg.Metrics.OffsetsHours, cfg.Metrics.StepChanges, model.Hour.Duration())

	sched := scheduler.NewScheduler(ctx,
		collector.NewCollector(fetcher, cfg.History.LookbackDays),
		eng,
		state.NewStore(),
		tn,
		rec,
		cfg.Instruments,
		log,
	)
	if cfg.Console {
		sched.Console = os.Stdout
	}
	sched.PushEveryTick = cfg.Telegram.PushEveryTick

	return &app{cfg: cfg, log: log, sched: sched, tn: tn, rec: rec}, nil
}

func (a *app) close() {
	if err := a.rec.Close(); err != nil {
		a.log.Errorw("close recorder", "error", err)
	}
	_ = a.log.Sync()
}

func run(cfgPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := setup(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Infow("FXPulse starting", "version", version, "instruments", len(a.cfg.Instruments))

	if err := a.sched.RegisterAll(a.cfg.Refresh.TickCron, a.cfg.Refresh.ReloadCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}

	// Series are created at startup by a full history load.
	a.sched.ReloadAll(ctx)
	a.sched.Start()
	defer a.sched.Stop()

	if a.tn.Enabled() {
		go a.tn.StartPolling(ctx, a.sched.HandleCommand)
		a.log.Infow("telegram polling started")
	}

	a.log.Infow("FXPulse is running, press Ctrl+C to stop")
	<-ctx.Done()
	a.log.Infow("shutdown signal received, stopping")
	return nil
}

func once(ctx context.Context, cfgPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := setup(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.close()

	a.sched.Console = os.Stdout
	if a.sched.ReloadAll(ctx) == 0 {
		return fmt.Errorf("no instrument history could be loaded")
	}
	a.sched.Tick(ctx)
	return nil
}
