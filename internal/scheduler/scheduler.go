package scheduler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"FXPulse/internal/collector"
	"FXPulse/internal/logger"
	"FXPulse/internal/metrics"
	"FXPulse/internal/model"
	"FXPulse/internal/notifier"
	"FXPulse/internal/recorder"
	"FXPulse/internal/series"
	"FXPulse/internal/state"

	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Parser accepts both 5- and 6-field cron specs plus descriptors such as "@every 15s".
var Parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler drives the refresh tick and the history reload.
type Scheduler struct {
	Cron          *cron.Cron
	Collector     *collector.Collector
	Engine        *metrics.Engine
	Store         *state.Store
	Notifier      *notifier.TelegramNotifier
	Recorder      recorder.Recorder
	Instruments   []model.Instrument
	Console       io.Writer
	PushEveryTick bool
	Ctx           context.Context

	log      *zap.SugaredLogger
	runMu    sync.Mutex
	tickSpec cron.Schedule
	now      func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *metrics.Engine, store *state.Store,
	tn *notifier.TelegramNotifier, rec recorder.Recorder, instruments []model.Instrument, log *zap.SugaredLogger) *Scheduler {
	cl := logger.CronLogger{Log: log}
	return &Scheduler{
		Cron: cron.New(
			cron.WithParser(Parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector:   col,
		Engine:      eng,
		Store:       store,
		Notifier:    tn,
		Recorder:    rec,
		Instruments: instruments,
		Ctx:         ctx,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RegisterAll registers the refresh tick and the full history reload.
func (s *Scheduler) RegisterAll(tickCron, reloadCron string) error {
	spec, err := Parser.Parse(tickCron)
	if err != nil {
		return fmt.Errorf("parse tick schedule: %w", err)
	}
	if _, err := s.Cron.AddFunc(tickCron, func() { s.Tick(s.Ctx) }); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reloadCron, func() { s.ReloadAll(s.Ctx) }); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	s.tickSpec = spec
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Infow("scheduler started", "instruments", len(s.Instruments))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Infow("scheduler stopped")
}

// ReloadAll replaces every instrument's hourly series with a fresh history
// load. An instrument whose load fails keeps what it had.
func (s *Scheduler) ReloadAll(ctx context.Context) int {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	loaded := 0
	for _, inst := range s.Instruments {
		if ctx.Err() != nil {
			break
		}
		if s.reload(ctx, inst) {
			loaded++
		}
	}
	s.log.Infow("history reload finished", "loaded", loaded, "total", len(s.Instruments))
	return loaded
}

func (s *Scheduler) reload(ctx context.Context, inst model.Instrument) bool {
	bars, err := s.Collector.LoadHistory(ctx, inst)
	evt := &recorder.ReloadEvent{Instrument: inst.Name, Bars: len(bars)}
	if err != nil {
		evt.Err = err.Error()
		s.log.Warnw("history load failed", "instrument", inst.Name, "error", err)
	} else {
		evt.First, evt.Last, _ = series.Bounds(bars)
		s.Store.Reset(inst.Name, bars, s.now())
		s.log.Debugw("history loaded", "instrument", inst.Name, "bars", len(bars))
	}
	if rerr := s.Recorder.RecordReload(evt); rerr != nil {
		s.log.Errorw("record reload failed", "instrument", inst.Name, "error", rerr)
	}
	return err == nil
}

// Tick runs one refresh pass over every instrument: fetch the 5-minute batch,
// merge it into the held hourly series, compute metrics, then present them.
func (s *Scheduler) Tick(ctx context.Context) []*model.MetricsResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	results := make([]*model.MetricsResult, 0, len(s.Instruments))
	for _, inst := range s.Instruments {
		if ctx.Err() != nil {
			return results
		}
		results = append(results, s.refresh(ctx, inst))
	}

	at := s.now()
	s.Store.SetResults(results, at)

	if err := s.Recorder.RecordTick(&recorder.TickSnapshot{
		TickID:  ulid.Make().String(),
		At:      at,
		Results: results,
	}); err != nil {
		s.log.Errorw("record tick failed", "error", err)
	}

	s.present(ctx, results, at)
	return results
}

func (s *Scheduler) refresh(ctx context.Context, inst model.Instrument) *model.MetricsResult {
	fine, err := s.Collector.FetchLatest(ctx, inst)
	if err != nil {
		s.log.Warnw("5m fetch failed", "instrument", inst.Name, "error", err)
	}
	merged := series.Merge(s.Store.Get(inst.Name), fine)
	s.Store.Put(inst.Name, merged)
	return s.Engine.Compute(inst.Name, merged, fine)
}

func (s *Scheduler) present(ctx context.Context, results []*model.MetricsResult, at time.Time) {
	if s.Console != nil {
		fmt.Fprintf(s.Console, "\n%s UTC  next update %s UTC\n",
			at.Format("2006-01-02 15:04:05"), s.nextUpdate(at).Format("15:04:05"))
		if err := notifier.WriteTable(s.Console, results, s.Engine.Columns()); err != nil {
			s.log.Errorw("write console table failed", "error", err)
		}
	}
	if s.PushEveryTick {
		s.trySend(ctx, notifier.FormatMetricsReport(results, s.Engine.Columns(), at, s.nextUpdate(at)))
	}
}

// nextUpdate is when the tick job fires next after at; at itself when no
// schedule is registered.
func (s *Scheduler) nextUpdate(at time.Time) time.Time {
	if s.tickSpec == nil {
		return at
	}
	return s.tickSpec.Next(at)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	cmd := strings.Fields(command)
	if len(cmd) == 0 {
		return helpText
	}
	name, _, _ := strings.Cut(cmd[0], "@")

	switch strings.ToLower(name) {
	case "/metrics":
		results, at := s.Store.Results()
		if at.IsZero() {
			return "No tick has completed yet."
		}
		return notifier.FormatMetricsReport(results, s.Engine.Columns(), at, s.nextUpdate(at))
	case "/reload":
		loaded := s.ReloadAll(s.Ctx)
		return fmt.Sprintf("🔄 History reloaded: %d/%d instruments", loaded, len(s.Instruments))
	case "/status":
		_, at := s.Store.Results()
		names := make([]string, len(s.Instruments))
		for i, inst := range s.Instruments {
			names[i] = inst.Name
		}
		return notifier.FormatStatus(s.Store.Status(names), at)
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /metrics latest metrics\n• /reload reload hourly history\n• /status held series per instrument"

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.log.Errorw("send notification failed", "error", err)
	}
}
