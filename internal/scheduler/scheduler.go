package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rintaro796/cs2-discord-alerts/internal/alert"
	"github.com/rintaro796/cs2-discord-alerts/internal/config"
	"github.com/rintaro796/cs2-discord-alerts/internal/feed"
	"github.com/rintaro796/cs2-discord-alerts/internal/model"
	"github.com/rintaro796/cs2-discord-alerts/internal/normalizer"
	"github.com/rintaro796/cs2-discord-alerts/internal/notifier"
	"github.com/rintaro796/cs2-discord-alerts/internal/portfolio"
	"github.com/rintaro796/cs2-discord-alerts/internal/recorder"
	"github.com/rintaro796/cs2-discord-alerts/internal/scanner"
	"github.com/rintaro796/cs2-discord-alerts/internal/state"
)

// Scheduler wires the feed, evaluator, state store and notifier into
// runnable tasks, either one-shot or on cron.
type Scheduler struct {
	Cron      *cron.Cron
	Fetcher   feed.Fetcher
	Store     *state.Store
	Evaluator *alert.Evaluator
	Notifier  *notifier.DiscordNotifier
	Recorder  recorder.Recorder
	Cfg       *config.Config
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg *config.Config, f feed.Fetcher, st *state.Store, ev *alert.Evaluator, n *notifier.DiscordNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Fetcher:   f,
		Store:     st,
		Evaluator: ev,
		Notifier:  n,
		Recorder:  rec,
		Cfg:       cfg,
	}
}

// RegisterAll registers cron entries for every task that has a schedule.
// Scanner tasks are only scheduled when a cron expression is configured,
// so an unconfigured scanner doesn't post its fallback message repeatedly.
func (s *Scheduler) RegisterAll() error {
	entries := []struct {
		spec string
		name string
		task func() error
	}{
		{s.Cfg.Schedule.SummaryCron, "summary", s.SummaryTask},
		{s.Cfg.Schedule.AlertsCron, "alerts", s.AlertsTask},
		{s.Cfg.Schedule.PumpCron, "pump", s.PumpTask},
		{s.Cfg.Schedule.StickersCron, "stickers", s.StickersTask},
		{s.Cfg.Schedule.InvestCron, "invest", s.InvestTask},
	}
	for _, e := range entries {
		if e.spec == "" {
			continue
		}
		e := e
		if _, err := s.Cron.AddFunc(e.spec, func() {
			if err := e.task(); err != nil {
				log.Printf("[ERROR] %s task: %v", e.name, err)
			}
		}); err != nil {
			return fmt.Errorf("register %s task: %w", e.name, err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunOnce executes a single task immediately for one-shot invocations.
func (s *Scheduler) RunOnce(mode model.RunMode) error {
	switch mode {
	case model.ModeSummary:
		return s.SummaryTask()
	case model.ModeAlerts:
		return s.AlertsTask()
	case model.ModePump:
		return s.PumpTask()
	case model.ModeStickers:
		return s.StickersTask()
	case model.ModeInvest:
		return s.InvestTask()
	default:
		return fmt.Errorf("unknown run mode %q", mode)
	}
}

// fetchPortfolio fetches and normalizes the portfolio sheet. Fetch and
// schema failures are reported to the webhook channel before failing the
// run; persisted state is never touched on that path.
func (s *Scheduler) fetchPortfolio() ([]model.Record, error) {
	text, err := s.Fetcher.FetchCSV(s.Cfg.Portfolio.CSVURL)
	if err != nil {
		s.trySend(fmt.Sprintf("⚠️ Portfolio fetch error: %v", err))
		return nil, fmt.Errorf("fetch portfolio: %w", err)
	}
	rows, err := normalizer.ParseTable(text, s.Cfg.Portfolio.RequiredColumns)
	if err != nil {
		s.trySend(fmt.Sprintf("⚠️ Portfolio fetch error: %v", err))
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	return normalizer.Normalize(rows), nil
}

// SummaryTask posts the portfolio summary embed.
func (s *Scheduler) SummaryTask() error {
	log.Println("[INFO] running summary task")
	records, err := s.fetchPortfolio()
	if err != nil {
		s.recordRun(string(model.ModeSummary), 0, 0, model.Summary{}, err)
		return err
	}

	sum := portfolio.Summarize(records)
	now := notifier.Timestamp(time.Now())
	if err := s.Notifier.SendEmbed(notifier.FormatSummaryEmbed(sum, now)); err != nil {
		s.recordRun(string(model.ModeSummary), len(records), 0, sum, err)
		return fmt.Errorf("send summary: %w", err)
	}

	s.recordRun(string(model.ModeSummary), len(records), 0, sum, nil)
	return nil
}

// AlertsTask diffs current prices against the prior snapshot and posts any
// threshold crossings. Run order is strict: fetch, load, evaluate, save,
// notify. A failed snapshot save aborts the run before any notification:
// next run's baseline would silently drift otherwise.
func (s *Scheduler) AlertsTask() error {
	log.Println("[INFO] running alerts task")
	records, err := s.fetchPortfolio()
	if err != nil {
		s.recordRun(string(model.ModeAlerts), 0, 0, model.Summary{}, err)
		return err
	}

	prior := s.Store.Load()
	alerts, next := s.Evaluator.Evaluate(records, prior)

	if err := s.Store.Save(next); err != nil {
		s.trySend(fmt.Sprintf("⚠️ Failed to persist price snapshot: %v", err))
		s.recordRun(string(model.ModeAlerts), len(records), len(alerts), model.Summary{}, err)
		return fmt.Errorf("save snapshot: %w", err)
	}

	var sendErr error
	if len(alerts) > 0 {
		sendErr = s.Notifier.Send(notifier.FormatAlertMessage(alerts))
	} else {
		sendErr = s.Notifier.Send(notifier.NoAlertsMessage())
	}

	for _, a := range alerts {
		if err := s.Recorder.RecordAlert(&recorder.AlertEvent{
			Identity:      a.Identity,
			PreviousValue: a.PreviousValue,
			CurrentValue:  a.CurrentValue,
			PercentChange: a.PercentChange,
		}); err != nil {
			log.Printf("[ERROR] record alert: %v", err)
		}
	}
	s.recordRun(string(model.ModeAlerts), len(records), len(alerts), model.Summary{}, sendErr)

	if sendErr != nil {
		return fmt.Errorf("send alerts: %w", sendErr)
	}
	return nil
}

// PumpTask evaluates the pump/dump feed against fixed thresholds.
func (s *Scheduler) PumpTask() error {
	log.Println("[INFO] running pump scanner")
	if s.Cfg.Scanner.PumpFeedURL == "" {
		return s.Notifier.Send("⚠️ Pump scanner: No PUMP_FEED_URL configured.")
	}

	var items []model.PumpItem
	if err := s.Fetcher.FetchJSON(s.Cfg.Scanner.PumpFeedURL, &items); err != nil {
		s.trySend(fmt.Sprintf("⚠️ Pump scanner fetch error: %v", err))
		s.recordRun(string(model.ModePump), 0, 0, model.Summary{}, err)
		return fmt.Errorf("fetch pump feed: %w", err)
	}

	now := notifier.Timestamp(time.Now())
	flagged := scanner.FlagPumps(items, s.Cfg.Scanner.PumpThresh24, s.Cfg.Scanner.PumpThresh72)
	s.recordRun(string(model.ModePump), len(items), len(flagged), model.Summary{}, nil)

	if len(flagged) == 0 {
		return s.Notifier.Send(notifier.NoPumpMessage(now))
	}
	return s.Notifier.SendEmbed(notifier.FormatPumpEmbed(flagged, now))
}

// StickersTask reports sticker/patch movers by feed-supplied direction tags.
func (s *Scheduler) StickersTask() error {
	log.Println("[INFO] running stickers scanner")
	if s.Cfg.Scanner.StickersFeedURL == "" {
		return s.Notifier.Send("⚠️ Stickers/Patches: No STICKERS_FEED_URL configured.")
	}

	var items []model.StickerItem
	if err := s.Fetcher.FetchJSON(s.Cfg.Scanner.StickersFeedURL, &items); err != nil {
		s.trySend(fmt.Sprintf("⚠️ Stickers/Patches fetch error: %v", err))
		s.recordRun(string(model.ModeStickers), 0, 0, model.Summary{}, err)
		return fmt.Errorf("fetch stickers feed: %w", err)
	}

	up, down := scanner.SplitMovers(items)
	now := notifier.Timestamp(time.Now())
	s.recordRun(string(model.ModeStickers), len(items), len(up)+len(down), model.Summary{}, nil)
	return s.Notifier.SendEmbed(notifier.FormatStickersEmbed(up, down, now))
}

// InvestTask reports investment-grade candidates from the curated feed.
func (s *Scheduler) InvestTask() error {
	log.Println("[INFO] running investment-grade scanner")
	if s.Cfg.Scanner.InvestFeedURL == "" {
		return s.Notifier.Send("⚠️ Investment-grade scanner: No INVEST_FEED_URL configured.")
	}

	var items []model.CandidateItem
	if err := s.Fetcher.FetchJSON(s.Cfg.Scanner.InvestFeedURL, &items); err != nil {
		s.trySend(fmt.Sprintf("⚠️ Investment-grade fetch error: %v", err))
		s.recordRun(string(model.ModeInvest), 0, 0, model.Summary{}, err)
		return fmt.Errorf("fetch invest feed: %w", err)
	}

	top := scanner.TopCandidates(items)
	now := notifier.Timestamp(time.Now())
	s.recordRun(string(model.ModeInvest), len(items), len(top), model.Summary{}, nil)
	return s.Notifier.SendEmbed(notifier.FormatCandidatesEmbed(top, now))
}

func (s *Scheduler) recordRun(mode string, records, alerts int, sum model.Summary, runErr error) {
	evt := &recorder.RunEvent{
		Mode:        mode,
		RecordCount: records,
		AlertCount:  alerts,
		TotalValue:  sum.TotalCurrentValue,
		TotalCost:   sum.TotalCostBasis,
	}
	if runErr != nil {
		evt.Error = runErr.Error()
	}
	if err := s.Recorder.RecordRun(evt); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
