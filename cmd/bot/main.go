package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rintaro796/cs2-discord-alerts/internal/alert"
	"github.com/rintaro796/cs2-discord-alerts/internal/config"
	"github.com/rintaro796/cs2-discord-alerts/internal/feed"
	"github.com/rintaro796/cs2-discord-alerts/internal/model"
	"github.com/rintaro796/cs2-discord-alerts/internal/notifier"
	"github.com/rintaro796/cs2-discord-alerts/internal/recorder"
	"github.com/rintaro796/cs2-discord-alerts/internal/scheduler"
	"github.com/rintaro796/cs2-discord-alerts/internal/state"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] cs2-discord-alerts starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Wire components
	fetcher := feed.NewHTTPFetcher(cfg.Proxy)
	store := state.NewStore(cfg.Portfolio.StateFile)
	evaluator := alert.NewEvaluator(cfg.Alert.UpThreshold, cfg.Alert.DownThreshold)
	dn := notifier.NewDiscordNotifier(cfg.Webhook.URL, cfg.Proxy)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}

	sched := scheduler.NewScheduler(cfg, fetcher, store, evaluator, dn, rec)

	// One-shot mode (default): run the configured task and exit, matching a
	// scheduled external invocation. Set RUN_ONCE=false to run as a daemon.
	if os.Getenv("RUN_ONCE") != "false" {
		mode := model.RunMode(cfg.RunMode)
		log.Printf("[INFO] one-shot run, mode=%s", mode)
		runErr := sched.RunOnce(mode)
		rec.Close()
		if runErr != nil {
			log.Fatalf("[FATAL] run failed: %v", runErr)
		}
		log.Println("[INFO] run complete")
		return
	}
	defer rec.Close()

	// Daemon mode: cron-driven tasks
	if err := sched.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] cs2-discord-alerts is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
}
