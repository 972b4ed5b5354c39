package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultRequiredColumns is the portfolio sheet schema the normalizer expects.
var DefaultRequiredColumns = []string{
	"Item Name", "Condition", "Quantity", "Buy Price (USD)", "Buy Date",
	"Current Price (USD)", "Current Value (USD)", "Unrealized Profit (USD)", "ROI (%)",
}

// Config holds all application configuration.
type Config struct {
	Webhook struct {
		URL string `yaml:"url"`
	} `yaml:"webhook"`
	Portfolio struct {
		CSVURL          string   `yaml:"csv_url"`
		RequiredColumns []string `yaml:"required_columns"`
		StateFile       string   `yaml:"state_file"`
	} `yaml:"portfolio"`
	Alert struct {
		UpThreshold   float64 `yaml:"up_threshold"`
		DownThreshold float64 `yaml:"down_threshold"`
	} `yaml:"alert"`
	Scanner struct {
		PumpFeedURL     string  `yaml:"pump_feed_url"`
		PumpThresh24    float64 `yaml:"pump_thresh24"`
		PumpThresh72    float64 `yaml:"pump_thresh72"`
		StickersFeedURL string  `yaml:"stickers_feed_url"`
		InvestFeedURL   string  `yaml:"invest_feed_url"`
	} `yaml:"scanner"`
	Schedule struct {
		SummaryCron  string `yaml:"summary_cron"`
		AlertsCron   string `yaml:"alerts_cron"`
		PumpCron     string `yaml:"pump_cron"`
		StickersCron string `yaml:"stickers_cron"`
		InvestCron   string `yaml:"invest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	RunMode string `yaml:"run_mode"`
	Proxy   string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Priority order: environment variables > .env file > YAML file > defaults.
func Load(path string) (*Config, error) {
	// Pick up a local .env if present (ignore error if not found).
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("CSV_URL"); v != "" {
		cfg.Portfolio.CSVURL = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.Portfolio.StateFile = v
	}
	if v := os.Getenv("RUN_MODE"); v != "" {
		cfg.RunMode = v
	}
	if v, ok := envFloat("ALERT_UP_THRESHOLD"); ok {
		cfg.Alert.UpThreshold = v
	}
	if v, ok := envFloat("ALERT_DOWN_THRESHOLD"); ok {
		cfg.Alert.DownThreshold = v
	}
	if v := os.Getenv("PUMP_FEED_URL"); v != "" {
		cfg.Scanner.PumpFeedURL = v
	}
	if v, ok := envFloat("PUMP_THRESH24"); ok {
		cfg.Scanner.PumpThresh24 = v
	}
	if v, ok := envFloat("PUMP_THRESH72"); ok {
		cfg.Scanner.PumpThresh72 = v
	}
	if v := os.Getenv("STICKERS_FEED_URL"); v != "" {
		cfg.Scanner.StickersFeedURL = v
	}
	if v := os.Getenv("INVEST_FEED_URL"); v != "" {
		cfg.Scanner.InvestFeedURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SUMMARY"); v != "" {
		cfg.Schedule.SummaryCron = v
	}
	if v := os.Getenv("CRON_ALERTS"); v != "" {
		cfg.Schedule.AlertsCron = v
	}

	// Defaults
	if len(cfg.Portfolio.RequiredColumns) == 0 {
		cfg.Portfolio.RequiredColumns = DefaultRequiredColumns
	}
	if cfg.Portfolio.StateFile == "" {
		cfg.Portfolio.StateFile = "data/last_prices.json"
	}
	if cfg.Alert.UpThreshold == 0 {
		cfg.Alert.UpThreshold = 0.10
	}
	if cfg.Alert.DownThreshold == 0 {
		cfg.Alert.DownThreshold = -0.10
	}
	if cfg.Scanner.PumpThresh24 == 0 {
		cfg.Scanner.PumpThresh24 = 25
	}
	if cfg.Scanner.PumpThresh72 == 0 {
		cfg.Scanner.PumpThresh72 = 40
	}
	if cfg.Schedule.SummaryCron == "" {
		cfg.Schedule.SummaryCron = "0 0 9 * * *"
	}
	if cfg.Schedule.AlertsCron == "" {
		cfg.Schedule.AlertsCron = "0 0 * * * *"
	}
	if cfg.RunMode == "" {
		cfg.RunMode = "summary"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Webhook.URL == "" {
		return fmt.Errorf("webhook.url is required (DISCORD_WEBHOOK_URL)")
	}
	if c.Alert.UpThreshold <= 0 {
		return fmt.Errorf("alert.up_threshold must be positive")
	}
	if c.Alert.DownThreshold >= 0 {
		return fmt.Errorf("alert.down_threshold must be negative")
	}
	return nil
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
