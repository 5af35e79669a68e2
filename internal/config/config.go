package config

import (
	"fmt"
	"os"

	"FXPulse/internal/model"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Instruments []model.Instrument `yaml:"instruments" env:"-"`
	Refresh     struct {
		TickCron   string `yaml:"tick_cron" env:"TICK_CRON"`
		ReloadCron string `yaml:"reload_cron" env:"RELOAD_CRON"`
	} `yaml:"refresh" envPrefix:"REFRESH_"`
	History struct {
		LookbackDays int `yaml:"lookback_days" env:"LOOKBACK_DAYS"`
	} `yaml:"history" envPrefix:"HISTORY_"`
	Metrics struct {
		OffsetsHours []int `yaml:"offsets_hours" env:"OFFSETS_HOURS" envSeparator:","`
		StepChanges  int   `yaml:"step_changes" env:"STEP_CHANGES"`
	} `yaml:"metrics" envPrefix:"METRICS_"`
	DataSource struct {
		Type    string `yaml:"type" env:"TYPE"`
		BaseURL string `yaml:"base_url" env:"BASE_URL"`
		APIKey  string `yaml:"api_key" env:"API_KEY"`
	} `yaml:"data_source" envPrefix:"DATA_SOURCE_"`
	Telegram struct {
		BotToken      string `yaml:"bot_token" env:"BOT_TOKEN"`
		ChatID        string `yaml:"chat_id" env:"CHAT_ID"`
		PushEveryTick bool   `yaml:"push_every_tick" env:"PUSH_EVERY_TICK"`
	} `yaml:"telegram" envPrefix:"TELEGRAM_"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Console  bool   `yaml:"console" env:"CONSOLE"`
	Proxy    string `yaml:"proxy" env:"HTTPS_PROXY"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Data source types.
const (
	SourceYahoo    = "yahoo"
	SourceVsTrader = "vstrader"
	SourceMock     = "mock"
)

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Console: true}

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
	_ = godotenv.Load()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Instruments) == 0 {
		c.Instruments = DefaultInstruments()
	}
	if c.Refresh.TickCron == "" {
		c.Refresh.TickCron = "@every 15s"
	}
	if c.Refresh.ReloadCron == "" {
		c.Refresh.ReloadCron = "0 0 * * * *"
	}
	if c.History.LookbackDays == 0 {
		c.History.LookbackDays = 365
	}
	if len(c.Metrics.OffsetsHours) == 0 {
		c.Metrics.OffsetsHours = []int{6, 13, 100, 200}
	}
	if c.Metrics.StepChanges == 0 {
		c.Metrics.StepChanges = 5
	}
	if c.DataSource.Type == "" {
		c.DataSource.Type = SourceYahoo
		if c.DataSource.BaseURL != "" {
			c.DataSource.Type = SourceVsTrader
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments must not be empty")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Name == "" || inst.Symbol == "" {
			return fmt.Errorf("instruments[%d]: name and symbol are required", i)
		}
		if seen[inst.Name] {
			return fmt.Errorf("instruments[%d]: duplicate name %q", i, inst.Name)
		}
		seen[inst.Name] = true
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Refresh.TickCron); err != nil {
		return fmt.Errorf("refresh.tick_cron: %w", err)
	}
	if _, err := parser.Parse(c.Refresh.ReloadCron); err != nil {
		return fmt.Errorf("refresh.reload_cron: %w", err)
	}

	if c.History.LookbackDays <= 0 || c.History.LookbackDays > 730 {
		return fmt.Errorf("history.lookback_days must be between 1 and 730")
	}
	for _, h := range c.Metrics.OffsetsHours {
		if h <= 0 {
			return fmt.Errorf("metrics.offsets_hours must be positive, got %d", h)
		}
	}
	if c.Metrics.StepChanges <= 0 {
		return fmt.Errorf("metrics.step_changes must be positive")
	}

	switch c.DataSource.Type {
	case SourceYahoo, SourceMock:
	case SourceVsTrader:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("data_source.type %q is not supported", c.DataSource.Type)
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// InstrumentNames returns the configured display names in order.
func (c *Config) InstrumentNames() []string {
	names := make([]string, len(c.Instruments))
	for i, inst := range c.Instruments {
		names[i] = inst.Name
	}
	return names
}
