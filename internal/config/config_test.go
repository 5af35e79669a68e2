package config

import (
	"os"
	"path/filepath"
	"testing"

	"FXPulse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Instruments, 28)
	assert.Equal(t, "@every 15s", cfg.Refresh.TickCron)
	assert.Equal(t, "0 0 * * * *", cfg.Refresh.ReloadCron)
	assert.Equal(t, 365, cfg.History.LookbackDays)
	assert.Equal(t, []int{6, 13, 100, 200}, cfg.Metrics.OffsetsHours)
	assert.Equal(t, 5, cfg.Metrics.StepChanges)
	assert.Equal(t, SourceYahoo, cfg.DataSource.Type)
	assert.True(t, cfg.Console)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
instruments:
  - name: EUR/USD
    symbol: EURUSD=X
refresh:
  tick_cron: "@every 30s"
metrics:
  offsets_hours: [1, 6]
  step_changes: 3
console: false
`)
	t.Setenv("METRICS_STEP_CHANGES", "4")
	t.Setenv("DATA_SOURCE_BASE_URL", "http://vs.local")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []model.Instrument{{Name: "EUR/USD", Symbol: "EURUSD=X"}}, cfg.Instruments)
	assert.Equal(t, "@every 30s", cfg.Refresh.TickCron)
	assert.Equal(t, []int{1, 6}, cfg.Metrics.OffsetsHours)
	assert.Equal(t, 4, cfg.Metrics.StepChanges)
	assert.Equal(t, SourceVsTrader, cfg.DataSource.Type)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.False(t, cfg.Console)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "instruments: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:   "missing symbol",
			mutate: func(c *Config) { c.Instruments = []model.Instrument{{Name: "EUR/USD"}} },
			errMsg: "name and symbol are required",
		},
		{
			name: "duplicate name",
			mutate: func(c *Config) {
				c.Instruments = []model.Instrument{{Name: "A", Symbol: "A"}, {Name: "A", Symbol: "B"}}
			},
			errMsg: "duplicate name",
		},
		{
			name:   "bad tick cron",
			mutate: func(c *Config) { c.Refresh.TickCron = "every now and then" },
			errMsg: "refresh.tick_cron",
		},
		{
			name:   "lookback too long",
			mutate: func(c *Config) { c.History.LookbackDays = 1000 },
			errMsg: "history.lookback_days",
		},
		{
			name:   "negative offset",
			mutate: func(c *Config) { c.Metrics.OffsetsHours = []int{6, -1} },
			errMsg: "metrics.offsets_hours",
		},
		{
			name:   "vstrader without url",
			mutate: func(c *Config) { c.DataSource.Type = SourceVsTrader },
			errMsg: "data_source.base_url",
		},
		{
			name:   "unknown source",
			mutate: func(c *Config) { c.DataSource.Type = "bloomberg" },
			errMsg: "not supported",
		},
		{
			name:   "telegram half configured",
			mutate: func(c *Config) { c.Telegram.BotToken = "tok" },
			errMsg: "must be set together",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestInstrumentNames(t *testing.T) {
	c := &Config{Instruments: []model.Instrument{{Name: "A", Symbol: "a"}, {Name: "B", Symbol: "b"}}}
	assert.Equal(t, []string{"A", "B"}, c.InstrumentNames())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
