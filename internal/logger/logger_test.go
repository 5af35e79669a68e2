package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New("warn", path)
	require.NoError(t, err)

	log.Infow("hidden")
	log.Warnw("shown", "instrument", "EUR/USD")
	CronLogger{Log: log}.Error(errors.New("boom"), "job failed")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"instrument":"EUR/USD"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New("loud", path)
	require.NoError(t, err)
	log.Debugw("debug line")
	log.Infow("info line")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "debug line")
	assert.Contains(t, string(data), "info line")
}
