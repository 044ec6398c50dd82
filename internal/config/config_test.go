package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "development", cfg.Server.Mode)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "DejaVu", cfg.Report.FontFamily)
	assert.Len(t, cfg.Report.FontPaths, 3)
	assert.False(t, cfg.I18n.CookieSecure)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
logger:
  level: debug
  format: json
session:
  ttl: 5m
report:
  font_paths: [/tmp/font.ttf]
`), 0o644))
	t.Setenv("VITA_SERVER_HOST", "127.0.0.1")
	t.Setenv("VITA_I18N_COOKIE_SECURE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, []string{"/tmp/font.ttf"}, cfg.Report.FontPaths)
	assert.True(t, cfg.I18n.CookieSecure)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 70000\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "out of range")

	require.NoError(t, os.WriteFile(path, []byte("session:\n  ttl: 0s\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "session.ttl")
}
