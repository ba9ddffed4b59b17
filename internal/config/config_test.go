package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
models:
  cacheTTL: 1h
  preferred: [gemini-2.0-flash]
bulk:
  maxConcurrency: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Models.CacheTTL)
	assert.Equal(t, []string{"gemini-2.0-flash"}, cfg.Models.Preferred)
	assert.Equal(t, 3, cfg.Bulk.MaxConcurrency)
	// untouched sections keep defaults
	assert.Equal(t, "gemini-2.5-flash", cfg.Models.Fallback)
	assert.Equal(t, 200, cfg.Fetcher.MinContentLength)
	assert.Equal(t, int64(50<<20), cfg.Cache.LocalMaxBytes)
	assert.Equal(t, []string{"en"}, cfg.Analysis.NLPLanguages)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("AI_API_KEY", "secret")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Bulk.MaxConcurrency = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Analysis.VerifyThreshold = 0.9
	assert.Error(t, cfg.Validate())
}

func TestDSNs(t *testing.T) {
	cfg := Default()
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "db"
	cfg.Database.Name = "satya"
	assert.Equal(t, "u:p@tcp(db:3306)/satya?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Contains(t, cfg.PostgresDSN(), "dbname=satya")
}
