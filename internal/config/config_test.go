package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "data/leads.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Browser.TimeoutSecs)
	assert.NotEmpty(t, cfg.Browser.UserAgents)
	assert.False(t, cfg.Browser.Proxy.Enabled)
	assert.Equal(t, 3, cfg.Scrape.RetryAttempts)
	assert.Equal(t, 2, cfg.Scrape.RetryBaseDelaySecs)
	assert.Equal(t, 2, cfg.Scrape.DelayBetweenRequestsSecs)
	assert.Equal(t, 50, cfg.Scrape.MaxURLsPerBatch)
	assert.Equal(t, []string{"name", "website"}, cfg.Scrape.RequiredFields)
	assert.Equal(t, 24, cfg.Scrape.CacheTTLHours)
	assert.InDelta(t, 1.0, cfg.RateLimit.RequestsPerSecond, 0.001)
	assert.Equal(t, 5, cfg.RateLimit.BurstSize)
	assert.Equal(t, 60, cfg.RateLimit.EnrichRequestsPerMinute)
	assert.Equal(t, "https://nubela.co/proxycurl/api", cfg.Proxycurl.BaseURL)
	assert.Equal(t, "data/exports", cfg.Export.Dir)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
log:
  level: debug
  format: console
scrape:
  retry_attempts: 5
browser:
  proxy:
    enabled: true
    server: http://proxy.local:3128
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Scrape.RetryAttempts)
	assert.True(t, cfg.Browser.Proxy.Enabled)
	assert.Equal(t, "http://proxy.local:3128", cfg.Browser.Proxy.Server)
	// Defaults still apply for unset values
	assert.Equal(t, 50, cfg.Scrape.MaxURLsPerBatch)
	assert.Equal(t, 30, cfg.Browser.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADGEN_STORE_DRIVER", "postgres")
	t.Setenv("LEADGEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("LEADGEN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, WriteDefault("config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Scrape.RetryAttempts)
	assert.Equal(t, "data/exports", cfg.Export.Dir)

	// Refuses to clobber an existing file
	assert.Error(t, WriteDefault("config.yaml"))
}

// validDefaults returns a Config populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "data/leads.db"
	cfg.Browser.TimeoutSecs = 30
	cfg.Scrape.RetryAttempts = 3
	cfg.Scrape.MaxURLsPerBatch = 50
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.Export.Dir = "data/exports"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateScrape_AllPresent(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("scrape"))
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidateScrape_MissingFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""
	cfg.Scrape.RetryAttempts = 0
	cfg.Browser.TimeoutSecs = 0

	err := cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
	assert.Contains(t, err.Error(), "scrape.retry_attempts must be >= 1")
	assert.Contains(t, err.Error(), "browser.timeout_secs must be > 0")
}

func TestValidateScrape_ProxyRequiresServer(t *testing.T) {
	cfg := validDefaults()
	cfg.Browser.Proxy.Enabled = true

	err := cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "browser.proxy.server is required")

	cfg.Browser.Proxy.Server = "http://proxy.local:3128"
	assert.NoError(t, cfg.Validate("scrape"))
}

func TestValidateBatchBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Scrape.MaxURLsPerBatch = 0
	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_urls_per_batch must be between 1 and 500")

	cfg.Scrape.MaxURLsPerBatch = 501
	err = cfg.Validate("batch")
	assert.Error(t, err)

	cfg.Scrape.MaxURLsPerBatch = 500
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateBadDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"

	err := cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
