package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Browser   BrowserConfig   `yaml:"browser" mapstructure:"browser"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	RateLimit RateLimitConfig `yaml:"ratelimit" mapstructure:"ratelimit"`
	Proxycurl ProxycurlConfig `yaml:"proxycurl" mapstructure:"proxycurl"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BrowserConfig configures the headless Chrome fetcher.
type BrowserConfig struct {
	TimeoutSecs int         `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Proxy       ProxyConfig `yaml:"proxy" mapstructure:"proxy"`
	UserAgents  []string    `yaml:"user_agents" mapstructure:"user_agents"`
}

// ProxyConfig configures an optional upstream proxy for page fetches.
type ProxyConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Server   string `yaml:"server" mapstructure:"server"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// ScrapeConfig configures per-URL scrape behavior and batch limits.
type ScrapeConfig struct {
	RetryAttempts            int      `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBaseDelaySecs       int      `yaml:"retry_base_delay_secs" mapstructure:"retry_base_delay_secs"`
	DelayBetweenRequestsSecs int      `yaml:"delay_between_requests_secs" mapstructure:"delay_between_requests_secs"`
	MaxURLsPerBatch          int      `yaml:"max_urls_per_batch" mapstructure:"max_urls_per_batch"`
	RequiredFields           []string `yaml:"required_fields" mapstructure:"required_fields"`
	CacheTTLHours            int      `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// RateLimitConfig configures request pacing.
type RateLimitConfig struct {
	RequestsPerSecond       float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize               int     `yaml:"burst_size" mapstructure:"burst_size"`
	EnrichRequestsPerMinute int     `yaml:"enrich_requests_per_minute" mapstructure:"enrich_requests_per_minute"`
}

// ProxycurlConfig holds Proxycurl API settings.
type ProxycurlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExportConfig configures lead exports.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "data/leads.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("browser.timeout_secs", 30)
	v.SetDefault("browser.user_agents", defaultUserAgents)
	v.SetDefault("scrape.retry_attempts", 3)
	v.SetDefault("scrape.retry_base_delay_secs", 2)
	v.SetDefault("scrape.delay_between_requests_secs", 2)
	v.SetDefault("scrape.max_urls_per_batch", 50)
	v.SetDefault("scrape.required_fields", []string{"name", "website"})
	v.SetDefault("scrape.cache_ttl_hours", 24)
	v.SetDefault("ratelimit.requests_per_second", 1.0)
	v.SetDefault("ratelimit.burst_size", 5)
	v.SetDefault("ratelimit.enrich_requests_per_minute", 60)
	v.SetDefault("proxycurl.base_url", "https://nubela.co/proxycurl/api")
	v.SetDefault("export.dir", "data/exports")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given run mode and returns a
// single error aggregating every problem found.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Store.Driver == "sqlite" || c.Store.Driver == "postgres",
		"store.driver must be sqlite or postgres")
	check(c.Store.DatabaseURL != "", "store.database_url is required")

	switch mode {
	case "scrape", "batch":
		check(c.Scrape.RetryAttempts >= 1, "scrape.retry_attempts must be >= 1")
		check(c.Scrape.MaxURLsPerBatch >= 1 && c.Scrape.MaxURLsPerBatch <= 500,
			"scrape.max_urls_per_batch must be between 1 and 500")
		check(c.Browser.TimeoutSecs > 0, "browser.timeout_secs must be > 0")
		check(c.RateLimit.RequestsPerSecond > 0, "ratelimit.requests_per_second must be > 0")
		if c.Browser.Proxy.Enabled {
			check(c.Browser.Proxy.Server != "", "browser.proxy.server is required when proxy is enabled")
		}
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
	case "export", "leads":
		check(c.Export.Dir != "", "export.dir is required")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// WriteDefault writes a config.yaml seeded with defaults to path. It
// refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return eris.Errorf("config: %s already exists", path)
	}

	cfg := Config{
		Store: StoreConfig{Driver: "sqlite", DatabaseURL: "data/leads.db"},
		Browser: BrowserConfig{
			TimeoutSecs: 30,
			UserAgents:  defaultUserAgents,
		},
		Scrape: ScrapeConfig{
			RetryAttempts:            3,
			RetryBaseDelaySecs:       2,
			DelayBetweenRequestsSecs: 2,
			MaxURLsPerBatch:          50,
			RequiredFields:           []string{"name", "website"},
			CacheTTLHours:            24,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:       1,
			BurstSize:               5,
			EnrichRequestsPerMinute: 60,
		},
		Proxycurl: ProxycurlConfig{BaseURL: "https://nubela.co/proxycurl/api"},
		Export:    ExportConfig{Dir: "data/exports"},
		Server:    ServerConfig{Port: 8080},
		Log:       LogConfig{Level: "info", Format: "json"},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "config: write %s", path)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
