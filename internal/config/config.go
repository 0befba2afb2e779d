// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Target() TargetConfig
	Provisioner() ProvisionerConfig
	Browser() BrowserConfig
	Fleet() FleetConfig
	Metrics() MetricsConfig
	Tracing() TracingConfig
	Ledger() LedgerConfig
	Credentials() Credentials

	SetCredentials(c Credentials)
	SetFleetBounds(minSessions, maxSessions int)
	SetBrowserDriver(driver string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	TargetCfg      TargetConfig      `mapstructure:"target" yaml:"target"`
	ProvisionerCfg ProvisionerConfig `mapstructure:"provisioner" yaml:"provisioner"`
	BrowserCfg     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	FleetCfg       FleetConfig       `mapstructure:"fleet" yaml:"fleet"`
	MetricsCfg     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	TracingCfg     TracingConfig     `mapstructure:"tracing" yaml:"tracing"`
	LedgerCfg      LedgerConfig      `mapstructure:"ledger" yaml:"ledger"`
	// Credentials come from the environment only, never the config file.
	CredentialsCfg Credentials `mapstructure:"-" yaml:"-"`
}

var _ Interface = (*Config)(nil)

func (c *Config) Logger() LoggerConfig           { return c.LoggerCfg }
func (c *Config) Target() TargetConfig           { return c.TargetCfg }
func (c *Config) Provisioner() ProvisionerConfig { return c.ProvisionerCfg }
func (c *Config) Browser() BrowserConfig         { return c.BrowserCfg }
func (c *Config) Fleet() FleetConfig             { return c.FleetCfg }
func (c *Config) Metrics() MetricsConfig         { return c.MetricsCfg }
func (c *Config) Tracing() TracingConfig         { return c.TracingCfg }
func (c *Config) Ledger() LedgerConfig           { return c.LedgerCfg }
func (c *Config) Credentials() Credentials       { return c.CredentialsCfg }

func (c *Config) SetCredentials(creds Credentials) { c.CredentialsCfg = creds }

func (c *Config) SetFleetBounds(minSessions, maxSessions int) {
	c.FleetCfg.MinSessions = minSessions
	c.FleetCfg.MaxSessions = maxSessions
}

func (c *Config) SetBrowserDriver(driver string) { c.BrowserCfg.Driver = driver }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// TargetConfig points the fleet at the application under test.
type TargetConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// ReplayURLPrefix is joined with the provisioned session id in completion reports.
	ReplayURLPrefix string `mapstructure:"replay_url_prefix" yaml:"replay_url_prefix"`
}

// ProvisionerConfig configures the remote browser provisioning API client.
type ProvisionerConfig struct {
	APIURL            string        `mapstructure:"api_url" yaml:"api_url"`
	Region            string        `mapstructure:"region" yaml:"region"`
	ProxyType         string        `mapstructure:"proxy_type" yaml:"proxy_type"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
}

// BrowserConfig holds settings for the automation driver attached to each provisioned browser.
type BrowserConfig struct {
	// Driver selects the automation backend: "chromedp" or "playwright".
	Driver              string         `mapstructure:"driver" yaml:"driver"`
	DefaultTimeout      time.Duration  `mapstructure:"default_timeout" yaml:"default_timeout"`
	LandingTimeout      time.Duration  `mapstructure:"landing_timeout" yaml:"landing_timeout"`
	InterstitialTimeout time.Duration  `mapstructure:"interstitial_timeout" yaml:"interstitial_timeout"`
	NetworkIdleQuiet    time.Duration  `mapstructure:"network_idle_quiet" yaml:"network_idle_quiet"`
	Humanoid            HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
}

// FleetConfig bounds the number of sessions and the pacing between them.
type FleetConfig struct {
	MinSessions int           `mapstructure:"min_sessions" yaml:"min_sessions"`
	MaxSessions int           `mapstructure:"max_sessions" yaml:"max_sessions"`
	MinDelay    time.Duration `mapstructure:"min_delay" yaml:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
}

// MetricsConfig controls the optional Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	Path       string `mapstructure:"path" yaml:"path"`
}

// TracingConfig controls opt-in OTLP/HTTP trace export.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// LedgerConfig controls the local SQLite outcome ledger.
type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// NewDefaultConfig creates a configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "hogflix-traffic")
	v.SetDefault("logger.log_file", "hogflix-traffic.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Target --
	v.SetDefault("target.base_url", "https://psychic-robot-rr5q95vj6w3xv5v-5000.app.github.dev/")
	v.SetDefault("target.replay_url_prefix", "https://browserbase.com/sessions/")

	// -- Provisioner --
	v.SetDefault("provisioner.api_url", "https://api.browserbase.com")
	v.SetDefault("provisioner.region", "us-east-1")
	v.SetDefault("provisioner.proxy_type", "browserbase")
	v.SetDefault("provisioner.timeout", "30s")
	v.SetDefault("provisioner.requests_per_second", 2.0)
	v.SetDefault("provisioner.burst", 1)

	// -- Browser --
	v.SetDefault("browser.driver", "chromedp")
	v.SetDefault("browser.default_timeout", "120s")
	v.SetDefault("browser.landing_timeout", "60s")
	v.SetDefault("browser.interstitial_timeout", "5s")
	v.SetDefault("browser.network_idle_quiet", "500ms")
	setHumanoidDefaults(v)

	// -- Fleet --
	v.SetDefault("fleet.min_sessions", 23)
	v.SetDefault("fleet.max_sessions", 52)
	v.SetDefault("fleet.min_delay", "2s")
	v.SetDefault("fleet.max_delay", "5s")

	// -- Metrics --
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", ":9464")
	v.SetDefault("metrics.path", "/metrics")

	// -- Tracing --
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")

	// -- Ledger --
	v.SetDefault("ledger.enabled", false)
	v.SetDefault("ledger.path", "~/.hogflix-traffic/ledger.db")
}

// NewConfigFromViper unmarshals and validates configuration from a viper instance.
// Provisioning credentials are read from the environment separately.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	creds, err := LoadCredentials()
	if err != nil {
		return nil, err
	}
	cfg.CredentialsCfg = creds

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
// Credentials are checked separately by Credentials.Validate since only the
// fleet run needs them.
func (c *Config) Validate() error {
	u, err := url.Parse(c.TargetCfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target.base_url must be an absolute URL")
	}
	if _, err := url.Parse(c.ProvisionerCfg.APIURL); err != nil || c.ProvisionerCfg.APIURL == "" {
		return fmt.Errorf("provisioner.api_url must be a valid URL")
	}
	if c.ProvisionerCfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("provisioner.requests_per_second must be positive")
	}
	if c.ProvisionerCfg.Burst <= 0 {
		return fmt.Errorf("provisioner.burst must be a positive integer")
	}
	switch c.BrowserCfg.Driver {
	case "chromedp", "playwright":
	default:
		return fmt.Errorf("browser.driver must be one of chromedp, playwright (got %q)", c.BrowserCfg.Driver)
	}
	if c.BrowserCfg.DefaultTimeout <= 0 {
		return fmt.Errorf("browser.default_timeout must be positive")
	}
	if c.FleetCfg.MinSessions <= 0 {
		return fmt.Errorf("fleet.min_sessions must be a positive integer")
	}
	if c.FleetCfg.MaxSessions < c.FleetCfg.MinSessions {
		return fmt.Errorf("fleet.max_sessions must be >= fleet.min_sessions")
	}
	if c.FleetCfg.MinDelay < 0 || c.FleetCfg.MaxDelay < c.FleetCfg.MinDelay {
		return fmt.Errorf("fleet.max_delay must be >= fleet.min_delay >= 0")
	}
	if c.TracingCfg.Enabled && c.TracingCfg.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	if c.LedgerCfg.Enabled && c.LedgerCfg.Path == "" {
		return fmt.Errorf("ledger.path is required when the ledger is enabled")
	}
	if err := c.BrowserCfg.Humanoid.Validate(); err != nil {
		return fmt.Errorf("browser.humanoid configuration invalid: %w", err)
	}
	return nil
}
