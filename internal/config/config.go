// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Target() TargetConfig
	Assertions() AssertionsConfig
	Runner() RunnerConfig
	FakeApp() FakeAppConfig

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserExecPath(string)

	// Target Setters
	SetTargetApp(string)
	SetTargetBaseURL(string)
	SetTargetCredentials(username, password string)

	// Runner Setters
	SetRunnerConcurrency(int)
	SetRunnerFilter(string)
}

// Supported applications under test. Each one has its own page-object set.
const (
	AppTracker = "tracker"
	AppPortal  = "portal"
)

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	BrowserCfg    BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	TargetCfg     TargetConfig     `mapstructure:"target" yaml:"target"`
	AssertionsCfg AssertionsConfig `mapstructure:"assertions" yaml:"assertions"`
	RunnerCfg     RunnerConfig     `mapstructure:"runner" yaml:"runner"`
	FakeAppCfg    FakeAppConfig    `mapstructure:"fakeapp" yaml:"fakeapp"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig         { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig       { return c.BrowserCfg }
func (c *Config) Target() TargetConfig         { return c.TargetCfg }
func (c *Config) Assertions() AssertionsConfig { return c.AssertionsCfg }
func (c *Config) Runner() RunnerConfig         { return c.RunnerCfg }
func (c *Config) FakeApp() FakeAppConfig       { return c.FakeAppCfg }

// --- Interface Method Implementations (Setters) ---

// Browser Setters
func (c *Config) SetBrowserHeadless(b bool)   { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserExecPath(p string) { c.BrowserCfg.ExecPath = p }

// Target Setters
func (c *Config) SetTargetApp(app string)   { c.TargetCfg.App = app }
func (c *Config) SetTargetBaseURL(u string) { c.TargetCfg.BaseURL = NormalizeBaseURL(u) }
func (c *Config) SetTargetCredentials(username, password string) {
	c.TargetCfg.Username = username
	c.TargetCfg.Password = password
}

// Runner Setters
func (c *Config) SetRunnerConcurrency(n int)     { c.RunnerCfg.Concurrency = n }
func (c *Config) SetRunnerFilter(pattern string) { c.RunnerCfg.Filter = pattern }

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

// BrowserConfig holds settings for the Chrome instance driven by the suite.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	ExecPath          string        `mapstructure:"exec_path" yaml:"exec_path"`
	UserDataDir       string        `mapstructure:"user_data_dir" yaml:"user_data_dir"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	ActionTimeout     time.Duration `mapstructure:"action_timeout" yaml:"action_timeout"`
	Debug             bool          `mapstructure:"debug" yaml:"debug"`
}

// TargetConfig describes the application under test. BaseURL, Username and
// Password are normally supplied through BASE_URL, TEST_USER and TEST_PASSWORD.
type TargetConfig struct {
	App      string `mapstructure:"app" yaml:"app"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Username string `mapstructure:"username" yaml:"-"`
	Password string `mapstructure:"password" yaml:"-"`
	Locale   string `mapstructure:"locale" yaml:"locale"`
}

// AssertionsConfig tunes the polling window of verify-style assertions.
type AssertionsConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	HighlightColor string        `mapstructure:"highlight_color" yaml:"highlight_color"`
}

// RunnerConfig holds settings for the CLI scenario runner.
type RunnerConfig struct {
	Concurrency     int           `mapstructure:"concurrency" yaml:"concurrency"`
	Filter          string        `mapstructure:"filter" yaml:"filter"`
	StartRate       float64       `mapstructure:"start_rate" yaml:"start_rate"`
	ScenarioTimeout time.Duration `mapstructure:"scenario_timeout" yaml:"scenario_timeout"`
}

// FakeAppConfig configures the in-process stand-in for the application under test.
type FakeAppConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Variant  string `mapstructure:"variant" yaml:"variant"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"-"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
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
	v.SetDefault("logger.service_name", "authflows")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.user_data_dir", "")
	v.SetDefault("browser.window_width", 1280)
	v.SetDefault("browser.window_height", 800)
	v.SetDefault("browser.navigation_timeout", "10s")
	v.SetDefault("browser.action_timeout", "5s")
	v.SetDefault("browser.debug", false)

	// -- Target --
	v.SetDefault("target.app", AppTracker)
	v.SetDefault("target.base_url", "")
	v.SetDefault("target.username", "")
	v.SetDefault("target.password", "")
	v.SetDefault("target.locale", "en")

	// -- Assertions --
	v.SetDefault("assertions.timeout", "5s")
	v.SetDefault("assertions.poll_interval", "100ms")
	v.SetDefault("assertions.highlight_color", "rgb(187, 0, 0)")

	// -- Runner --
	v.SetDefault("runner.concurrency", 2)
	v.SetDefault("runner.filter", "")
	v.SetDefault("runner.start_rate", 0.0)
	v.SetDefault("runner.scenario_timeout", "3m")

	// -- Fake application --
	v.SetDefault("fakeapp.addr", "127.0.0.1:8080")
	v.SetDefault("fakeapp.variant", AppTracker)
	v.SetDefault("fakeapp.username", "jsmith")
	v.SetDefault("fakeapp.password", "jsmith-secret")
}

// BindEnv wires the conventional environment variables of the suite into v.
// The unprefixed names are the ones CI pipelines already export.
func BindEnv(v *viper.Viper) {
	v.BindEnv("target.base_url", "AUTHFLOWS_TARGET_BASE_URL", "BASE_URL")
	v.BindEnv("target.username", "AUTHFLOWS_TARGET_USERNAME", "TEST_USER")
	v.BindEnv("target.password", "AUTHFLOWS_TARGET_PASSWORD", "TEST_PASSWORD")
	v.BindEnv("fakeapp.password", "AUTHFLOWS_FAKEAPP_PASSWORD")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	BindEnv(v)

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// A missing base URL is deliberately not an error: the affected
	// scenarios run with an empty value and fail where it is used.
	cfg.TargetCfg.BaseURL = NormalizeBaseURL(cfg.TargetCfg.BaseURL)

	if cfg.LoggerCfg.LogFile != "" {
		expanded, err := homedir.Expand(cfg.LoggerCfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand logger.log_file: %w", err)
		}
		cfg.LoggerCfg.LogFile = expanded
	}
	if cfg.BrowserCfg.ExecPath != "" {
		expanded, err := homedir.Expand(cfg.BrowserCfg.ExecPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand browser.exec_path: %w", err)
		}
		cfg.BrowserCfg.ExecPath = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NormalizeBaseURL gives a host-only URL the trailing slash browsers report
// for it, so URL equality checks compare like with like.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// URL resolves path against the base URL. An empty base URL yields path unchanged.
func (t TargetConfig) URL(path string) string {
	if t.BaseURL == "" {
		return path
	}
	base, err := url.Parse(t.BaseURL)
	if err != nil {
		return t.BaseURL + strings.TrimPrefix(path, "/")
	}
	ref, err := url.Parse(path)
	if err != nil {
		return t.BaseURL + strings.TrimPrefix(path, "/")
	}
	return base.ResolveReference(ref).String()
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.TargetCfg.App != AppTracker && c.TargetCfg.App != AppPortal {
		return fmt.Errorf("target.app must be one of %q or %q, got %q", AppTracker, AppPortal, c.TargetCfg.App)
	}
	if c.BrowserCfg.ActionTimeout <= 0 {
		return fmt.Errorf("browser.action_timeout must be a positive duration")
	}
	if c.BrowserCfg.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if err := c.AssertionsCfg.Validate(); err != nil {
		return fmt.Errorf("assertions configuration invalid: %w", err)
	}
	if err := c.RunnerCfg.Validate(); err != nil {
		return fmt.Errorf("runner configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the polling window.
func (a *AssertionsConfig) Validate() error {
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	if a.PollInterval <= 0 || a.PollInterval > a.Timeout {
		return fmt.Errorf("poll_interval must be positive and not exceed timeout")
	}
	return nil
}

// Validate checks the runner settings.
func (r *RunnerConfig) Validate() error {
	if r.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be a positive integer")
	}
	if r.StartRate < 0 {
		return fmt.Errorf("start_rate must not be negative")
	}
	if r.ScenarioTimeout <= 0 {
		return fmt.Errorf("scenario_timeout must be a positive duration")
	}
	return nil
}
