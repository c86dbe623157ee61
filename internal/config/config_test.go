// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "authflows", cfg.Logger().ServiceName)
	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, 5*time.Second, cfg.Browser().ActionTimeout)
	assert.Equal(t, AppTracker, cfg.Target().App)
	assert.Equal(t, "en", cfg.Target().Locale)
	assert.Empty(t, cfg.Target().BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Assertions().Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Assertions().PollInterval)
	assert.Equal(t, "rgb(187, 0, 0)", cfg.Assertions().HighlightColor)
	assert.Equal(t, 2, cfg.Runner().Concurrency)
	assert.Equal(t, "127.0.0.1:8080", cfg.FakeApp().Addr)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Core Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()
		assert.NoError(t, cfg.Validate(), "A valid config should not produce a validation error")

		badApp := *cfg
		badApp.TargetCfg.App = "wiki"
		err := badApp.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target.app must be one of")

		badTimeout := *cfg
		badTimeout.BrowserCfg.ActionTimeout = 0
		err = badTimeout.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "browser.action_timeout")
	})

	t.Run("Assertions Validation", func(t *testing.T) {
		valid := AssertionsConfig{Timeout: time.Second, PollInterval: 50 * time.Millisecond}
		assert.NoError(t, valid.Validate())

		noTimeout := valid
		noTimeout.Timeout = 0
		assert.Error(t, noTimeout.Validate())

		slowPoll := valid
		slowPoll.PollInterval = 2 * time.Second
		err := slowPoll.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "poll_interval")
	})

	t.Run("Runner Validation", func(t *testing.T) {
		valid := RunnerConfig{Concurrency: 1, ScenarioTimeout: time.Minute}
		assert.NoError(t, valid.Validate())

		zero := valid
		zero.Concurrency = 0
		err := zero.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "concurrency must be a positive integer")

		negativeRate := valid
		negativeRate.StartRate = -1
		assert.Error(t, negativeRate.Validate())
	})
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	yamlConfig := []byte(`
logger:
  level: debug
browser:
  headless: false
  action_timeout: 2s
target:
  app: portal
  base_url: https://portal.example.com
  locale: en
assertions:
  timeout: 3s
  poll_interval: 250ms
runner:
  concurrency: 4
  filter: "^Login"
`)

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

	t.Setenv("TEST_USER", "jsmith")
	t.Setenv("TEST_PASSWORD", "s3cret")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, 2*time.Second, cfg.Browser().ActionTimeout)
	assert.Equal(t, AppPortal, cfg.Target().App)
	assert.Equal(t, "https://portal.example.com/", cfg.Target().BaseURL, "host-only URL gains a trailing slash")
	assert.Equal(t, "jsmith", cfg.Target().Username)
	assert.Equal(t, "s3cret", cfg.Target().Password)
	assert.Equal(t, 3*time.Second, cfg.Assertions().Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Assertions().PollInterval)
	assert.Equal(t, 4, cfg.Runner().Concurrency)
	assert.Equal(t, "^Login", cfg.Runner().Filter)
}

func TestNewConfigFromViper_EnvOverridesFile(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString("target:\n  base_url: https://from-file.example.com\n")))

	t.Setenv("BASE_URL", "http://tracker.local:3000")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "http://tracker.local:3000/", cfg.Target().BaseURL)
}

func TestNewConfigFromViper_MissingBaseURLIsNotAnError(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.Target().BaseURL)
}

func TestNewConfigFromViper_InvalidConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("runner.concurrency", 0)

	_, err := NewConfigFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

// -- Helper Tests --

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"https://example.com", "https://example.com/"},
		{"https://example.com/", "https://example.com/"},
		{"https://example.com/redmine", "https://example.com/redmine"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.in))
		})
	}
}

func TestTargetURL(t *testing.T) {
	target := TargetConfig{BaseURL: "https://example.com/"}
	assert.Equal(t, "https://example.com/login", target.URL("login"))
	assert.Equal(t, "https://example.com/account/register", target.URL("/account/register"))

	empty := TargetConfig{}
	assert.Equal(t, "login", empty.URL("login"))
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.SetBrowserHeadless(false)
	cfg.SetBrowserExecPath("/usr/bin/chromium")
	cfg.SetTargetApp(AppPortal)
	cfg.SetTargetBaseURL("https://example.com")
	cfg.SetRunnerConcurrency(8)
	cfg.SetRunnerFilter("Registration")
	cfg.SetTargetCredentials("jsmith", "hunter22")

	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser().ExecPath)
	assert.Equal(t, AppPortal, cfg.Target().App)
	assert.Equal(t, "https://example.com/", cfg.Target().BaseURL)
	assert.Equal(t, 8, cfg.Runner().Concurrency)
	assert.Equal(t, "Registration", cfg.Runner().Filter)
	assert.Equal(t, "jsmith", cfg.Target().Username)
	assert.Equal(t, "hunter22", cfg.Target().Password)
}
