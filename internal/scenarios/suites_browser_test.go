package scenarios

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
	"github.com/magidevv/authflows/internal/fakeapp"
	"github.com/magidevv/authflows/internal/fixtures"
)

func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped in -short mode")
	}
	if _, ok := browser.LocateChrome(""); !ok {
		t.Skip("no Chrome or Chromium binary found on PATH")
	}
}

// startApp serves the fake application for variant and returns a config
// pointing the suites at it.
func startApp(t *testing.T, variant string) (*config.Config, *fakeapp.Server) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.BrowserCfg.UserDataDir = t.TempDir()
	cfg.AssertionsCfg.Timeout = 3 * time.Second
	cfg.AssertionsCfg.PollInterval = 50 * time.Millisecond

	appCfg := cfg.FakeApp()
	appCfg.Variant = variant
	srv, err := fakeapp.New(appCfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg.SetTargetApp(variant)
	cfg.SetTargetBaseURL(ts.URL)
	cfg.SetTargetCredentials(appCfg.Username, appCfg.Password)
	return cfg, srv
}

func newManager(t *testing.T, cfg config.Interface, logger *zap.Logger) *browser.Manager {
	t.Helper()
	m := browser.NewManager(cfg, logger, cfg.Runner().Concurrency)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func runAgainstFakeApp(t *testing.T, variant string, entries []Entry) {
	requireChrome(t)
	cfg, _ := startApp(t, variant)
	logger := zaptest.NewLogger(t)

	r := NewRunner(cfg, newManager(t, cfg, logger), logger, Filter{})
	results, err := r.Run(context.Background(), entries)
	require.NoError(t, err)

	var buf bytes.Buffer
	results.Print(&buf)
	t.Log("\n" + buf.String())

	passed, failed, skipped := results.Counts()
	assert.Zero(t, failed)
	assert.Zero(t, skipped)
	assert.Equal(t, len(entries), passed)
}

func TestTrackerSuites_FakeApp(t *testing.T) {
	runAgainstFakeApp(t, config.AppTracker, TrackerEntries())
}

func TestPortalSuite_FakeApp(t *testing.T) {
	runAgainstFakeApp(t, config.AppPortal, PortalEntries())
}

func TestTeardownIsIdempotent(t *testing.T) {
	requireChrome(t)
	cfg, _ := startApp(t, config.AppTracker)
	logger := zaptest.NewLogger(t)
	m := newManager(t, cfg, logger)

	res := RunEntry(context.Background(), cfg, m, logger, Entry{
		ID:  ID{Suite: "Teardown", Name: "logout twice"},
		App: config.AppTracker,
		run: func(s *Scenario) {
			f := fixtures.NewTracker(s.Page())
			openMainPage(s, f)
			logInAsTestUser(s, f)
			logoutIfLoggedIn(s, f)
			// Already logged out: the second teardown must be a no-op.
			logoutIfLoggedIn(s, f)
		},
	})
	require.NoError(t, res.Err())
}
