// File: internal/browser/browser_helper_test.go
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/magidevv/authflows/internal/config"
)

const (
	defaultBrowserTestTimeout = 120 * time.Second
	testCleanupGracePeriod    = 2 * time.Second
	shutdownTimeout           = 15 * time.Second
)

// testFixture is a sandboxed browser: one manager, one session, one page.
type testFixture struct {
	Config  *config.Config
	Manager *Manager
	Session *Session
	Page    *Page
	Logger  *zap.Logger
	// RootCtx is bound to the test deadline.
	RootCtx context.Context
}

// requireChrome skips the test when no Chrome binary is available.
func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped in -short mode")
	}
	if _, ok := LocateChrome(""); !ok {
		t.Skip("no Chrome or Chromium binary found on PATH")
	}
}

// createTestConfig returns a configuration tuned for fast local runs.
func createTestConfig(t *testing.T) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.BrowserCfg.Headless = true
	cfg.BrowserCfg.UserDataDir = t.TempDir()
	cfg.BrowserCfg.ActionTimeout = 3 * time.Second
	cfg.BrowserCfg.NavigationTimeout = 15 * time.Second
	cfg.AssertionsCfg.Timeout = 2 * time.Second
	cfg.AssertionsCfg.PollInterval = 50 * time.Millisecond
	return cfg
}

// newTestFixture launches an isolated browser, opens a session and points
// the page at server.
func newTestFixture(t *testing.T, server *httptest.Server) *testFixture {
	t.Helper()
	requireChrome(t)

	logger := zaptest.NewLogger(t).With(zap.String("test", t.Name()))

	deadline, ok := t.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultBrowserTestTimeout)
	}
	rootCtx, rootCancel := context.WithDeadline(context.Background(), deadline.Add(-testCleanupGracePeriod))
	t.Cleanup(rootCancel)

	cfg := createTestConfig(t)
	if server != nil {
		cfg.SetTargetBaseURL(server.URL)
	}

	manager := NewManager(cfg, logger, 2)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			t.Logf("Warning: error during browser manager shutdown: %v", err)
		}
	})

	session, err := manager.NewSession(rootCtx)
	require.NoError(t, err, "failed to open a browser session")
	t.Cleanup(func() { _ = session.Close(context.Background()) })

	return &testFixture{
		Config:  cfg,
		Manager: manager,
		Session: session,
		Page:    NewPage(session, OptionsFromConfig(cfg)),
		Logger:  logger,
		RootCtx: rootCtx,
	}
}

// createStaticTestServer serves html at every path.
func createStaticTestServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return createTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
}

func createTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}
