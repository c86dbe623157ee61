package scenarios

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
)

// fakeSessions hands out sessions that are not attached to any browser.
// Scenarios under test never touch the page, so nothing reaches Chrome.
type fakeSessions struct {
	cfg    config.Interface
	logger *zap.Logger
	err    error

	opened atomic.Int32
	closed atomic.Int32
}

func newFakeSessions(t *testing.T, cfg config.Interface) *fakeSessions {
	return &fakeSessions{cfg: cfg, logger: zaptest.NewLogger(t)}
}

func (f *fakeSessions) NewSession(ctx context.Context) (*browser.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.opened.Add(1)
	sessCtx, cancel := context.WithCancel(context.Background())
	return browser.NewSessionFromContext(sessCtx, func() {
		f.closed.Add(1)
		cancel()
	}, f.cfg, f.logger), nil
}

var errBoom = errors.New("boom")

// newTestScenario builds a scenario over a detached page.
func newTestScenario(t *testing.T) *Scenario {
	t.Helper()
	cfg := config.NewDefaultConfig()
	logger := zaptest.NewLogger(t)
	session := browser.NewSessionFromContext(context.Background(), nil, cfg, logger)
	page := browser.NewPage(session, browser.OptionsFromConfig(cfg))
	return newScenario(context.Background(), ID{Suite: "Unit", Name: t.Name()}, cfg, page, logger)
}

// recorder collects the order in which hooks and steps ran.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
