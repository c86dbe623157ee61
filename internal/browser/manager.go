// File: internal/browser/manager.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/magidevv/authflows/internal/config"
)

const shutdownGracePeriod = 15 * time.Second

// ErrManagerShutdown is returned by NewSession once Shutdown has run on a
// manager that never launched the browser.
var ErrManagerShutdown = errors.New("browser manager is shut down")

// chromeCandidates are the binary names probed when no exec path is configured.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// LocateChrome returns the Chrome binary to launch. A configured path wins;
// otherwise the PATH is searched. ok is false when nothing usable is found.
func LocateChrome(configured string) (path string, ok bool) {
	if configured != "" {
		if p, err := exec.LookPath(configured); err == nil {
			return p, true
		}
		return "", false
	}
	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}

// Manager owns one Chrome process and hands out isolated sessions.
// Each session runs in its own browser context, so cookies and storage never
// leak between scenarios.
type Manager struct {
	cfg    config.Interface
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc

	// slots bounds the number of sessions open at once.
	slots *semaphore.Weighted

	sessions map[string]*Session
	mu       sync.Mutex
	wg       sync.WaitGroup

	initOnce sync.Once
	initErr  error
}

// NewManager creates a browser manager. Chrome is launched lazily by the
// first NewSession call. maxSessions <= 0 means the runner concurrency.
func NewManager(cfg config.Interface, logger *zap.Logger, maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = cfg.Runner().Concurrency
	}
	if maxSessions <= 0 {
		maxSessions = 1
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger.Named("browser_manager"),
		slots:    semaphore.NewWeighted(int64(maxSessions)),
		sessions: make(map[string]*Session),
	}
}

// AllocatorOptions builds the exec allocator flags from the browser config.
func AllocatorOptions(bc config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:0:0], chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("enable-automation", true),
		chromedp.Flag("headless", bc.Headless),
	)
	if bc.WindowWidth > 0 && bc.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(bc.WindowWidth, bc.WindowHeight))
	}
	if bc.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(bc.UserDataDir))
	}
	if path, ok := LocateChrome(bc.ExecPath); ok {
		opts = append(opts, chromedp.ExecPath(path))
	}
	for _, arg := range bc.Args {
		name, value := splitFlag(arg)
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// splitFlag turns "--name=value" or "--name" into a chromedp flag pair.
func splitFlag(arg string) (string, interface{}) {
	for len(arg) > 0 && arg[0] == '-' {
		arg = arg[1:]
	}
	for i := 0; i < len(arg); i++ {
		if arg[i] == '=' {
			return arg[:i], arg[i+1:]
		}
	}
	return arg, true
}

func (m *Manager) initialize() error {
	m.initOnce.Do(func() {
		bc := m.cfg.Browser()
		m.logger.Info("Launching browser.", zap.Bool("headless", bc.Headless))

		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), AllocatorOptions(bc)...)

		var ctxOpts []chromedp.ContextOption
		if bc.Debug {
			sugar := m.logger.Named("cdp").Sugar()
			ctxOpts = append(ctxOpts, chromedp.WithDebugf(sugar.Debugf))
		}
		ctxOpts = append(ctxOpts, chromedp.WithErrorf(m.logger.Named("cdp").Sugar().Debugf))
		m.browserCtx, m.browserStop = chromedp.NewContext(m.allocCtx, ctxOpts...)

		// Running with no actions starts the process and the first tab.
		if err := chromedp.Run(m.browserCtx); err != nil {
			m.browserStop()
			m.allocCancel()
			m.initErr = fmt.Errorf("failed to start browser: %w", err)
			return
		}
		m.logger.Info("Browser started.")
	})
	return m.initErr
}

// NewSession opens a fresh browser context with one tab. It blocks while the
// maximum number of sessions is open.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := m.initialize(); err != nil {
		return nil, err
	}
	if err := m.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a browser slot: %w", err)
	}

	tabCtx, tabCancel := chromedp.NewContext(m.browserCtx, chromedp.WithNewBrowserContext())
	session := newSession(tabCtx, tabCancel, m.cfg, m.logger)

	m.wg.Add(1)
	session.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, session.ID())
		m.mu.Unlock()
		m.slots.Release(1)
		m.wg.Done()
		m.logger.Debug("Session removed from manager.", zap.String("session_id", session.ID()))
	}

	initCtx, cancel := context.WithTimeout(ctx, m.cfg.Browser().NavigationTimeout)
	defer cancel()
	if err := session.RunActions(initCtx); err != nil {
		session.Close(Detach(ctx))
		return nil, fmt.Errorf("failed to open browser context: %w", err)
	}

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Debug("New session created.", zap.String("session_id", session.ID()))
	return session, nil
}

// ActiveSessions reports how many sessions are open.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every open session and then the browser process.
func (m *Manager) Shutdown(ctx context.Context) error {
	// Waits for a launch in progress, and stops any later one.
	m.initOnce.Do(func() { m.initErr = ErrManagerShutdown })
	if m.initErr != nil {
		m.logger.Debug("Browser was never started, nothing to shut down.")
		return nil
	}
	m.logger.Info("Shutting down browser manager.")

	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		go func(s *Session) {
			if err := s.Close(ctx); err != nil {
				m.logger.Warn("Error closing session during shutdown.", zap.String("session_id", s.ID()), zap.Error(err))
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Debug("All sessions closed gracefully.")
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for sessions to close. Proceeding with forceful shutdown.", zap.Error(ctx.Err()))
	}

	// chromedp.Cancel blocks until the process exits, so bound it.
	closed := make(chan error, 1)
	go func() { closed <- chromedp.Cancel(m.browserCtx) }()

	var shutdownErr error
	select {
	case err := <-closed:
		if err != nil && !errors.Is(err, context.Canceled) {
			shutdownErr = fmt.Errorf("failed to close browser: %w", err)
		}
	case <-time.After(shutdownGracePeriod):
		m.logger.Warn("Browser did not exit in time, killing it.", zap.Duration("grace_period", shutdownGracePeriod))
	}
	m.browserStop()
	m.allocCancel()

	m.logger.Info("Browser manager shutdown complete.")
	return shutdownErr
}
