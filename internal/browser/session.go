// File: internal/browser/session.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/config"
)

// Session is one isolated browser context with a single tab.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.Interface
	logger *zap.Logger

	// acceptDialog arms a one-shot handler for the next JavaScript dialog.
	acceptDialog atomic.Bool
	listenOnce   sync.Once

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

func newSession(ctx context.Context, cancel context.CancelFunc, cfg config.Interface, logger *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.Named("session").With(zap.String("session_id", id)),
	}
}

// NewSessionFromContext wraps an existing chromedp context. The caller keeps
// ownership of the allocator; cancel is invoked on Close.
func NewSessionFromContext(ctx context.Context, cancel context.CancelFunc, cfg config.Interface, logger *zap.Logger) *Session {
	return newSession(ctx, cancel, cfg, logger)
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string { return s.id }

// Context returns the chromedp context bound to the session's tab.
func (s *Session) Context() context.Context { return s.ctx }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// RunActions executes actions on the session's tab, bounded by ctx.
// When either context is done the error returned is the context error.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if cerr := contextErr(ctx, s.ctx); cerr != nil {
			return cerr
		}
		return err
	}
	return nil
}

// Evaluate runs a JavaScript expression and decodes its JSON result into res.
func (s *Session) Evaluate(ctx context.Context, expression string, res interface{}) error {
	var raw json.RawMessage
	err := s.RunActions(ctx, chromedp.Evaluate(expression, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true)
	}))
	if err != nil {
		return err
	}
	if res == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return fmt.Errorf("failed to decode script result %s: %w", truncate(string(raw), 200), err)
	}
	return nil
}

// AcceptNextDialog arranges for the next alert, confirm or prompt to be accepted.
func (s *Session) AcceptNextDialog() {
	s.listenOnce.Do(func() {
		chromedp.ListenTarget(s.ctx, func(ev interface{}) {
			if _, ok := ev.(*page.EventJavascriptDialogOpening); !ok {
				return
			}
			if !s.acceptDialog.CompareAndSwap(true, false) {
				return
			}
			// Event handlers must not block; the reply goes out on its own goroutine.
			go func() {
				if err := chromedp.Run(s.ctx, page.HandleJavaScriptDialog(true)); err != nil {
					s.logger.Debug("Failed to accept dialog.", zap.Error(err))
				}
			}()
		})
	})
	s.acceptDialog.Store(true)
}

// Close disposes the browser context. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	if s.cancel != nil {
		s.cancel()
	}
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
