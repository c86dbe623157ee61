// File: internal/browser/page.go
package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/config"
)

// DefaultNavigationTimeout bounds page loads when no timeout is configured.
const DefaultNavigationTimeout = 10 * time.Second

// Options tune a Page.
type Options struct {
	BaseURL           string
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	AssertTimeout     time.Duration
	PollInterval      time.Duration
}

// OptionsFromConfig extracts page options from the application config.
func OptionsFromConfig(cfg config.Interface) Options {
	return Options{
		BaseURL:           cfg.Target().BaseURL,
		NavigationTimeout: cfg.Browser().NavigationTimeout,
		ActionTimeout:     cfg.Browser().ActionTimeout,
		AssertTimeout:     cfg.Assertions().Timeout,
		PollInterval:      cfg.Assertions().PollInterval,
	}
}

func (o Options) withDefaults() Options {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = DefaultPollTimeout
	}
	if o.AssertTimeout <= 0 {
		o.AssertTimeout = DefaultPollTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

// Page is the one-shot interaction surface over a session's tab. Every
// selector-taking method builds a fresh Locator, so nothing is cached between calls.
type Page struct {
	session *Session
	opts    Options
	logger  *zap.Logger
}

// NewPage binds a Page to session.
func NewPage(session *Session, opts Options) *Page {
	return &Page{
		session: session,
		opts:    opts.withDefaults(),
		logger:  session.Logger().Named("page"),
	}
}

// Session returns the underlying session.
func (p *Page) Session() *Session { return p.session }

// Options returns the effective options.
func (p *Page) Options() Options { return p.opts }

// Logger returns the page logger.
func (p *Page) Logger() *zap.Logger { return p.logger }

// URL resolves path against the base URL. Absolute URLs are returned unchanged.
func (p *Page) URL(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return config.TargetConfig{BaseURL: p.opts.BaseURL}.URL(path)
}

// Locator returns a lazy locator for sel.
func (p *Page) Locator(sel string) *Locator {
	return &Locator{page: p, selector: sel}
}

// LocatorByText returns a lazy locator for the elements matching sel whose text contains text.
func (p *Page) LocatorByText(sel, text string) *Locator {
	return &Locator{page: p, selector: sel, hasText: text}
}

// -- Navigation --

// Navigate loads path, resolved against the base URL, and waits for the load event.
func (p *Page) Navigate(ctx context.Context, path string) error {
	target := p.URL(path)
	p.logger.Info("Navigating.", zap.String("url", target))
	return p.navigation(ctx, "navigation to "+target, chromedp.Navigate(target))
}

// GoBack navigates one entry back in history.
func (p *Page) GoBack(ctx context.Context) error {
	return p.navigation(ctx, "go back", chromedp.NavigateBack())
}

// Reload reloads the current document.
func (p *Page) Reload(ctx context.Context) error {
	return p.navigation(ctx, "reload", chromedp.Reload())
}

func (p *Page) navigation(ctx context.Context, op string, action chromedp.Action) error {
	timeout := p.opts.NavigationTimeout
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.session.RunActions(navCtx, action); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s canceled: %w", op, ctx.Err())
		}
		if navCtx.Err() == context.DeadlineExceeded {
			return &TimeoutError{Op: op, Timeout: timeout}
		}
		return fmt.Errorf("%s failed: %w", op, err)
	}
	return nil
}

// CurrentURL returns the address of the loaded document.
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := p.session.RunActions(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read current url: %w", err)
	}
	return loc, nil
}

// -- Actions --

func (p *Page) Click(ctx context.Context, sel string) error {
	return p.Locator(sel).Click(ctx)
}

// ClickByText clicks the first element matching sel whose text contains text.
func (p *Page) ClickByText(ctx context.Context, sel, text string) error {
	return p.LocatorByText(sel, text).Click(ctx)
}

func (p *Page) ForceClick(ctx context.Context, sel string) error {
	return p.Locator(sel).ForceClick(ctx)
}

func (p *Page) DoubleClick(ctx context.Context, sel string) error {
	return p.Locator(sel).DoubleClick(ctx)
}

// ClickAndWaitForNavigation clicks sel and waits until the current document
// has been replaced by a new one that finished loading. Use it for submits and
// links whose result is read right away, so a check cannot pass against the
// page that is being left.
func (p *Page) ClickAndWaitForNavigation(ctx context.Context, sel string) error {
	token := uuid.NewString()
	if err := p.session.Evaluate(ctx, fmt.Sprintf(`window.%s = %s`, documentMarker, jsonEncode(token)), nil); err != nil {
		return fmt.Errorf("failed to mark current document: %w", err)
	}
	if err := p.Click(ctx, sel); err != nil {
		return err
	}
	return Poll(ctx, PollOptions{
		Op:       "wait for navigation",
		Selector: sel,
		Timeout:  p.opts.NavigationTimeout,
		Interval: p.opts.PollInterval,
	}, func(pollCtx context.Context) error {
		var state struct {
			Marker string `json:"marker"`
			Ready  string `json:"ready"`
		}
		script := fmt.Sprintf(`({marker: window.%s || "", ready: document.readyState})`, documentMarker)
		if err := p.session.Evaluate(pollCtx, script, &state); err != nil {
			// The execution context disappears while the next document loads.
			return err
		}
		if state.Marker == token {
			return &AssertionError{What: "navigation", Selector: sel, Expected: "a new document", Actual: "the same document"}
		}
		if state.Ready != "complete" {
			return &AssertionError{What: "ready state", Selector: sel, Expected: `"complete"`, Actual: state.Ready}
		}
		return nil
	})
}

// ClickAtOffset clicks at fractions of the element's width and height from its top-left corner.
func (p *Page) ClickAtOffset(ctx context.Context, sel string, fracX, fracY float64) error {
	return p.Locator(sel).ClickAt(ctx, fracX, fracY)
}

// ClickFirstEnabled clicks the first element matching sel and text whose
// aria-disabled attribute is exactly "false". It does nothing when no match qualifies.
func (p *Page) ClickFirstEnabled(ctx context.Context, sel, text string) error {
	loc := p.LocatorByText(sel, text)
	token := uuid.NewString()
	var found bool
	if err := p.session.Evaluate(ctx, firstEnabledQuery(loc, token), &found); err != nil {
		return fmt.Errorf("click first enabled on %q failed: %w", loc.String(), err)
	}
	if !found {
		p.logger.Debug("No enabled element to click.", zap.String("selector", loc.String()))
		return nil
	}
	return p.Locator(handleSelector(token)).Click(ctx)
}

func (p *Page) Hover(ctx context.Context, sel string, force bool) error {
	return p.Locator(sel).Hover(ctx, force)
}

func (p *Page) Fill(ctx context.Context, sel, text string) error {
	return p.Locator(sel).Fill(ctx, text)
}

func (p *Page) Clear(ctx context.Context, sel string) error {
	return p.Locator(sel).Clear(ctx)
}

func (p *Page) UploadFile(ctx context.Context, sel, path string) error {
	return p.Locator(sel).UploadFile(ctx, path)
}

func (p *Page) Check(ctx context.Context, sel string) error {
	return p.Locator(sel).Check(ctx)
}

func (p *Page) SelectOption(ctx context.Context, sel, value string) error {
	return p.Locator(sel).SelectOption(ctx, value)
}

// -- Queries --

func (p *Page) IsVisible(ctx context.Context, sel string) (bool, error) {
	return p.Locator(sel).IsVisible(ctx)
}

func (p *Page) IsHidden(ctx context.Context, sel string) (bool, error) {
	return p.Locator(sel).IsHidden(ctx)
}

func (p *Page) IsEnabled(ctx context.Context, sel string) (bool, error) {
	return p.Locator(sel).IsEnabled(ctx)
}

func (p *Page) IsDisabled(ctx context.Context, sel string) (bool, error) {
	return p.Locator(sel).IsDisabled(ctx)
}

func (p *Page) IsChecked(ctx context.Context, sel string) (bool, error) {
	return p.Locator(sel).IsChecked(ctx)
}

func (p *Page) HasText(ctx context.Context, sel, text string) (bool, error) {
	return p.Locator(sel).HasText(ctx, text)
}

func (p *Page) TextContent(ctx context.Context, sel string) (string, error) {
	return p.Locator(sel).TextContent(ctx)
}

// -- Waiting --

// Wait sleeps for d or until ctx is done.
func (p *Page) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitForLoad waits until the document reports readyState "complete".
func (p *Page) WaitForLoad(ctx context.Context) error {
	return Poll(ctx, PollOptions{
		Op:       "wait for load",
		Timeout:  p.opts.NavigationTimeout,
		Interval: p.opts.PollInterval,
	}, func(pollCtx context.Context) error {
		var state string
		if err := p.session.Evaluate(pollCtx, `document.readyState`, &state); err != nil {
			return err
		}
		if state != "complete" {
			return &AssertionError{What: "ready state", Expected: `"complete"`, Actual: state}
		}
		return nil
	})
}

// AcceptNextDialog accepts the next JavaScript dialog the page opens.
func (p *Page) AcceptNextDialog() {
	p.session.AcceptNextDialog()
}

// Expect returns a Verifier over this page using the configured assertion window.
func (p *Page) Expect() *Verifier {
	return NewVerifier(p)
}
