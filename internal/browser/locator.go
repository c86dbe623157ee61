// File: internal/browser/locator.go
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Locator is a lazy description of an element: a CSS selector, an optional
// text filter and an index into the matches. Nothing is looked up until an
// action or query runs, and every run looks the element up again.
type Locator struct {
	page     *Page
	selector string
	hasText  string
	nth      int
}

// Filter narrows the matches to elements whose text contains text.
func (l *Locator) Filter(text string) *Locator {
	c := *l
	c.hasText = text
	return &c
}

// Nth selects the i-th match. Negative values count from the end.
func (l *Locator) Nth(i int) *Locator {
	c := *l
	c.nth = i
	return &c
}

// First selects the first match.
func (l *Locator) First() *Locator { return l.Nth(0) }

// Last selects the last match.
func (l *Locator) Last() *Locator { return l.Nth(-1) }

// Selector returns the underlying CSS selector.
func (l *Locator) Selector() string { return l.selector }

func (l *Locator) String() string {
	desc := l.selector
	if l.hasText != "" {
		desc += fmt.Sprintf(" >> has-text=%q", l.hasText)
	}
	if l.nth != 0 {
		desc += fmt.Sprintf(" >> nth=%d", l.nth)
	}
	return desc
}

type elementResult struct {
	State string          `json:"state"`
	Error string          `json:"error"`
	Count int             `json:"count"`
	Value json.RawMessage `json:"value"`
}

// evalOnce applies body to the element if it is attached right now.
// It reports ErrElementNotFound when there is no match.
func (l *Locator) evalOnce(ctx context.Context, body string, res interface{}) error {
	var r elementResult
	if err := l.page.session.Evaluate(ctx, elementQuery(l, body), &r); err != nil {
		return err
	}
	switch r.State {
	case "invalid":
		return Permanent(fmt.Errorf("invalid selector %q: %s", l.selector, r.Error))
	case "found":
		if res == nil {
			return nil
		}
		if err := json.Unmarshal(r.Value, res); err != nil {
			return Permanent(fmt.Errorf("failed to decode element value: %w", err))
		}
		return nil
	default:
		return ErrElementNotFound
	}
}

// eval waits for the element to attach and then applies body to it.
func (l *Locator) eval(ctx context.Context, op string, body string, res interface{}) error {
	return Poll(ctx, PollOptions{
		Op:       op,
		Selector: l.String(),
		Timeout:  l.page.opts.ActionTimeout,
		Interval: l.page.opts.PollInterval,
	}, func(pollCtx context.Context) error {
		return l.evalOnce(pollCtx, body, res)
	})
}

// resolve waits for the element and returns a selector addressing only it.
func (l *Locator) resolve(ctx context.Context, op string) (string, error) {
	token := uuid.NewString()
	if err := l.eval(ctx, op, stampBody(token), nil); err != nil {
		return "", err
	}
	return handleSelector(token), nil
}

// act resolves the element and runs fn against it within the action timeout.
func (l *Locator) act(ctx context.Context, op string, fn func(ctx context.Context, handle string) error) error {
	handle, err := l.resolve(ctx, op)
	if err != nil {
		return err
	}

	timeout := l.page.opts.ActionTimeout
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	l.page.logger.Debug("Performing action.", zap.String("op", op), zap.String("selector", l.String()))
	if err := fn(opCtx, handle); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s on %q canceled: %w", op, l.String(), ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Op: op, Selector: l.String(), Timeout: timeout}
		}
		return fmt.Errorf("%s on %q failed: %w", op, l.String(), err)
	}
	return nil
}

// -- Actions --

// Click waits for the element to be visible and clicks its center.
func (l *Locator) Click(ctx context.Context) error {
	return l.act(ctx, "click", func(ctx context.Context, handle string) error {
		return l.page.session.RunActions(ctx, chromedp.Click(handle, chromedp.ByQuery))
	})
}

// ForceClick dispatches a click without waiting for visibility.
func (l *Locator) ForceClick(ctx context.Context) error {
	return l.eval(ctx, "force click", jsForceClick, nil)
}

// DoubleClick waits for the element to be visible and double-clicks it.
func (l *Locator) DoubleClick(ctx context.Context) error {
	return l.act(ctx, "double click", func(ctx context.Context, handle string) error {
		return l.page.session.RunActions(ctx, chromedp.DoubleClick(handle, chromedp.ByQuery))
	})
}

type box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ClickAt clicks the point at fractions (fracX, fracY) of the element's box,
// measured from its top-left corner. (0.5, 0.5) is the center.
func (l *Locator) ClickAt(ctx context.Context, fracX, fracY float64) error {
	if err := l.waitVisible(ctx, "click at offset"); err != nil {
		return err
	}
	var b box
	if err := l.eval(ctx, "click at offset", jsCenter, &b); err != nil {
		return err
	}
	x := b.X + b.Width*fracX
	y := b.Y + b.Height*fracY
	l.page.logger.Debug("Clicking at offset.", zap.String("selector", l.String()), zap.Float64("x", x), zap.Float64("y", y))
	return l.page.session.RunActions(ctx, chromedp.MouseClickXY(x, y))
}

// Hover moves the pointer over the element. With force the hover events are
// dispatched directly and visibility is not required.
func (l *Locator) Hover(ctx context.Context, force bool) error {
	if force {
		return l.eval(ctx, "force hover", jsForceHover, nil)
	}
	if err := l.waitVisible(ctx, "hover"); err != nil {
		return err
	}
	var b box
	if err := l.eval(ctx, "hover", jsCenter, &b); err != nil {
		return err
	}
	x, y := b.X+b.Width/2, b.Y+b.Height/2
	return l.page.session.RunActions(ctx, chromedp.MouseEvent(input.MouseMoved, x, y))
}

// Fill replaces the element's value with text by typing it.
func (l *Locator) Fill(ctx context.Context, text string) error {
	return l.act(ctx, "fill", func(ctx context.Context, handle string) error {
		actions := []chromedp.Action{
			chromedp.WaitVisible(handle, chromedp.ByQuery),
			chromedp.Evaluate(fmt.Sprintf(`(%s)(document.querySelector(%s))`, jsClear, jsonEncode(handle)), nil),
		}
		if text != "" {
			actions = append(actions, chromedp.SendKeys(handle, text, chromedp.ByQuery))
		}
		return l.page.session.RunActions(ctx, actions...)
	})
}

// Clear empties the element's value.
func (l *Locator) Clear(ctx context.Context) error {
	return l.eval(ctx, "clear", jsClear, nil)
}

// UploadFile sets the files of a file input.
func (l *Locator) UploadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid upload path %q: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("upload file unavailable: %w", err)
	}
	return l.act(ctx, "upload file", func(ctx context.Context, handle string) error {
		return l.page.session.RunActions(ctx, chromedp.SetUploadFiles(handle, []string{abs}, chromedp.ByQuery))
	})
}

// Check ticks a checkbox if it is not ticked already.
func (l *Locator) Check(ctx context.Context) error {
	checked, err := l.IsChecked(ctx)
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	if err := l.Click(ctx); err != nil {
		return err
	}
	if checked, err = l.IsChecked(ctx); err != nil {
		return err
	}
	if !checked {
		return &AssertionError{What: "checked state", Selector: l.String(), Expected: "true", Actual: "false"}
	}
	return nil
}

// SelectOption chooses the option whose value or label equals value.
func (l *Locator) SelectOption(ctx context.Context, value string) error {
	var ok bool
	if err := l.eval(ctx, "select option", selectBody(value), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("select option on %q: no option %q", l.String(), value)
	}
	return nil
}

// -- Queries --

// IsVisible reports whether the element is rendered right now. It does not wait.
func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	var visible bool
	err := l.evalOnce(ctx, jsVisible, &visible)
	if errors.Is(err, ErrElementNotFound) {
		return false, nil
	}
	var perm *permanentError
	if errors.As(err, &perm) {
		return false, perm.err
	}
	return visible, err
}

// IsHidden is the negation of IsVisible.
func (l *Locator) IsHidden(ctx context.Context) (bool, error) {
	visible, err := l.IsVisible(ctx)
	return !visible, err
}

// IsEnabled waits for the element and reports whether it accepts input.
func (l *Locator) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := l.eval(ctx, "is enabled", jsEnabled, &enabled)
	return enabled, err
}

// IsDisabled is the negation of IsEnabled.
func (l *Locator) IsDisabled(ctx context.Context) (bool, error) {
	enabled, err := l.IsEnabled(ctx)
	return !enabled, err
}

// IsChecked waits for the element and reports its checked state.
func (l *Locator) IsChecked(ctx context.Context) (bool, error) {
	var checked bool
	err := l.eval(ctx, "is checked", jsChecked, &checked)
	return checked, err
}

// TextContent waits for the element and returns its raw text content.
func (l *Locator) TextContent(ctx context.Context) (string, error) {
	var text string
	err := l.eval(ctx, "text content", jsTextContent, &text)
	return text, err
}

// HasText waits for the element and reports whether its text contains text.
func (l *Locator) HasText(ctx context.Context, text string) (bool, error) {
	content, err := l.TextContent(ctx)
	if err != nil {
		return false, err
	}
	return containsNormalized(content, text), nil
}

// Value waits for the element and returns its current form value.
func (l *Locator) Value(ctx context.Context) (string, error) {
	var v string
	err := l.eval(ctx, "value", jsValue, &v)
	return v, err
}

// Attribute waits for the element and returns the named attribute. ok is
// false when the attribute is absent.
func (l *Locator) Attribute(ctx context.Context, name string) (value string, ok bool, err error) {
	var v *string
	if err := l.eval(ctx, "attribute", attributeBody(name), &v); err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// CSS waits for the element and returns a computed style property.
func (l *Locator) CSS(ctx context.Context, property string) (string, error) {
	var v string
	err := l.eval(ctx, "css", cssBody(property), &v)
	return v, err
}

// Count returns the number of matches right now. It does not wait.
func (l *Locator) Count(ctx context.Context) (int, error) {
	var r elementResult
	if err := l.page.session.Evaluate(ctx, listQuery(l, jsVisible), &r); err != nil {
		return 0, err
	}
	if r.State == "invalid" {
		return 0, fmt.Errorf("invalid selector %q: %s", l.selector, r.Error)
	}
	return r.Count, nil
}

// AllTextContents returns the text of every match, in document order. It does not wait.
func (l *Locator) AllTextContents(ctx context.Context) ([]string, error) {
	var r elementResult
	if err := l.page.session.Evaluate(ctx, listQuery(l, jsTextContent), &r); err != nil {
		return nil, err
	}
	if r.State == "invalid" {
		return nil, fmt.Errorf("invalid selector %q: %s", l.selector, r.Error)
	}
	var texts []string
	if err := json.Unmarshal(r.Value, &texts); err != nil {
		return nil, fmt.Errorf("failed to decode text contents: %w", err)
	}
	return texts, nil
}

// WaitFor polls until the element's visibility equals visible.
func (l *Locator) WaitFor(ctx context.Context, visible bool, timeout time.Duration) error {
	state := "visible"
	if !visible {
		state = "hidden"
	}
	if timeout <= 0 {
		timeout = l.page.opts.ActionTimeout
	}
	return Poll(ctx, PollOptions{
		Op:       "wait for " + state,
		Selector: l.String(),
		Timeout:  timeout,
		Interval: l.page.opts.PollInterval,
	}, func(pollCtx context.Context) error {
		got, err := l.IsVisible(pollCtx)
		if err != nil {
			return err
		}
		if got != visible {
			actual := "hidden"
			if got {
				actual = "visible"
			}
			return &AssertionError{What: "visibility", Selector: l.String(), Expected: state, Actual: actual}
		}
		return nil
	})
}

func (l *Locator) waitVisible(ctx context.Context, op string) error {
	err := l.WaitFor(ctx, true, 0)
	var te *TimeoutError
	if errors.As(err, &te) {
		te.Op = op
		countCtx, cancel := context.WithTimeout(Detach(ctx), time.Second)
		defer cancel()
		if count, cerr := l.Count(countCtx); cerr == nil && count == 0 {
			te.Last = ErrElementNotFound
		}
	}
	return err
}
