// File: internal/browser/verify.go
package browser

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Matcher decides whether an observed string is acceptable.
type Matcher interface {
	Match(actual string) bool
	String() string
}

type exactMatcher string

func (m exactMatcher) Match(actual string) bool { return normalizeSpace(actual) == normalizeSpace(string(m)) }
func (m exactMatcher) String() string           { return fmt.Sprintf("%q", string(m)) }

type containsMatcher string

func (m containsMatcher) Match(actual string) bool { return containsNormalized(actual, string(m)) }
func (m containsMatcher) String() string           { return fmt.Sprintf("text containing %q", string(m)) }

type regexpMatcher struct{ re *regexp.Regexp }

func (m regexpMatcher) Match(actual string) bool { return m.re.MatchString(actual) }
func (m regexpMatcher) String() string           { return fmt.Sprintf("match for /%s/", m.re.String()) }

// Exact matches the whole string, ignoring runs of whitespace and surrounding space.
func Exact(s string) Matcher { return exactMatcher(s) }

// Contains matches any string that contains s, with whitespace normalized.
func Contains(s string) Matcher { return containsMatcher(s) }

// Matches matches strings accepted by re.
func Matches(re *regexp.Regexp) Matcher { return regexpMatcher{re: re} }

// MatchesPattern compiles expr and matches with it. It panics on a bad pattern.
func MatchesPattern(expr string) Matcher { return regexpMatcher{re: regexp.MustCompile(expr)} }

var spaceRun = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func containsNormalized(haystack, needle string) bool {
	return strings.Contains(normalizeSpace(haystack), normalizeSpace(needle))
}

// Verifier is the assertion-style surface. Every check is retried at a fixed
// interval until it holds or the window closes, at which point a
// *TimeoutError wrapping the last *AssertionError is returned.
type Verifier struct {
	page     *Page
	timeout  time.Duration
	interval time.Duration
	logger   *zap.Logger
}

// NewVerifier creates a verifier using the page's assertion window.
func NewVerifier(p *Page) *Verifier {
	return &Verifier{
		page:     p,
		timeout:  p.opts.AssertTimeout,
		interval: p.opts.PollInterval,
		logger:   p.logger.Named("verify"),
	}
}

// WithTimeout returns a copy of the verifier that waits up to d.
func (v *Verifier) WithTimeout(d time.Duration) *Verifier {
	c := *v
	if d > 0 {
		c.timeout = d
	}
	return &c
}

// Page returns the page being verified.
func (v *Verifier) Page() *Page { return v.page }

func (v *Verifier) poll(ctx context.Context, op, sel string, timeout time.Duration, check func(context.Context) error) error {
	if timeout <= 0 {
		timeout = v.timeout
	}
	err := Poll(ctx, PollOptions{Op: op, Selector: sel, Timeout: timeout, Interval: v.interval}, check)
	if err != nil {
		v.logger.Debug("Verification failed.", zap.String("op", op), zap.String("selector", sel), zap.Error(err))
		return err
	}
	v.logger.Debug("Verification passed.", zap.String("op", op), zap.String("selector", sel))
	return nil
}

// VerifyURL waits for the current URL to satisfy m.
func (v *Verifier) VerifyURL(ctx context.Context, m Matcher) error {
	return v.poll(ctx, "verify url", "", 0, func(pollCtx context.Context) error {
		current, err := v.page.CurrentURL(pollCtx)
		if err != nil {
			return err
		}
		if !m.Match(current) {
			return &AssertionError{What: "url", Expected: m.String(), Actual: current}
		}
		return nil
	})
}

// VerifyVisible waits for sel to become visible, or hidden when visible is false.
// A zero timeout uses the verifier's window.
func (v *Verifier) VerifyVisible(ctx context.Context, sel string, visible bool, timeout time.Duration) error {
	loc := v.page.Locator(sel)
	want := "visible"
	if !visible {
		want = "hidden"
	}
	return v.poll(ctx, "verify "+want, sel, timeout, func(pollCtx context.Context) error {
		got, err := loc.IsVisible(pollCtx)
		if err != nil {
			return err
		}
		if got != visible {
			actual := "hidden"
			if got {
				actual = "visible"
			}
			return &AssertionError{What: "visibility", Selector: sel, Expected: want, Actual: actual}
		}
		return nil
	})
}

// VerifyText waits for the text of sel to satisfy m, or to stop satisfying it
// when shouldMatch is false.
func (v *Verifier) VerifyText(ctx context.Context, sel string, m Matcher, shouldMatch bool) error {
	loc := v.page.Locator(sel)
	expected := m.String()
	if !shouldMatch {
		expected = "not " + expected
	}
	return v.poll(ctx, "verify text", sel, 0, func(pollCtx context.Context) error {
		var text string
		if err := loc.evalOnce(pollCtx, jsTextContent, &text); err != nil {
			return err
		}
		if m.Match(text) != shouldMatch {
			return &AssertionError{What: "text", Selector: sel, Expected: expected, Actual: normalizeSpace(text)}
		}
		return nil
	})
}

// VerifyContainsText waits for the text of sel to contain text.
func (v *Verifier) VerifyContainsText(ctx context.Context, sel, text string) error {
	return v.VerifyText(ctx, sel, Contains(text), true)
}

// VerifyTexts waits for the texts of all matches of sel to equal want, in order.
func (v *Verifier) VerifyTexts(ctx context.Context, sel string, want []string) error {
	loc := v.page.Locator(sel)
	normalizedWant := make([]string, len(want))
	for i, w := range want {
		normalizedWant[i] = normalizeSpace(w)
	}
	return v.poll(ctx, "verify texts", sel, 0, func(pollCtx context.Context) error {
		texts, err := loc.AllTextContents(pollCtx)
		if err != nil {
			return err
		}
		got := make([]string, len(texts))
		for i, t := range texts {
			got[i] = normalizeSpace(t)
		}
		if !slices.Equal(got, normalizedWant) {
			return &AssertionError{What: "texts", Selector: sel, Expected: fmt.Sprintf("%q", normalizedWant), Actual: fmt.Sprintf("%q", got)}
		}
		return nil
	})
}

// VerifyAttribute waits for attribute name of sel to equal want.
func (v *Verifier) VerifyAttribute(ctx context.Context, sel, name, want string) error {
	loc := v.page.Locator(sel)
	return v.poll(ctx, "verify attribute", sel, 0, func(pollCtx context.Context) error {
		var got *string
		if err := loc.evalOnce(pollCtx, attributeBody(name), &got); err != nil {
			return err
		}
		actual := "<absent>"
		if got != nil {
			actual = *got
		}
		if got == nil || *got != want {
			return &AssertionError{What: "attribute " + name, Selector: sel, Expected: fmt.Sprintf("%q", want), Actual: actual}
		}
		return nil
	})
}

// VerifyValue waits for the form value of sel to equal want.
func (v *Verifier) VerifyValue(ctx context.Context, sel, want string) error {
	loc := v.page.Locator(sel)
	return v.poll(ctx, "verify value", sel, 0, func(pollCtx context.Context) error {
		var got string
		if err := loc.evalOnce(pollCtx, jsValue, &got); err != nil {
			return err
		}
		if got != want {
			return &AssertionError{What: "value", Selector: sel, Expected: fmt.Sprintf("%q", want), Actual: got}
		}
		return nil
	})
}

// VerifyCSS waits for the computed style property of sel to equal want.
func (v *Verifier) VerifyCSS(ctx context.Context, sel, property, want string) error {
	loc := v.page.Locator(sel)
	return v.poll(ctx, "verify css", sel, 0, func(pollCtx context.Context) error {
		var got string
		if err := loc.evalOnce(pollCtx, cssBody(property), &got); err != nil {
			return err
		}
		if normalizeSpace(got) != normalizeSpace(want) {
			return &AssertionError{What: "css " + property, Selector: sel, Expected: fmt.Sprintf("%q", want), Actual: got}
		}
		return nil
	})
}

// AssertAllContainText waits until sel has at least one match and every match contains text.
func (v *Verifier) AssertAllContainText(ctx context.Context, sel, text string) error {
	loc := v.page.Locator(sel)
	return v.poll(ctx, "assert all contain text", sel, 0, func(pollCtx context.Context) error {
		texts, err := loc.AllTextContents(pollCtx)
		if err != nil {
			return err
		}
		if len(texts) == 0 {
			return ErrElementNotFound
		}
		for i, t := range texts {
			if !containsNormalized(t, text) {
				return &AssertionError{
					What:     fmt.Sprintf("text of match %d", i),
					Selector: sel,
					Expected: fmt.Sprintf("text containing %q", text),
					Actual:   normalizeSpace(t),
				}
			}
		}
		return nil
	})
}
