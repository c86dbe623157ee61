// File: internal/browser/errors.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrElementNotFound means no element matched a locator before its deadline.
var ErrElementNotFound = errors.New("element not found")

// TimeoutError reports an operation that did not succeed within its time budget.
// Last holds the final observation made before giving up.
type TimeoutError struct {
	Op       string
	Selector string
	Timeout  time.Duration
	Last     error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s timed out after %v", e.Op, e.Timeout)
	if e.Selector != "" {
		msg = fmt.Sprintf("%s on %q timed out after %v", e.Op, e.Selector, e.Timeout)
	}
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

// Unwrap exposes both the last observation and context.DeadlineExceeded, so
// errors.Is matches either ErrElementNotFound or a deadline.
func (e *TimeoutError) Unwrap() []error {
	if e.Last == nil {
		return []error{context.DeadlineExceeded}
	}
	return []error{e.Last, context.DeadlineExceeded}
}

// AssertionError describes one failed observation of page state.
type AssertionError struct {
	What     string
	Selector string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	target := "page"
	if e.Selector != "" {
		target = fmt.Sprintf("%q", e.Selector)
	}
	return fmt.Sprintf("%s of %s: expected %s, got %q", e.What, target, e.Expected, e.Actual)
}

// permanentError stops a Poll loop immediately.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
