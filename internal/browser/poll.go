// File: internal/browser/poll.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default polling window used when a caller passes zero values.
const (
	DefaultPollTimeout  = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// PollOptions bounds a retry loop.
type PollOptions struct {
	Op       string
	Selector string
	Timeout  time.Duration
	Interval time.Duration
}

// Poll runs check until it returns nil, the timeout elapses, or ctx is done.
// The check receives a context that expires with the polling window. An error
// wrapped with Permanent ends the loop at once and is returned unwrapped.
// On timeout the result is a *TimeoutError carrying the last failure.
func Poll(ctx context.Context, opts PollOptions, check func(context.Context) error) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPollTimeout
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}

	pollCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var last error
	for {
		err := check(pollCtx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		// Errors caused by the window closing say nothing about page state.
		if pollCtx.Err() == nil || last == nil {
			last = err
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("%s canceled: %w", opts.Op, ctx.Err())
			}
			if errors.Is(last, context.DeadlineExceeded) || errors.Is(last, context.Canceled) {
				last = nil
			}
			return &TimeoutError{Op: opts.Op, Selector: opts.Selector, Timeout: opts.Timeout, Last: last}
		case <-ticker.C:
		}
	}
}
