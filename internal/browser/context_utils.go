// File: internal/browser/context_utils.go
package browser

import (
	"context"
)

// CombineContext derives a context from sessionCtx that is also canceled when
// opCtx is done. Values (the chromedp target) come from sessionCtx; opCtx
// contributes its deadline and cancellation.
func CombineContext(sessionCtx, opCtx context.Context) (context.Context, context.CancelFunc) {
	var (
		combined context.Context
		cancel   context.CancelFunc
	)
	if deadline, ok := opCtx.Deadline(); ok {
		combined, cancel = context.WithDeadline(sessionCtx, deadline)
	} else {
		combined, cancel = context.WithCancel(sessionCtx)
	}

	stop := context.AfterFunc(opCtx, cancel)
	return combined, func() {
		stop()
		cancel()
	}
}

// Detach returns a context that keeps the values of ctx but ignores its
// cancellation. Cleanup that must outlive a timed-out operation uses it.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// contextErr prefers the operation's context error over the session's, and
// returns nil while both are live.
func contextErr(opCtx, sessionCtx context.Context) error {
	if err := opCtx.Err(); err != nil {
		return err
	}
	return sessionCtx.Err()
}
