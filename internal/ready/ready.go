// Package ready waits for the host page to become usable.
package ready

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotReady is returned when the predicate never held within MaxAttempts.
var ErrNotReady = errors.New("host not ready")

// Options configures Poll.
type Options struct {
	// MaxAttempts is the number of checks before giving up.
	MaxAttempts int

	// Interval is the wait between checks.
	Interval time.Duration
}

// DefaultOptions returns 100 checks, 100ms apart.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: 100,
		Interval:    100 * time.Millisecond,
	}
}

// Result reports how polling ended.
type Result struct {
	// Ready is set when the predicate held.
	Ready bool

	// Attempts is the number of checks made.
	Attempts int

	// Err is ErrNotReady after the last attempt, or the context error on
	// cancellation. It is nil when Ready.
	Err error
}

// Poll checks pred immediately and then every Interval until it returns
// true, MaxAttempts checks have failed, or ctx is done.
// If MaxAttempts is <= 0, it defaults to 1 attempt.
func Poll(ctx context.Context, pred func() bool, opts Options) Result {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{Attempts: attempt - 1, Err: err}
		}
		if pred() {
			return Result{Ready: true, Attempts: attempt}
		}

		// Don't wait after last attempt
		if attempt == maxAttempts {
			break
		}

		if timer == nil {
			timer = time.NewTimer(opts.Interval)
		} else {
			timer.Reset(opts.Interval)
		}
		select {
		case <-ctx.Done():
			return Result{Attempts: attempt, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return Result{
		Attempts: maxAttempts,
		Err:      fmt.Errorf("%w after %d attempts", ErrNotReady, maxAttempts),
	}
}
