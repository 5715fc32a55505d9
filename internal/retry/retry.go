// Package retry implements bounded polling of remote state.
//
// A check runs up to MaxAttempts times with a constant Delay between
// attempts. Progress and per-attempt failure detail are logged; only
// exhaustion is returned as an error.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/raphi011/cspace/internal/log"
)

// Check probes remote state once. It must tolerate repeated invocation.
type Check func(ctx context.Context) error

// Options configures one wait point.
type Options struct {
	MaxAttempts int
	Delay       time.Duration
	Description string

	// Timer drives the sleeps between attempts. Nil uses a real timer.
	Timer backoff.Timer
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Description string
	Attempts    int
	Err         error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: gave up after %d attempts: %v", e.Description, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not worth retrying. Until returns err unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Until polls check until it succeeds, attempts run out, a permanent
// error is returned, or ctx is cancelled.
func Until(ctx context.Context, opts Options, check Check) error {
	if opts.MaxAttempts < 1 {
		return fmt.Errorf("%s: max attempts must be at least 1, got %d", opts.Description, opts.MaxAttempts)
	}
	if opts.Delay < 0 {
		return fmt.Errorf("%s: delay must not be negative, got %s", opts.Description, opts.Delay)
	}

	l := log.FromContext(ctx)

	var b backoff.BackOff = backoff.NewConstantBackOff(opts.Delay)
	b = backoff.WithMaxRetries(b, uint64(opts.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	permanent := false
	op := func() error {
		attempt++
		l.Infof("%s (attempt %d/%d)...", opts.Description, attempt, opts.MaxAttempts)

		err := check(ctx)
		if err == nil {
			return nil
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
			return err
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		logDetail(l, err)
		return err
	}

	err := backoff.RetryNotifyWithTimer(op, b, nil, opts.Timer)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case permanent:
		return err
	default:
		return &ExhaustedError{Description: opts.Description, Attempts: attempt, Err: err}
	}
}

// logDetail writes each line of the failure indented under the attempt.
func logDetail(l *log.Logger, err error) {
	for _, line := range strings.Split(strings.TrimRight(err.Error(), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.Warnf("  %s", line)
	}
}
