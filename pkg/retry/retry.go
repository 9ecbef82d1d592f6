// Package retry provides a fixed-attempt, fixed-backoff retry policy.
// The sleep is injectable so callers can test retry paths without delay.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is matched by errors.Is when every attempt failed
var ErrExhausted = errors.New("retry attempts exhausted")

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy is a reusable retry policy
type Policy struct {
	Attempts int
	Delay    time.Duration
	Sleep    SleepFunc

	// OnRetry is called before each wait with the 1-based attempt that failed
	OnRetry func(attempt int, err error)
}

// ExhaustedError carries the attempt count and the last failure
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrExhausted, e.Attempts, e.Last)
}

// Is reports ErrExhausted as a match
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Do stops retrying and returns it unwrapped
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// New creates a policy that sleeps for real between attempts
func New(attempts int, delay time.Duration) Policy {
	return Policy{
		Attempts: attempts,
		Delay:    delay,
		Sleep:    ContextSleep,
	}
}

// ContextSleep waits for d, returning early with ctx.Err() on cancellation
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoSleep returns immediately unless ctx is already done
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Do runs fn until it succeeds, returns a Permanent error, or attempts run out
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if last == nil {
				return err
			}
			return &ExhaustedError{Attempts: attempt - 1, Last: last}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		last = err

		if attempt == attempts {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return &ExhaustedError{Attempts: attempt, Last: last}
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: last}
}
