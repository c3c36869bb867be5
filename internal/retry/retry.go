// Package retry wraps fallible upstream calls with bounded exponential
// backoff, consulting the shared rate limiter before every attempt.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Admitter gates each attempt. Satisfied by *ratelimit.Limiter.
type Admitter interface {
	Admit(ctx context.Context) error
}

// Config holds the retry policy knobs.
type Config struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before the first retry
	MaxDelay    time.Duration // cap on the doubling delay
}

// DefaultConfig matches the deployed policy: up to 5 attempts, delays
// 1s, 2s, 4s, 8s capped at 60s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    60 * time.Second,
	}
}

// Executor runs operations with the configured retry policy.
type Executor struct {
	limiter Admitter
	cfg     Config

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Executor. A zero-valued field in cfg falls back to the
// corresponding default.
func New(limiter Admitter, cfg Config) *Executor {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	return &Executor{limiter: limiter, cfg: cfg, sleep: sleepCtx}
}

// retryableStatuses is the fixed whitelist of transient upstream statuses.
var retryableStatuses = map[int]bool{
	400: true,
	401: true,
	429: true,
	502: true,
	503: true,
	504: true,
}

// Retryable reports whether a failure with the given HTTP status should be
// retried.
func Retryable(status int) bool {
	return retryableStatuses[status]
}

// StatusCoder is implemented by errors that carry an upstream HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// statusOf extracts an upstream status code from err, if it carries one.
func statusOf(err error) (int, bool) {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}

// Do runs op, retrying transient failures with exponential backoff. The
// rate limiter is consulted before every attempt. Failures whose status is
// not on the whitelist (or that carry no status at all) are wrapped in
// *RejectedError and returned immediately; a transient failure that
// persists through every attempt is wrapped in *ExhaustedError.
func (e *Executor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	delay := e.cfg.BaseDelay
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := e.limiter.Admit(ctx); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		status, ok := statusOf(err)
		if !ok || !Retryable(status) {
			return &RejectedError{Status: status, Err: err}
		}
		lastErr = err

		if attempt >= e.cfg.MaxAttempts {
			return &ExhaustedError{Attempts: attempt, Err: lastErr}
		}
		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2
		if delay > e.cfg.MaxDelay {
			delay = e.cfg.MaxDelay
		}
	}
}

// RejectedError reports a non-retryable upstream failure.
type RejectedError struct {
	Status int
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("upstream rejected request (status %d): %v", e.Status, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// ExhaustedError reports a transient failure that outlived every retry.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("upstream still failing after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
