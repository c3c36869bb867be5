// Package ratelimit provides process-wide admission control for outbound
// calls to the embedding and generation services.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultWindow is the length of one admission window.
const DefaultWindow = time.Minute

// Limiter admits at most maxPerWindow calls per rolling 60-second window.
// Once the window is full, Admit suspends the caller until the window rolls
// over, then admits it as the first call of the new window. A single Limiter
// is shared by every concurrent request in the process.
type Limiter struct {
	mu           sync.Mutex
	maxPerWindow int
	window       time.Duration
	windowStart  time.Time
	count        int

	// now and sleep are replaceable so tests can drive a deterministic clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter allowing at most maxPerMinute admissions per minute.
func New(maxPerMinute int) *Limiter {
	l := &Limiter{
		maxPerWindow: maxPerMinute,
		window:       DefaultWindow,
		now:          time.Now,
		sleep:        sleepCtx,
	}
	l.windowStart = l.now()
	return l
}

// Admit blocks until the current window has capacity for one more call.
// Exceeding the cap is never an error; the only failure mode is context
// cancellation while suspended.
func (l *Limiter) Admit(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		if now.Sub(l.windowStart) >= l.window {
			l.windowStart = now
			l.count = 0
		}
		if l.count < l.maxPerWindow {
			l.count++
			l.mu.Unlock()
			return nil
		}
		wait := l.window - now.Sub(l.windowStart)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
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
