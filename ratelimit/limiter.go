// Package ratelimit implements the client-side rate limiting corvid
// applies to both the gateway socket and the REST API: a local burst
// guard that never depends on a server response, and a per-route bucket
// store that adapts to the X-RateLimit-* headers Discord returns.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"
)

// DurationLimiter allows at most limit acquisitions per duration, reset
// when a fixed-length window ends. Lock blocks until a slot frees up or
// ctx is cancelled.
type DurationLimiter struct {
	limit    int32
	duration int64

	resetsAt  int64
	available int32
}

// NewDurationLimiter builds a limiter that permits limit calls per
// duration.
func NewDurationLimiter(limit int32, duration time.Duration) *DurationLimiter {
	return &DurationLimiter{
		limit:     limit,
		duration:  duration.Nanoseconds(),
		available: limit,
	}
}

// Lock waits for an available slot, returning early if ctx is done.
func (l *DurationLimiter) Lock(ctx context.Context) error {
	for {
		now := time.Now().UnixNano()

		if atomic.LoadInt64(&l.resetsAt) <= now {
			atomic.StoreInt64(&l.resetsAt, now+atomic.LoadInt64(&l.duration))
			atomic.StoreInt32(&l.available, atomic.LoadInt32(&l.limit))
		}

		if atomic.LoadInt32(&l.available) > 0 {
			atomic.AddInt32(&l.available, -1)
			return nil
		}

		wait := time.Duration(atomic.LoadInt64(&l.resetsAt) - now)
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryLock claims a slot immediately if one is available, never blocking.
// It reports whether the slot was granted and, if not, how long remains
// until the window resets — the non-blocking counterpart to Lock that
// the REST dispatcher uses so a caller already known to be rate limited
// fails synchronously instead of waiting out the window.
func (l *DurationLimiter) TryLock() (ok bool, resetIn time.Duration) {
	now := time.Now().UnixNano()

	if atomic.LoadInt64(&l.resetsAt) <= now {
		atomic.StoreInt64(&l.resetsAt, now+atomic.LoadInt64(&l.duration))
		atomic.StoreInt32(&l.available, atomic.LoadInt32(&l.limit))
	}

	if atomic.LoadInt32(&l.available) > 0 {
		atomic.AddInt32(&l.available, -1)
		return true, 0
	}

	resetIn = time.Duration(atomic.LoadInt64(&l.resetsAt) - now)
	if resetIn < 0 {
		resetIn = 0
	}

	return false, resetIn
}

// Reset pushes the window forward immediately, as if a fresh period had
// just started.
func (l *DurationLimiter) Reset() {
	now := time.Now().UnixNano()
	atomic.StoreInt64(&l.resetsAt, now+atomic.LoadInt64(&l.duration))
	atomic.StoreInt32(&l.available, atomic.LoadInt32(&l.limit))
}

// SetLimit adjusts the limiter's ceiling without resetting the current
// window, used to converge the local guess toward a server-advertised
// limit.
func (l *DurationLimiter) SetLimit(limit int32) {
	atomic.StoreInt32(&l.limit, limit)
}

// SetAvailable overrides the number of currently-available slots,
// used to fold a server's X-RateLimit-Remaining value into the
// limiter's local bookkeeping.
func (l *DurationLimiter) SetAvailable(available int32) {
	atomic.StoreInt32(&l.available, available)
}

// SetResetsAt overrides when the current window ends, in UnixNano.
func (l *DurationLimiter) SetResetsAt(unixNano int64) {
	atomic.StoreInt64(&l.resetsAt, unixNano)
}
