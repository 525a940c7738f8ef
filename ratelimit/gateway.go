package ratelimit

import (
	"context"
	"time"
)

// Default windows corvid applies to the gateway socket itself, distinct
// from the REST bucket store: Discord disconnects a shard that sends too
// fast regardless of which op it's sending.
const (
	GatewayLimitSend   = 120
	GatewayLimitPeriod = 60 * time.Second

	// StatusUpdateLimitSend/Period is the tighter limit Discord documents
	// specifically for opcode 3 (Status Update): far fewer presence
	// changes are allowed per minute than general sends.
	StatusUpdateLimitSend   = 5
	StatusUpdateLimitPeriod = 60 * time.Second

	// BurstLimitSend/Period is a local-only guard applied in front of the
	// gateway limiter, independent of anything the server advertises: it
	// exists purely to keep a runaway local loop from flooding the
	// socket before the window-based limiter above even notices.
	BurstLimitSend   = 5
	BurstLimitPeriod = time.Second
)

// GatewayLimiter bundles the three windows a single shard's outbound
// gateway writes pass through: a local burst guard, the general send
// window, and the stricter status-update window.
type GatewayLimiter struct {
	burst  *DurationLimiter
	send   *DurationLimiter
	status *DurationLimiter
}

// NewGatewayLimiter builds a limiter set for one shard connection.
func NewGatewayLimiter() *GatewayLimiter {
	return &GatewayLimiter{
		burst:  NewDurationLimiter(BurstLimitSend, BurstLimitPeriod),
		send:   NewDurationLimiter(GatewayLimitSend, GatewayLimitPeriod),
		status: NewDurationLimiter(StatusUpdateLimitSend, StatusUpdateLimitPeriod),
	}
}

// Lock waits for a send slot. Heartbeats bypass the send/status windows
// entirely (the caller should not route them through this method at
// all) but still pass the local burst guard to avoid saturating the
// write side of the socket during reconnect storms.
func (gl *GatewayLimiter) Lock(ctx context.Context) error {
	if err := gl.burst.Lock(ctx); err != nil {
		return err
	}

	return gl.send.Lock(ctx)
}

// LockStatus waits for both the general send window and the
// status-update-specific window, for opcode 3 sends.
func (gl *GatewayLimiter) LockStatus(ctx context.Context) error {
	if err := gl.Lock(ctx); err != nil {
		return err
	}

	return gl.status.Lock(ctx)
}

// LockHeartbeat waits only on the local burst guard; heartbeats must
// never be throttled by the general send window or a reconnect storm
// risks cascading into missed heartbeats.
func (gl *GatewayLimiter) LockHeartbeat(ctx context.Context) error {
	return gl.burst.Lock(ctx)
}
