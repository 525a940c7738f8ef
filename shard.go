package corvid

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/corvidware/corvid/ratelimit"
	"github.com/corvidware/corvid/structs"
	"go.uber.org/atomic"
	"nhooyr.io/websocket"
)

// MaxReconnectWait caps the exponential backoff applied between failed
// reconnect attempts.
const MaxReconnectWait = 60 * time.Second

// shard is the gateway protocol engine for a single (id, count) shard
// slice: it owns the websocket transport, drives the Hello/Identify/
// Resume handshake, maintains the heartbeat, and hands decoded dispatch
// payloads to the session's event dispatcher.
type shard struct {
	id    int32
	count int32

	session *Session

	ctx    context.Context
	cancel func()

	transport   *transport
	transportMu sync.RWMutex

	sequence  atomic.Int64
	sessionID atomic.String
	resumeURL atomic.String

	heartbeatInterval time.Duration
	lastHeartbeatAck  atomic.Time
	// awaitingAck is set the moment a heartbeat is sent and cleared the
	// moment its ACK arrives. A heartbeat tick that finds it already true
	// means the previous beat was never acked — Discord's gateway docs
	// call for an immediate force-close and reconnect on that transition,
	// not after some grace window of further missed beats.
	awaitingAck atomic.Bool
	limiter     *ratelimit.GatewayLimiter

	status   ShardStatus
	statusMu sync.RWMutex

	ready     chan struct{}
	readyOnce sync.Once
}

// ShardStatus describes a shard's lifecycle state.
type ShardStatus int

const (
	ShardStatusIdle ShardStatus = iota
	ShardStatusConnecting
	ShardStatusConnected
	ShardStatusReconnecting
	ShardStatusClosing
	ShardStatusClosed
	ShardStatusErroring
)

func newShard(session *Session, id, count int32) *shard {
	return &shard{
		id:      id,
		count:   count,
		session: session,
		limiter: ratelimit.NewGatewayLimiter(),
		ready:   make(chan struct{}),
	}
}

// canResume reports whether this shard holds enough state to attempt a
// Resume instead of a fresh Identify.
func (sh *shard) canResume() bool {
	return sh.sessionID.Load() != "" && sh.sequence.Load() != 0
}

// discardSession clears everything needed to Resume, forcing the next
// Connect to Identify fresh. Called when Discord tells us the session is
// gone (Invalid Session) regardless of whether it claims to be resumable.
func (sh *shard) discardSession() {
	sh.sessionID.Store("")
	sh.sequence.Store(0)
	sh.resumeURL.Store("")
}

func (sh *shard) SetStatus(status ShardStatus) {
	sh.statusMu.Lock()
	sh.status = status
	sh.statusMu.Unlock()
}

func (sh *shard) GetStatus() ShardStatus {
	sh.statusMu.RLock()
	defer sh.statusMu.RUnlock()

	return sh.status
}

// Connect dials the gateway (resuming if a prior session is known),
// performs the Hello/Identify-or-Resume handshake, and starts the
// heartbeat loop. It returns once the handshake has completed; the
// caller is expected to then run Listen in its own goroutine.
func (sh *shard) Connect(ctx context.Context) error {
	if sh.GetStatus() != ShardStatusReconnecting {
		sh.SetStatus(ShardStatusConnecting)
	}

	sh.ctx, sh.cancel = context.WithCancel(ctx)

	// sessionID/sequence are the single source of truth for whether a
	// Resume is possible; resumeURL is just the cached address to dial
	// for one and is left in place across a successful Resume so a
	// later reconnect can resume again instead of wiping valid state.
	canResume := sh.canResume()

	url := sh.session.gatewayURL
	if canResume {
		if resumeURL := sh.resumeURL.Load(); resumeURL != "" {
			url = resumeURL
		}
	}

	t, err := dial(sh.ctx, url+"?v=10&encoding=json")
	if err != nil {
		sh.SetStatus(ShardStatusErroring)
		return err
	}

	sh.transportMu.Lock()
	sh.transport = t
	sh.transportMu.Unlock()

	msg, err := sh.readPayload(sh.ctx)
	if err != nil {
		sh.SetStatus(ShardStatusErroring)
		return fmt.Errorf("corvid: failed to read hello: %w", err)
	}

	var hello structs.Hello
	if err := Unmarshal(msg.Data, &hello); err != nil {
		sh.SetStatus(ShardStatusErroring)
		return fmt.Errorf("corvid: failed to decode hello: %w", err)
	}

	sh.heartbeatInterval = time.Duration(hello.HeartbeatInterval) * time.Millisecond
	sh.lastHeartbeatAck.Store(time.Now())
	sh.awaitingAck.Store(false)

	go sh.heartbeatLoop(sh.ctx)

	if canResume {
		if err := sh.resume(sh.ctx); err != nil {
			sh.SetStatus(ShardStatusErroring)
			return err
		}
	} else {
		if err := sh.identify(sh.ctx); err != nil {
			sh.SetStatus(ShardStatusErroring)
			return err
		}
	}

	sh.SetStatus(ShardStatusConnected)

	return nil
}

// onHeartbeatACK records receipt of a Heartbeat ACK, clearing the
// awaiting-ack flag the heartbeat loop checks on its next tick.
func (sh *shard) onHeartbeatACK() {
	sh.lastHeartbeatAck.Store(time.Now())
	sh.awaitingAck.Store(false)
}

func (sh *shard) heartbeatLoop(ctx context.Context) {
	jitter := heartbeatJitter(sh.session.config)
	jittered := time.Duration(float64(sh.heartbeatInterval) * jitter)

	ticker := time.NewTicker(jittered)
	defer ticker.Stop()

	// Discord expects only the very first heartbeat after a jittered
	// delay; every beat after that fires at the true, unjittered
	// interval from Hello, so the ticker is reset once the first tick
	// lands.
	first := true

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if first {
				first = false
				ticker.Reset(sh.heartbeatInterval)
			}

			if sh.awaitingAck.Load() {
				sh.session.logger.Warn().Msg("previous heartbeat was not acked, reconnecting")

				go sh.reconnect(websocket.StatusCode(structs.CloseUnknownError))

				return
			}

			if err := sh.limiter.LockHeartbeat(ctx); err != nil {
				return
			}

			var seq *int64
			if s := sh.sequence.Load(); s != 0 {
				seq = &s
			}

			sh.awaitingAck.Store(true)

			if err := sh.send(ctx, structs.GatewayOpHeartbeat, seq); err != nil {
				sh.session.logger.Warn().Err(err).Msg("heartbeat send failed, reconnecting")

				go sh.reconnect(websocket.StatusCode(structs.CloseUnknownError))

				return
			}
		}
	}
}

func (sh *shard) identify(ctx context.Context) error {
	presence := sh.session.initialPresence

	largeThreshold := sh.session.config.LargeThreshold
	if clamped := clampLargeThreshold(largeThreshold); clamped != largeThreshold {
		sh.session.logger.Warn().
			Int32("large_threshold", largeThreshold).
			Int32("clamped_to", clamped).
			Msg("large_threshold out of [50,250], clamping")

		largeThreshold = clamped
	}

	shardID, shardCount := sh.id, sh.count
	if shardCount < 1 || shardID < 0 || shardID >= shardCount {
		sh.session.logger.Warn().
			Int32("shard_id", shardID).
			Int32("shard_count", shardCount).
			Msg("invalid shard tuple, correcting to [0,1]")

		shardID, shardCount = 0, 1
	}

	return sh.send(ctx, structs.GatewayOpIdentify, structs.Identify{
		Token: sh.session.credential.Token,
		Properties: structs.IdentifyProperties{
			OS:      runtime.GOOS,
			Browser: "corvid",
			Device:  "corvid",
		},
		Compress:       sh.session.config.Compress,
		LargeThreshold: int(largeThreshold),
		Shard:          [2]int32{shardID, shardCount},
		Presence:       presence,
		Intents:        sh.session.config.Intents,
	})
}

func (sh *shard) resume(ctx context.Context) error {
	return sh.send(ctx, structs.GatewayOpResume, structs.Resume{
		Token:     sh.session.credential.Token,
		SessionID: sh.sessionID.Load(),
		Sequence:  sh.sequence.Load(),
	})
}

// send marshals and writes a payload, routing opcode-specific sends
// through the gateway limiter; heartbeats go through LockHeartbeat in
// their own call site and are never double-gated here.
func (sh *shard) send(ctx context.Context, op structs.GatewayOp, data interface{}) error {
	if op != structs.GatewayOpHeartbeat {
		if op == structs.GatewayOpStatusUpdate {
			if err := sh.limiter.LockStatus(ctx); err != nil {
				return err
			}
		} else if err := sh.limiter.Lock(ctx); err != nil {
			return err
		}
	}

	payload, err := Marshal(structs.SentPayload{Op: op, Data: data})
	if err != nil {
		return fmt.Errorf("corvid: failed to marshal payload: %w", err)
	}

	sh.transportMu.RLock()
	t := sh.transport
	sh.transportMu.RUnlock()

	if t == nil {
		return ErrNotConnected
	}

	return t.WriteRaw(ctx, payload)
}

// SendGuildMembersRequest issues a Request Guild Members (opcode 8) call.
func (sh *shard) SendGuildMembersRequest(ctx context.Context, req structs.RequestGuildMembers) error {
	return sh.send(ctx, structs.GatewayOpRequestGuildMembers, req)
}

// SendVoiceStateUpdate issues a Voice State Update (opcode 4) call.
func (sh *shard) SendVoiceStateUpdate(ctx context.Context, guildID structs.Snowflake, channelID *structs.Snowflake, selfMute, selfDeaf bool) error {
	return sh.send(ctx, structs.GatewayOpVoiceStateUpdate, map[string]interface{}{
		"guild_id":   guildID,
		"channel_id": channelID,
		"self_mute":  selfMute,
		"self_deaf":  selfDeaf,
	})
}

// SendStatusUpdate issues a Status Update (opcode 3) presence change.
func (sh *shard) SendStatusUpdate(ctx context.Context, update structs.UpdateStatus) error {
	return sh.send(ctx, structs.GatewayOpStatusUpdate, update)
}

func (sh *shard) readPayload(ctx context.Context) (structs.GatewayPayload, error) {
	sh.transportMu.RLock()
	t := sh.transport
	sh.transportMu.RUnlock()

	if t == nil {
		return structs.GatewayPayload{}, ErrNotConnected
	}

	select {
	case data := <-t.messageCh:
		var payload structs.GatewayPayload
		if err := Unmarshal(data, &payload); err != nil {
			return payload, fmt.Errorf("corvid: failed to decode gateway payload: %w", err)
		}

		return payload, nil
	case err := <-t.errCh:
		return structs.GatewayPayload{}, err
	case <-ctx.Done():
		return structs.GatewayPayload{}, ctx.Err()
	}
}

// Listen reads gateway frames until the context is cancelled or an
// unrecoverable close code arrives, dispatching every Dispatch opcode to
// the session's event dispatcher and handling Heartbeat ACK, Reconnect,
// and Invalid Session itself.
func (sh *shard) Listen(ctx context.Context) error {
	for {
		payload, err := sh.readPayload(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}

			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) {
				code := int(closeErr.Code)

				sh.session.logger.Warn().Int("code", code).Msg("gateway closed")

				if structs.PermanentCloseCodes[code] {
					return &CloseError{Code: code, Reason: closeErr.Reason, Permanent: true}
				}
			}

			go sh.reconnect(websocket.StatusNormalClosure)

			return nil
		}

		switch payload.Op {
		case structs.GatewayOpDispatch:
			if payload.Sequence != nil {
				sh.sequence.Store(*payload.Sequence)
			}

			sh.handleDispatch(ctx, payload)
		case structs.GatewayOpHeartbeatACK:
			sh.onHeartbeatACK()
		case structs.GatewayOpReconnect:
			go sh.reconnect(websocket.StatusCode(structs.CloseUnknownError))
			return nil
		case structs.GatewayOpInvalidSession:
			// The resumable flag only tells us whether the server is
			// willing to accept a Resume attempt right now; it does not
			// mean the current session id/sequence are still good. Either
			// way the session is gone, so always discard it and Identify
			// fresh on the reconnect below.
			sh.discardSession()

			// Discord asks for a short random delay before
			// re-identifying after an invalid session.
			time.Sleep(time.Duration(1+rand.Intn(4)) * time.Second)

			go sh.reconnect(websocket.StatusCode(structs.CloseUnknownError))

			return nil
		}
	}
}

func (sh *shard) handleDispatch(ctx context.Context, payload structs.GatewayPayload) {
	if payload.Type == "READY" {
		var ready structs.Ready
		if err := Unmarshal(payload.Data, &ready); err == nil {
			sh.sessionID.Store(ready.SessionID)
			sh.resumeURL.Store(ready.ResumeGatewayURL)

			sh.readyOnce.Do(func() { close(sh.ready) })
		}
	}

	if payload.Type == "RESUMED" {
		sh.readyOnce.Do(func() { close(sh.ready) })
	}

	sh.session.dispatcher.dispatch(ctx, sh.session, payload)
}

// WaitForReady blocks until the shard has received READY or RESUMED, or
// ctx is cancelled.
func (sh *shard) WaitForReady(ctx context.Context) error {
	select {
	case <-sh.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sh *shard) Close(code websocket.StatusCode) {
	sh.SetStatus(ShardStatusClosing)

	if sh.cancel != nil {
		sh.cancel()
	}

	sh.transportMu.Lock()
	if sh.transport != nil {
		_ = sh.transport.Close(code)
		sh.transport = nil
	}
	sh.transportMu.Unlock()

	sh.SetStatus(ShardStatusClosed)
}

func (sh *shard) reconnect(code websocket.StatusCode) {
	sh.SetStatus(ShardStatusReconnecting)
	sh.Close(code)

	wait := time.Second

	for {
		err := sh.Connect(sh.session.baseCtx)
		if err == nil {
			go func() {
				if listenErr := sh.Listen(sh.session.baseCtx); listenErr != nil {
					sh.session.logger.Error().Err(listenErr).Msg("shard listen loop exited")
				}
			}()

			return
		}

		var closeErr *CloseError
		if errors.As(err, &closeErr) && closeErr.Permanent {
			sh.session.logger.Error().Err(err).Msg("permanent gateway close, giving up")
			return
		}

		sh.session.logger.Warn().Err(err).Dur("retry", wait).Msg("failed to reconnect")

		select {
		case <-time.After(wait):
		case <-sh.session.baseCtx.Done():
			return
		}

		wait *= 2
		if wait > MaxReconnectWait {
			wait = MaxReconnectWait
		}
	}
}
