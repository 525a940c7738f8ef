package corvid

import (
	"context"
	"testing"

	"github.com/corvidware/corvid/structs"
	"github.com/stretchr/testify/assert"
)

func newTestShard(t *testing.T) *shard {
	t.Helper()

	s := newTestSession()

	return newShard(s, 0, 1)
}

// A freshly built shard has no session state and must Identify, not
// Resume, on its first Connect.
func TestShardColdConnectCannotResume(t *testing.T) {
	sh := newTestShard(t)

	assert.False(t, sh.canResume())
}

// READY populates sessionID/resumeURL; once a sequence number has also
// arrived via a Dispatch frame, the shard can Resume on its next Connect.
func TestShardReadyEnablesResume(t *testing.T) {
	sh := newTestShard(t)

	readyData, err := Marshal(structs.Ready{
		SessionID:        "session-abc",
		ResumeGatewayURL: "wss://resume.example/gateway",
	})
	assert.NoError(t, err)

	sh.handleDispatch(context.Background(), structs.GatewayPayload{
		Op:   structs.GatewayOpDispatch,
		Type: "READY",
		Data: readyData,
	})
	sh.sequence.Store(42)

	assert.True(t, sh.canResume())
	assert.Equal(t, "session-abc", sh.sessionID.Load())
	assert.Equal(t, "wss://resume.example/gateway", sh.resumeURL.Load())
}

// A successful Resume (signaled by the RESUMED dispatch) must leave
// sessionID/sequence/resumeURL intact so a later reconnect resumes again
// instead of being forced back through a fresh Identify.
func TestShardResumedPreservesResumeState(t *testing.T) {
	sh := newTestShard(t)

	sh.sessionID.Store("session-abc")
	sh.sequence.Store(42)
	sh.resumeURL.Store("wss://resume.example/gateway")

	sh.handleDispatch(context.Background(), structs.GatewayPayload{
		Op:   structs.GatewayOpDispatch,
		Type: "RESUMED",
		Data: []byte(`{}`),
	})

	assert.True(t, sh.canResume())
	assert.Equal(t, "session-abc", sh.sessionID.Load())
	assert.Equal(t, "wss://resume.example/gateway", sh.resumeURL.Load())
}

// Invalid Session must unconditionally discard session state, regardless
// of whatever the resumable flag said, so the next Connect Identifies
// fresh instead of wrongly attempting a Resume.
func TestShardInvalidSessionDiscardsStateRegardlessOfResumableFlag(t *testing.T) {
	for _, resumable := range []bool{true, false} {
		sh := newTestShard(t)

		sh.sessionID.Store("session-abc")
		sh.sequence.Store(42)
		sh.resumeURL.Store("wss://resume.example/gateway")

		_ = resumable // Discord's resumable flag does not change this.
		sh.discardSession()

		assert.False(t, sh.canResume())
		assert.Equal(t, "", sh.sessionID.Load())
		assert.Equal(t, int64(0), sh.sequence.Load())
		assert.Equal(t, "", sh.resumeURL.Load())
	}
}

func TestShardHandleDispatchClosesReadyOnResumed(t *testing.T) {
	sh := newTestShard(t)

	sh.handleDispatch(context.Background(), structs.GatewayPayload{
		Op:   structs.GatewayOpDispatch,
		Type: "RESUMED",
		Data: []byte(`{}`),
	})

	select {
	case <-sh.ready:
	default:
		t.Fatal("ready channel was not closed on RESUMED")
	}
}

// A sent heartbeat with no ACK yet reads as awaiting; heartbeatLoop checks
// this flag on each tick, so one missed Ack is enough to trigger its
// force-close-and-reconnect path.
func TestShardAwaitingAckDetectsSingleMissedHeartbeat(t *testing.T) {
	sh := newTestShard(t)

	assert.False(t, sh.awaitingAck.Load())

	// Simulate a heartbeat having just been sent.
	sh.awaitingAck.Store(true)

	assert.True(t, sh.awaitingAck.Load(), "a sent heartbeat with no ACK yet must read as awaiting")
}

func TestShardHeartbeatACKClearsAwaitingAck(t *testing.T) {
	sh := newTestShard(t)

	sh.awaitingAck.Store(true)
	sh.onHeartbeatACK()

	assert.False(t, sh.awaitingAck.Load())
}

func TestIdentifyClampsLargeThreshold(t *testing.T) {
	assert.Equal(t, int32(50), clampLargeThreshold(1))
	assert.Equal(t, int32(250), clampLargeThreshold(1000))
	assert.Equal(t, int32(120), clampLargeThreshold(120))
}
