package corvid

import (
	"context"
	"testing"
	"time"

	"github.com/corvidware/corvid/structs"
	"github.com/stretchr/testify/assert"
)

func newTestSession() *Session {
	return New(Options{
		Credential: NewBotCredential("test-token"),
		Config:     DefaultConfig(),
	})
}

func TestDeliverChunkRoutesToWaitingCaller(t *testing.T) {
	s := newTestSession()

	ch := make(chan structs.GuildMembersChunk, 1)

	s.chunksMu.Lock()
	s.chunks["abc"] = ch
	s.chunksMu.Unlock()

	s.deliverChunk(structs.GuildMembersChunk{Nonce: "abc", ChunkCount: 1})

	select {
	case chunk := <-ch:
		assert.Equal(t, "abc", chunk.Nonce)
	case <-time.After(time.Second):
		t.Fatal("chunk was never delivered")
	}
}

func TestDeliverChunkWithNoWaiterIsNoop(t *testing.T) {
	s := newTestSession()

	assert.NotPanics(t, func() {
		s.deliverChunk(structs.GuildMembersChunk{Nonce: "nobody-waiting"})
	})
}

func TestRequestGuildMembersWithoutConnectionErrors(t *testing.T) {
	s := newTestSession()

	_, err := s.RequestGuildMembers(context.Background(), structs.RequestGuildMembers{GuildID: 1})

	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestOperationsAfterDisconnectReturnErrClosed(t *testing.T) {
	s := newTestSession()
	s.Disconnect()

	_, err := s.RequestGuildMembers(context.Background(), structs.RequestGuildMembers{GuildID: 1})
	assert.ErrorIs(t, err, ErrClosed)

	err = s.UpdatePresence(context.Background(), structs.UpdateStatus{})
	assert.ErrorIs(t, err, ErrClosed)

	err = s.WaitForReady(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatchFallsBackToDefaultHandlerWhenNoneRegistered(t *testing.T) {
	s := newTestSession()

	var (
		exactCalled    bool
		defaultCalled  bool
		defaultPayload interface{}
	)

	s.On("GUILD_CREATE", func(v interface{}) { exactCalled = true })
	s.On("", func(v interface{}) {
		defaultCalled = true
		defaultPayload = v
	})

	s.dispatcher.dispatch(context.Background(), s, structs.GatewayPayload{
		Op:   structs.GatewayOpDispatch,
		Type: "SOME_UNHANDLED_EVENT",
		Data: []byte(`{"x":1}`),
	})

	assert.False(t, exactCalled)
	assert.True(t, defaultCalled)
	assert.NotNil(t, defaultPayload)
}

func TestDispatchPrefersExactListenerOverDefault(t *testing.T) {
	s := newTestSession()

	var exactCalled, defaultCalled bool

	s.On("GUILD_CREATE", func(v interface{}) { exactCalled = true })
	s.On("", func(v interface{}) { defaultCalled = true })

	s.dispatcher.dispatch(context.Background(), s, structs.GatewayPayload{
		Op:   structs.GatewayOpDispatch,
		Type: "GUILD_CREATE",
		Data: []byte(`{"id":"1"}`),
	})

	assert.True(t, exactCalled)
	assert.False(t, defaultCalled)
}

func TestOnRegistersAndRemovesListener(t *testing.T) {
	s := newTestSession()

	var called bool

	off := s.On("GUILD_CREATE", func(v interface{}) {
		called = true
	})

	s.dispatcher.mu.RLock()
	handlers := s.dispatcher.listeners["GUILD_CREATE"]
	s.dispatcher.mu.RUnlock()
	assert.Len(t, handlers, 1)

	off()

	s.dispatcher.mu.RLock()
	handlers = s.dispatcher.listeners["GUILD_CREATE"]
	s.dispatcher.mu.RUnlock()
	assert.Nil(t, handlers[0])

	_ = called
}
