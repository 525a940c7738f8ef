package corvid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/corvidware/corvid/ratelimit"
	"github.com/corvidware/corvid/structs"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"nhooyr.io/websocket"
)

// MemberChunkTimeout bounds how long RequestGuildMembers waits for the
// next GUILD_MEMBERS_CHUNK response; the wait restarts with each chunk
// that arrives, and on expiry the call returns whatever arrived.
const MemberChunkTimeout = 10 * time.Second

// Options configures a new Session.
type Options struct {
	Credential Credential
	Config     Config
	Logging    LoggingOptions

	// RateLimitStore overrides the REST bucket store; leave nil to use an
	// in-process ratelimit.BucketStore.
	RateLimitStore ratelimit.Store

	// Publisher, if set, receives every dispatch event corvid decodes in
	// addition to normal in-process listener delivery.
	Publisher Publisher

	// InitialPresence sets the status sent on the Identify handshake.
	InitialPresence *structs.UpdateStatus
}

// Session is the top-level handle a caller holds: one gateway connection
// (optionally one of several shards of a larger bot), its REST
// dispatcher, and its local mirror of everything the gateway has told it
// about.
type Session struct {
	credential Credential
	config     Config
	logger     zerolog.Logger

	gatewayURL      string
	initialPresence *structs.UpdateStatus

	rest       *restClient
	state      *state
	dispatcher *dispatcher
	publisher  Publisher

	shard *shard

	// closed is set by Disconnect so later operations can return
	// ErrClosed (was connected, now deliberately closed) instead of
	// ErrNotConnected (never connected at all).
	closed atomic.Bool

	baseCtx    context.Context
	baseCancel func()

	chunksMu sync.Mutex
	chunks   map[string]chan structs.GuildMembersChunk
}

// New builds a Session from opts. It does not connect; call Connect to
// open the gateway.
func New(opts Options) *Session {
	buckets := opts.RateLimitStore
	if buckets == nil {
		buckets = ratelimit.NewBucketStore()
	}

	s := &Session{
		credential:      opts.Credential,
		config:          opts.Config,
		logger:          newLogger(opts.Logging),
		rest:            newRESTClient(opts.Credential, buckets),
		state:           newState(),
		publisher:       opts.Publisher,
		initialPresence: opts.InitialPresence,
		chunks:          make(map[string]chan structs.GuildMembersChunk),
	}

	s.dispatcher = newDispatcher()

	return s
}

// Connect resolves the gateway URL (if not already known), opens the
// websocket, performs the Identify/Resume handshake, and starts the
// read loop in the background. It returns once the handshake completes;
// it does not wait for READY — use WaitForReady for that.
func (s *Session) Connect(ctx context.Context) error {
	if s.shard != nil && s.shard.GetStatus() == ShardStatusConnected {
		return ErrAlreadyConnected
	}

	s.closed.Store(false)

	if !s.credential.GatewayCapable() {
		return fmt.Errorf("corvid: credential type cannot open a gateway session")
	}

	if s.gatewayURL == "" {
		gw, err := s.GatewayBot(ctx)
		if err != nil {
			return fmt.Errorf("corvid: failed to resolve gateway url: %w", err)
		}

		s.gatewayURL = gw.URL
	}

	s.baseCtx, s.baseCancel = context.WithCancel(context.Background())

	s.shard = newShard(s, s.config.ShardID, s.config.ShardCount)

	if err := s.shard.Connect(s.baseCtx); err != nil {
		return err
	}

	go func() {
		if err := s.shard.Listen(s.baseCtx); err != nil {
			s.logger.Error().Err(err).Msg("shard listen loop exited")
		}
	}()

	return nil
}

// Disconnect closes the gateway connection. The session's REST
// dispatcher and local state remain usable afterward.
func (s *Session) Disconnect() {
	s.closed.Store(true)

	if s.baseCancel != nil {
		s.baseCancel()
	}

	if s.shard != nil {
		s.shard.Close(websocket.StatusNormalClosure)
	}
}

// connErr reports why a gateway operation can't proceed right now:
// ErrClosed if Disconnect has already been called on this session,
// ErrNotConnected if it was never connected in the first place.
func (s *Session) connErr() error {
	if s.closed.Load() {
		return ErrClosed
	}

	return ErrNotConnected
}

// WaitForReady blocks until the shard has completed its handshake
// (READY or RESUMED), or ctx is cancelled.
func (s *Session) WaitForReady(ctx context.Context) error {
	if s.shard == nil || s.closed.Load() {
		return s.connErr()
	}

	return s.shard.WaitForReady(ctx)
}

// On registers fn to be called with the decoded payload every time
// eventType is dispatched. It returns a function that removes the
// listener.
func (s *Session) On(eventType string, fn func(interface{})) func() {
	return s.dispatcher.on(eventType, fn)
}

// State returns the session's local mirror for read access. Callers
// should treat returned structs as snapshots, not live views.
func (s *Session) State() *State {
	return &State{s: s}
}

// UpdatePresence sends a Status Update (opcode 3).
func (s *Session) UpdatePresence(ctx context.Context, update structs.UpdateStatus) error {
	if s.shard == nil || s.closed.Load() {
		return s.connErr()
	}

	return s.shard.SendStatusUpdate(ctx, update)
}

// UpdateVoiceState sends a Voice State Update (opcode 4). Pass a nil
// channelID to disconnect from voice.
func (s *Session) UpdateVoiceState(ctx context.Context, guildID structs.Snowflake, channelID *structs.Snowflake, selfMute, selfDeaf bool) error {
	if s.shard == nil || s.closed.Load() {
		return s.connErr()
	}

	return s.shard.SendVoiceStateUpdate(ctx, guildID, channelID, selfMute, selfDeaf)
}

// RequestGuildMembers sends a Request Guild Members (opcode 8) call and
// blocks until every chunk has arrived or MemberChunkTimeout elapses with
// no new chunk, returning whatever chunks arrived. Chunk results are also applied to
// the state store as they come in, regardless of whether this call times
// out waiting for the rest.
func (s *Session) RequestGuildMembers(ctx context.Context, req structs.RequestGuildMembers) ([]structs.GuildMembersChunk, error) {
	if s.shard == nil || s.closed.Load() {
		return nil, s.connErr()
	}

	nonce := req.Nonce
	if nonce == "" {
		nonce = randomNonce()
		req.Nonce = nonce
	}

	ch := make(chan structs.GuildMembersChunk, 1)

	s.chunksMu.Lock()
	s.chunks[nonce] = ch
	s.chunksMu.Unlock()

	defer func() {
		s.chunksMu.Lock()
		delete(s.chunks, nonce)
		s.chunksMu.Unlock()
	}()

	if err := s.shard.SendGuildMembersRequest(ctx, req); err != nil {
		return nil, err
	}

	var (
		chunks       []structs.GuildMembersChunk
		totalChunks  int32 = 1
		timeout            = time.NewTimer(MemberChunkTimeout)
	)

	defer timeout.Stop()

	for {
		select {
		case chunk := <-ch:
			chunks = append(chunks, chunk)
			totalChunks = chunk.ChunkCount

			timeout.Reset(MemberChunkTimeout)

			if int32(len(chunks)) >= totalChunks {
				return chunks, nil
			}
		case <-timeout.C:
			return chunks, nil
		case <-ctx.Done():
			return chunks, ctx.Err()
		}
	}
}

func (s *Session) deliverChunk(chunk structs.GuildMembersChunk) {
	s.chunksMu.Lock()
	ch, ok := s.chunks[chunk.Nonce]
	s.chunksMu.Unlock()

	if !ok {
		return
	}

	select {
	case ch <- chunk:
	default:
	}
}

func randomNonce() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}
