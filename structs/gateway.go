package structs

import "encoding/json"

// gateway.go contains the wire structures exchanged with Discord's gateway:
// the envelope, every opcode's payload, and the gateway close codes.

// GatewayOp is the "op" field of every gateway payload.
type GatewayOp uint8

const (
	GatewayOpDispatch GatewayOp = iota
	GatewayOpHeartbeat
	GatewayOpIdentify
	GatewayOpStatusUpdate
	GatewayOpVoiceStateUpdate
	GatewayOpVoiceServerPing
	GatewayOpResume
	GatewayOpReconnect
	GatewayOpRequestGuildMembers
	GatewayOpInvalidSession
	GatewayOpHello
	GatewayOpHeartbeatACK
)

// Gateway close codes, as sent on the websocket close frame.
const (
	CloseUnknownError         = 4000
	CloseUnknownOpCode        = 4001
	CloseDecodeError          = 4002
	CloseNotAuthenticated     = 4003
	CloseAuthenticationFailed = 4004
	CloseAlreadyAuthenticated = 4005
	CloseInvalidSeq           = 4007
	CloseRateLimited          = 4008
	CloseSessionTimedOut      = 4009
	CloseInvalidShard         = 4010
	CloseShardingRequired     = 4011
	CloseInvalidAPIVersion    = 4012
	CloseInvalidIntents       = 4013
	CloseDisallowedIntents    = 4014
)

// PermanentCloseCodes are close codes after which the engine must not
// attempt to reconnect: the credential, shard configuration, or API
// version is wrong and retrying would fail identically forever.
var PermanentCloseCodes = map[int]bool{
	CloseAuthenticationFailed: true,
	CloseInvalidShard:         true,
	CloseShardingRequired:     true,
	CloseInvalidAPIVersion:    true,
	CloseInvalidIntents:       true,
	CloseDisallowedIntents:    true,
}

// GatewayPayload is the envelope received from the gateway.
type GatewayPayload struct {
	Op       GatewayOp       `json:"op"`
	Data     json.RawMessage `json:"d"`
	Sequence *int64          `json:"s,omitempty"`
	Type     string          `json:"t,omitempty"`
}

// SentPayload is the envelope sent to the gateway.
type SentPayload struct {
	Op   GatewayOp   `json:"op"`
	Data interface{} `json:"d"`
}

// Hello is received immediately after the websocket opens.
type Hello struct {
	HeartbeatInterval int64    `json:"heartbeat_interval"`
	Trace             []string `json:"_trace,omitempty"`
}

// IdentifyProperties describes the connecting client.
type IdentifyProperties struct {
	OS              string `json:"$os"`
	Browser         string `json:"$browser"`
	Device          string `json:"$device"`
	Referrer        string `json:"$referrer,omitempty"`
	ReferringDomain string `json:"$referring_domain,omitempty"`
}

// Identify is the opcode-2 handshake payload.
type Identify struct {
	Token          string              `json:"token"`
	Properties     IdentifyProperties  `json:"properties"`
	Compress       bool                `json:"compress"`
	LargeThreshold int                 `json:"large_threshold"`
	Shard          [2]int32            `json:"shard"`
	Presence       *UpdateStatus       `json:"presence,omitempty"`
	Intents        int64               `json:"intents"`
}

// Resume is the opcode-6 reconnection payload.
type Resume struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Sequence  int64  `json:"seq"`
}

// RequestGuildMembers is the opcode-8 payload.
type RequestGuildMembers struct {
	GuildID   Snowflake   `json:"guild_id"`
	Query     *string     `json:"query,omitempty"`
	Limit     int         `json:"limit"`
	Presences bool        `json:"presences,omitempty"`
	UserIDs   []Snowflake `json:"user_ids,omitempty"`
	Nonce     string      `json:"nonce,omitempty"`
}

// UpdateStatus is the opcode-3 status-update payload.
type UpdateStatus struct {
	Since      *int64     `json:"since"`
	Activities []Activity `json:"activities"`
	Status     string     `json:"status"`
	AFK        bool       `json:"afk"`
}

// InvalidSession is the opcode-9 payload: d is a bool indicating whether
// the session is resumable.
type InvalidSession struct {
	Resumable bool `json:"d"`
}

// Ready is the payload of the first Dispatch event (t=READY).
type Ready struct {
	Version          int32              `json:"v"`
	User             User               `json:"user"`
	Guilds           []UnavailableGuild `json:"guilds"`
	PrivateChannels  []Channel          `json:"private_channels"`
	SessionID        string             `json:"session_id"`
	ResumeGatewayURL string             `json:"resume_gateway_url"`
	Shard            []int32            `json:"shard,omitempty"`
}

// Resumed is the payload of the Dispatch event that confirms a resume.
type Resumed struct {
	Trace []string `json:"_trace,omitempty"`
}

// GatewayBotResponse is returned by GET /gateway/bot.
type GatewayBotResponse struct {
	URL               string            `json:"url"`
	Shards            int32             `json:"shards"`
	SessionStartLimit SessionStartLimit `json:"session_start_limit"`
}

// SessionStartLimit describes how many Identifies remain in the current
// rolling window.
type SessionStartLimit struct {
	Total          int32 `json:"total"`
	Remaining      int32 `json:"remaining"`
	ResetAfter     int64 `json:"reset_after"`
	MaxConcurrency int32 `json:"max_concurrency"`
}

// GatewayResponse is returned by the unauthenticated GET /gateway.
type GatewayResponse struct {
	URL string `json:"url"`
}
