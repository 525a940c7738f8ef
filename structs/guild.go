package structs

// VerificationLevel enumerates a guild's verification requirement.
type VerificationLevel int32

const (
	VerificationLevelNone VerificationLevel = iota
	VerificationLevelLow
	VerificationLevelMedium
	VerificationLevelHigh
	VerificationLevelVeryHigh
)

// Guild holds everything corvid mirrors about a Discord guild.
// Channels/Members/Roles are each unique by id within the guild. A Guild
// decoded from a payload keeps the payload's order; one reassembled by the
// session state store lists them in no defined order.
type Guild struct {
	ID                Snowflake         `json:"id"`
	Name              string            `json:"name"`
	Icon              string            `json:"icon,omitempty"`
	OwnerID           Snowflake         `json:"owner_id,omitempty"`
	Region            string            `json:"region,omitempty"`
	AFKChannelID      Snowflake         `json:"afk_channel_id,omitempty"`
	AFKTimeout        int32             `json:"afk_timeout,omitempty"`
	VerificationLevel VerificationLevel `json:"verification_level,omitempty"`
	MemberCount       int32             `json:"member_count,omitempty"`
	Large             bool              `json:"large,omitempty"`
	Unavailable       bool              `json:"unavailable,omitempty"`

	Channels    []*Channel    `json:"channels,omitempty"`
	Members     []*Member     `json:"members,omitempty"`
	Roles       []*Role       `json:"roles,omitempty"`
	Emojis      []*Emoji      `json:"emojis,omitempty"`
	Presences   []*Presence   `json:"presences,omitempty"`
	VoiceStates []*VoiceState `json:"voice_states,omitempty"`

	// Metadata accepts any arbitrary server-supplied field corvid does
	// not model explicitly.
	Metadata map[string]interface{} `json:"-"`
}

// UnavailableGuild is the shape used in READY.guilds and GUILD_DELETE: a
// bare id with an unavailable flag.
type UnavailableGuild struct {
	ID          Snowflake `json:"id"`
	Unavailable bool      `json:"unavailable"`
}

// VoiceState mirrors a single member's voice connection state within a
// guild. corvid tracks this as part of routing events without opening a
// voice socket itself.
type VoiceState struct {
	GuildID   Snowflake `json:"guild_id,omitempty"`
	ChannelID Snowflake `json:"channel_id,omitempty"`
	UserID    Snowflake `json:"user_id"`
	SessionID string    `json:"session_id"`
	Mute      bool      `json:"mute"`
	Deaf      bool      `json:"deaf"`
	SelfMute  bool      `json:"self_mute"`
	SelfDeaf  bool      `json:"self_deaf"`
	Suppress  bool      `json:"suppress"`
}

// GuildBan carries the payload of GUILD_BAN_ADD / GUILD_BAN_REMOVE. These
// are log-only: member removal is signaled separately via
// GUILD_MEMBER_REMOVE.
type GuildBan struct {
	GuildID Snowflake `json:"guild_id"`
	User    User      `json:"user"`
}

// GuildRoleEvent carries GUILD_ROLE_CREATE / GUILD_ROLE_UPDATE.
type GuildRoleEvent struct {
	GuildID Snowflake `json:"guild_id"`
	Role    Role      `json:"role"`
}

// GuildRoleDelete carries GUILD_ROLE_DELETE.
type GuildRoleDelete struct {
	GuildID Snowflake `json:"guild_id"`
	RoleID  Snowflake `json:"role_id"`
}

// GuildEmojisUpdate carries GUILD_EMOJIS_UPDATE.
type GuildEmojisUpdate struct {
	GuildID Snowflake `json:"guild_id"`
	Emojis  []*Emoji  `json:"emojis"`
}

// GuildMemberRemove carries GUILD_MEMBER_REMOVE.
type GuildMemberRemove struct {
	GuildID Snowflake `json:"guild_id"`
	User    User      `json:"user"`
}

// GuildMembersChunk carries GUILD_MEMBERS_CHUNK.
type GuildMembersChunk struct {
	GuildID    Snowflake `json:"guild_id"`
	Members    []*Member `json:"members"`
	ChunkIndex int32     `json:"chunk_index"`
	ChunkCount int32     `json:"chunk_count"`
	Nonce      string    `json:"nonce,omitempty"`
}
