package structs

// ChannelType enumerates the kind of channel: text, DM, voice, plus the
// modern thread/forum variants needed to route
// CHANNEL_CREATE/THREAD_CREATE correctly.
type ChannelType int32

const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeGuildAnnouncement  ChannelType = 5
	ChannelTypeAnnouncementThread ChannelType = 10
	ChannelTypeGuildPublicThread  ChannelType = 11
	ChannelTypeGuildPrivateThread ChannelType = 12
	ChannelTypeGuildStageVoice    ChannelType = 13
	ChannelTypeGuildForum         ChannelType = 15
)

// IsDM reports whether a channel type lives outside of a guild.
func (t ChannelType) IsDM() bool {
	return t == ChannelTypeDM || t == ChannelTypeGroupDM
}

// IsThread reports whether a channel type is a thread (routed like a
// channel for CRUD purposes).
func (t ChannelType) IsThread() bool {
	switch t {
	case ChannelTypeAnnouncementThread, ChannelTypeGuildPublicThread, ChannelTypeGuildPrivateThread:
		return true
	default:
		return false
	}
}

// Overwrite is a per-channel permission allow/deny record attached to a
// user or role.
type Overwrite struct {
	ID    Snowflake `json:"id"`
	Type  int32     `json:"type"` // 0 = role, 1 = member
	Allow string    `json:"allow"`
	Deny  string    `json:"deny"`
}

// Channel holds the fields corvid needs to mirror a Discord channel,
// guild-scoped (Text/Voice/Thread) or a DM.
type Channel struct {
	ID                   Snowflake     `json:"id"`
	Type                 ChannelType   `json:"type"`
	GuildID              Snowflake     `json:"guild_id,omitempty"`
	Name                 string        `json:"name,omitempty"`
	Topic                string        `json:"topic,omitempty"`
	Position             int32         `json:"position,omitempty"`
	Bitrate              int32         `json:"bitrate,omitempty"`
	UserLimit            int32         `json:"user_limit,omitempty"`
	LastMessageID        Snowflake     `json:"last_message_id,omitempty"`
	ParentID             Snowflake     `json:"parent_id,omitempty"`
	NSFW                 bool          `json:"nsfw,omitempty"`
	PermissionOverwrites []Overwrite   `json:"permission_overwrites,omitempty"`

	// DM-only.
	Recipients []User `json:"recipients,omitempty"`
}

// IsDM reports whether this channel belongs to dmChannels rather than a
// guild's channel list.
func (c Channel) IsDM() bool {
	return c.Type.IsDM()
}
