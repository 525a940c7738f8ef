package structs

// Member is a guild member: the user plus guild-scoped attributes. It is
// uniquely keyed by User.ID within a guild.
type Member struct {
	User     *User       `json:"user,omitempty"`
	Nick     string      `json:"nick,omitempty"`
	Roles    []Snowflake `json:"roles"`
	JoinedAt Timestamp   `json:"joined_at"`
	Mute     bool        `json:"mute"`
	Deaf     bool        `json:"deaf"`

	// GuildID is not present on the wire payload of most member events but
	// is filled in by the built-in handlers so callers needn't thread it
	// through separately.
	GuildID Snowflake `json:"guild_id,omitempty"`
}

// UserID returns the id of the member's user, or 0 if unset.
func (m Member) UserID() Snowflake {
	if m.User == nil {
		return 0
	}

	return m.User.ID
}

// MemberUpdate is the GUILD_MEMBER_UPDATE payload shape. Discord's other
// member-bearing events always carry a complete Member, but this one may
// omit any field besides GuildID and User to mean "unchanged" — every
// other field is a pointer so the built-in handler can tell that apart
// from "present, set back to its zero value" and merge onto whatever is
// already cached instead of decoding straight into a Member and losing
// whatever the sender left out.
type MemberUpdate struct {
	GuildID  Snowflake    `json:"guild_id"`
	User     *User        `json:"user"`
	Nick     *string      `json:"nick"`
	Roles    *[]Snowflake `json:"roles"`
	JoinedAt *Timestamp   `json:"joined_at"`
	Mute     *bool        `json:"mute"`
	Deaf     *bool        `json:"deaf"`
}
