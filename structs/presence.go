package structs

// Presence is carried inside GUILD_CREATE's presences list. On guild
// install the state store files each entry under its guild as-is; these
// entries are not passed through the PRESENCE_UPDATE handler.
type Presence struct {
	User    User       `json:"user"`
	GuildID Snowflake  `json:"guild_id,omitempty"`
	Status  string     `json:"status"`
	Game    *Activity  `json:"game,omitempty"`
}

// PresenceUpdate is the payload of a PRESENCE_UPDATE dispatch event. Roles
// and Nick are a guild member's current full role list and nickname at the
// time of the presence change, carried here (rather than in a dedicated
// member-update event) so the builtin handler can merge them into the
// matching guild member alongside the user/status merge.
type PresenceUpdate struct {
	User    User        `json:"user"`
	GuildID Snowflake   `json:"guild_id"`
	Status  string      `json:"status"`
	Game    *Activity   `json:"game,omitempty"`
	Roles   []Snowflake `json:"roles,omitempty"`
	Nick    *string     `json:"nick,omitempty"`
}
