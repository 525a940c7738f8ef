package structs

// User stores the session-wide de-duplicated directory entry for a single
// Discord user. Presence-carried fields (Status, Game) are merged in by
// the PRESENCE_UPDATE built-in handler and are not always present.
type User struct {
	ID            Snowflake `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	GlobalName    string    `json:"global_name,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	Bot           bool      `json:"bot,omitempty"`
	System        bool      `json:"system,omitempty"`
	PublicFlags   int64     `json:"public_flags,omitempty"`

	// Status/Game are populated from PRESENCE_UPDATE merges; they are not
	// part of the wire User object Discord sends on most events.
	Status string    `json:"status,omitempty"`
	Game   *Activity `json:"game,omitempty"`
}

// Activity (historically "Game") describes what a user is shown as doing.
type Activity struct {
	Name  string `json:"name"`
	Type  int32  `json:"type"`
	URL   string `json:"url,omitempty"`
	State string `json:"state,omitempty"`
}

// PresenceStatus enumerates the values Discord uses for User.Status.
type PresenceStatus string

const (
	PresenceStatusOnline       PresenceStatus = "online"
	PresenceStatusIdle         PresenceStatus = "idle"
	PresenceStatusDoNotDisturb PresenceStatus = "dnd"
	PresenceStatusInvisible    PresenceStatus = "invisible"
	PresenceStatusOffline      PresenceStatus = "offline"
)
