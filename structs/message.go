package structs

// Message is intentionally minimal: messages are log-only and never
// cached, so only the fields corvid's REST wrappers need to build/parse
// requests and responses are modeled.
type Message struct {
	ID              Snowflake     `json:"id"`
	ChannelID       Snowflake     `json:"channel_id"`
	GuildID         Snowflake     `json:"guild_id,omitempty"`
	Author          User          `json:"author"`
	Content         string        `json:"content"`
	Timestamp       Timestamp     `json:"timestamp"`
	EditedTimestamp Timestamp     `json:"edited_timestamp,omitempty"`
	TTS             bool          `json:"tts"`
	MentionEveryone bool          `json:"mention_everyone"`
	Mentions        []User        `json:"mentions,omitempty"`
	Attachments     []Attachment  `json:"attachments,omitempty"`
	Embeds          []Embed       `json:"embeds,omitempty"`
	Pinned          bool          `json:"pinned,omitempty"`
	Nonce           interface{}   `json:"nonce,omitempty"`
}

// Attachment describes a single uploaded file on a message.
type Attachment struct {
	ID       Snowflake `json:"id"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	URL      string    `json:"url"`
	ProxyURL string    `json:"proxy_url"`
	Width    int32     `json:"width,omitempty"`
	Height   int32     `json:"height,omitempty"`
}

// Embed is a rich message embed.
type Embed struct {
	Title       string         `json:"title,omitempty"`
	Type        string         `json:"type,omitempty"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	Color       int32          `json:"color,omitempty"`
	Footer      *EmbedFooter   `json:"footer,omitempty"`
	Image       *EmbedMedia    `json:"image,omitempty"`
	Thumbnail   *EmbedMedia    `json:"thumbnail,omitempty"`
	Author      *EmbedAuthor   `json:"author,omitempty"`
	Fields      []EmbedField   `json:"fields,omitempty"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedMedia struct {
	URL string `json:"url"`
}

type EmbedAuthor struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// AllowedMentions controls which mentions in a sent message actually
// notify users.
type AllowedMentions struct {
	Parse       []string    `json:"parse,omitempty"`
	Roles       []Snowflake `json:"roles,omitempty"`
	Users       []Snowflake `json:"users,omitempty"`
	RepliedUser bool        `json:"replied_user,omitempty"`
}

// ChannelPinsUpdate carries CHANNEL_PINS_UPDATE (log-only).
type ChannelPinsUpdate struct {
	GuildID          Snowflake `json:"guild_id,omitempty"`
	ChannelID        Snowflake `json:"channel_id"`
	LastPinTimestamp Timestamp `json:"last_pin_timestamp,omitempty"`
}

// TypingStart carries TYPING_START (log-only).
type TypingStart struct {
	ChannelID Snowflake `json:"channel_id"`
	GuildID   Snowflake `json:"guild_id,omitempty"`
	UserID    Snowflake `json:"user_id"`
	Timestamp int64     `json:"timestamp"`
}

// MessageDeleteBulk carries MESSAGE_DELETE_BULK.
type MessageDeleteBulk struct {
	IDs       []Snowflake `json:"ids"`
	ChannelID Snowflake   `json:"channel_id"`
	GuildID   Snowflake   `json:"guild_id,omitempty"`
}
