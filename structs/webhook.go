package structs

import "encoding/json"

// WebhookType enumerates the kind of webhook.
type WebhookType int32

const (
	WebhookTypeIncoming       WebhookType = 1
	WebhookTypeChannelFollower WebhookType = 2
	WebhookTypeApplication    WebhookType = 3
)

// Webhook represents a webhook on Discord.
type Webhook struct {
	ID            Snowflake   `json:"id"`
	Type          WebhookType `json:"type"`
	GuildID       Snowflake   `json:"guild_id,omitempty"`
	ChannelID     Snowflake   `json:"channel_id,omitempty"`
	User          *User       `json:"user,omitempty"`
	Name          string      `json:"name,omitempty"`
	Avatar        string      `json:"avatar,omitempty"`
	Token         string      `json:"token,omitempty"`
	ApplicationID Snowflake   `json:"application_id,omitempty"`
}

// WebhookMessageParams builds the body of an ExecuteWebhook call. The
// token used to authenticate the call always comes from the Webhook
// struct the caller passes in, never an ambient variable.
type WebhookMessageParams struct {
	Content         string            `json:"content,omitempty"`
	Nonce           string            `json:"nonce,omitempty"`
	Username        string            `json:"username,omitempty"`
	AvatarURL       string            `json:"avatar_url,omitempty"`
	TTS             bool              `json:"tts,omitempty"`
	Embeds          []Embed           `json:"embeds,omitempty"`
	AllowedMentions *AllowedMentions  `json:"allowed_mentions,omitempty"`
	PayloadJSON     *json.RawMessage  `json:"payload_json,omitempty"`

	// Files are carried out-of-band via the multipart encoder; never
	// marshalled directly into the JSON body.
	Files []File `json:"-"`
}

// File is a single multipart attachment for message/webhook sends.
type File struct {
	Name        string
	ContentType string
	Reader      []byte
}
