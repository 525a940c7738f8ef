package corvid

import (
	"context"
	"fmt"

	"github.com/corvidware/corvid/structs"
)

// CreateWebhook creates a webhook on a channel.
func (s *Session) CreateWebhook(ctx context.Context, channelID structs.Snowflake, name, avatar string) (structs.Webhook, error) {
	var out structs.Webhook

	body, err := Marshal(map[string]interface{}{"name": name, "avatar": avatar})
	if err != nil {
		return out, err
	}

	route := fmt.Sprintf("/channels/%s/webhooks", channelID)
	err = s.rest.Send(ctx, "POST", route, body, "application/json", &out)

	return out, err
}

// GetChannelWebhooks lists a channel's webhooks.
func (s *Session) GetChannelWebhooks(ctx context.Context, channelID structs.Snowflake) ([]structs.Webhook, error) {
	var out []structs.Webhook

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/channels/%s/webhooks", channelID), nil, "", &out)

	return out, err
}

// DeleteWebhook deletes a webhook by id, authenticated as the bot.
func (s *Session) DeleteWebhook(ctx context.Context, webhookID structs.Snowflake) error {
	return s.rest.Send(ctx, "DELETE", fmt.Sprintf("/webhooks/%s", webhookID), nil, "", nil)
}

// ExecuteWebhook posts a message through webhook using its own token,
// never this Session's credential: Discord authenticates webhook
// execution by the token embedded in the webhook's URL.
func (s *Session) ExecuteWebhook(ctx context.Context, webhook structs.Webhook, params structs.WebhookMessageParams) (structs.Message, error) {
	var out structs.Message

	body, contentType, err := encodeMessageBody(params)
	if err != nil {
		return out, err
	}

	route := fmt.Sprintf("/webhooks/%s/%s", webhook.ID, webhook.Token)

	err = s.rest.SendUnauthenticated(ctx, "POST", route, body, contentType, &out)

	return out, err
}
