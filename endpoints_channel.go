package corvid

import (
	"context"
	"fmt"
	"strconv"

	"github.com/corvidware/corvid/structs"
)

// GetChannel fetches a channel by id.
func (s *Session) GetChannel(ctx context.Context, channelID structs.Snowflake) (structs.Channel, error) {
	var out structs.Channel

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/channels/%s", channelID), nil, "", &out)

	return out, err
}

// EditChannel patches a channel's modifiable fields. fields is encoded
// with the dynamic schema encoder so only the keys a caller actually set
// are sent, matching Discord's PATCH semantics (omitted fields are left
// untouched server-side, not cleared).
func (s *Session) EditChannel(ctx context.Context, channelID structs.Snowflake, schema structs.Schema, fields map[string]interface{}) (structs.Channel, error) {
	var out structs.Channel

	body, err := EncodeSchema(schema, fields)
	if err != nil {
		return out, err
	}

	err = s.rest.Send(ctx, "PATCH", fmt.Sprintf("/channels/%s", channelID), body, "application/json", &out)

	return out, err
}

// DeleteChannel deletes a channel, or closes a DM.
func (s *Session) DeleteChannel(ctx context.Context, channelID structs.Snowflake) error {
	return s.rest.Send(ctx, "DELETE", fmt.Sprintf("/channels/%s", channelID), nil, "", nil)
}

// GetChannelMessages fetches up to limit messages from a channel.
func (s *Session) GetChannelMessages(ctx context.Context, channelID structs.Snowflake, limit int) ([]structs.Message, error) {
	var out []structs.Message

	route := fmt.Sprintf("/channels/%s/messages?%s", channelID, EncodeQuery(map[string]string{
		"limit": strconv.Itoa(limit),
	}))
	err := s.rest.Send(ctx, "GET", route, nil, "", &out)

	return out, err
}

// CreateMessage sends a message to a channel. If params carries any
// Files, the request is sent as multipart/form-data: content, nonce and tts
// go in their own form fields, any embeds, allowed mentions, username or
// avatar URL are JSON-encoded under payload_json, and each file is its own
// part. Otherwise it is sent as a plain JSON body.
func (s *Session) CreateMessage(ctx context.Context, channelID structs.Snowflake, params structs.WebhookMessageParams) (structs.Message, error) {
	var out structs.Message

	body, contentType, err := encodeMessageBody(params)
	if err != nil {
		return out, err
	}

	err = s.rest.Send(ctx, "POST", fmt.Sprintf("/channels/%s/messages", channelID), body, contentType, &out)

	return out, err
}

// EditMessage edits a previously sent message.
func (s *Session) EditMessage(ctx context.Context, channelID, messageID structs.Snowflake, params structs.WebhookMessageParams) (structs.Message, error) {
	var out structs.Message

	body, contentType, err := encodeMessageBody(params)
	if err != nil {
		return out, err
	}

	route := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	err = s.rest.Send(ctx, "PATCH", route, body, contentType, &out)

	return out, err
}

// DeleteMessage deletes a single message.
func (s *Session) DeleteMessage(ctx context.Context, channelID, messageID structs.Snowflake) error {
	route := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	return s.rest.Send(ctx, "DELETE", route, nil, "", nil)
}

// BulkDeleteMessages deletes 2-100 messages in a single call.
func (s *Session) BulkDeleteMessages(ctx context.Context, channelID structs.Snowflake, messageIDs []structs.Snowflake) error {
	body, err := Marshal(map[string]interface{}{"messages": messageIDs})
	if err != nil {
		return err
	}

	route := fmt.Sprintf("/channels/%s/messages/bulk-delete", channelID)

	return s.rest.Send(ctx, "POST", route, body, "application/json", nil)
}

// PinMessage pins a message in its channel.
func (s *Session) PinMessage(ctx context.Context, channelID, messageID structs.Snowflake) error {
	route := fmt.Sprintf("/channels/%s/pins/%s", channelID, messageID)
	return s.rest.Send(ctx, "PUT", route, nil, "", nil)
}

// UnpinMessage unpins a message from its channel.
func (s *Session) UnpinMessage(ctx context.Context, channelID, messageID structs.Snowflake) error {
	route := fmt.Sprintf("/channels/%s/pins/%s", channelID, messageID)
	return s.rest.Send(ctx, "DELETE", route, nil, "", nil)
}

// EditChannelPermissions sets a permission overwrite for a member or role
// on a channel.
func (s *Session) EditChannelPermissions(ctx context.Context, channelID, overwriteID structs.Snowflake, allow, deny structs.Permission, overwriteType int32) error {
	body, err := Marshal(map[string]interface{}{
		"allow": allow.String(),
		"deny":  deny.String(),
		"type":  overwriteType,
	})
	if err != nil {
		return err
	}

	route := fmt.Sprintf("/channels/%s/permissions/%s", channelID, overwriteID)

	return s.rest.Send(ctx, "PUT", route, body, "application/json", nil)
}

// encodeMessageBody chooses between a plain JSON body and a multipart
// body depending on whether params carries file attachments.
func encodeMessageBody(params structs.WebhookMessageParams) (body []byte, contentType string, err error) {
	if len(params.Files) == 0 {
		body, err = Marshal(params)
		return body, "application/json", err
	}

	body, contentType = buildMultipart(params)

	return body, contentType, nil
}
