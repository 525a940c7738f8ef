package corvid

import (
	"context"
	"fmt"

	"github.com/corvidware/corvid/structs"
)

// GetUser fetches a user by id, bypassing the state store's directory.
func (s *Session) GetUser(ctx context.Context, userID structs.Snowflake) (structs.User, error) {
	var out structs.User

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/users/%s", userID), nil, "", &out)

	return out, err
}

// GetCurrentUser fetches the bot's own user object.
func (s *Session) GetCurrentUser(ctx context.Context) (structs.User, error) {
	var out structs.User

	err := s.rest.Send(ctx, "GET", "/users/@me", nil, "", &out)

	return out, err
}

// CreateDM opens (or fetches the existing) DM channel with recipientID.
func (s *Session) CreateDM(ctx context.Context, recipientID structs.Snowflake) (structs.Channel, error) {
	var out structs.Channel

	body, err := Marshal(map[string]interface{}{"recipient_id": recipientID})
	if err != nil {
		return out, err
	}

	err = s.rest.Send(ctx, "POST", "/users/@me/channels", body, "application/json", &out)

	return out, err
}
