package corvid

import (
	"context"
	"fmt"
	"strconv"

	"github.com/corvidware/corvid/structs"
)

// GetGuild fetches a guild by id directly from the REST API, independent
// of whatever the gateway has already told this session about it.
func (s *Session) GetGuild(ctx context.Context, guildID structs.Snowflake) (structs.Guild, error) {
	var out structs.Guild

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/guilds/%s", guildID), nil, "", &out)

	return out, err
}

// GetGuildChannels lists a guild's channels.
func (s *Session) GetGuildChannels(ctx context.Context, guildID structs.Snowflake) ([]structs.Channel, error) {
	var out []structs.Channel

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/guilds/%s/channels", guildID), nil, "", &out)

	return out, err
}

// CreateGuildChannel creates a channel in a guild. fields is encoded with
// the dynamic schema encoder, matching Discord's loosely-typed channel
// creation body.
func (s *Session) CreateGuildChannel(ctx context.Context, guildID structs.Snowflake, schema structs.Schema, fields map[string]interface{}) (structs.Channel, error) {
	var out structs.Channel

	body, err := EncodeSchema(schema, fields)
	if err != nil {
		return out, err
	}

	err = s.rest.Send(ctx, "POST", fmt.Sprintf("/guilds/%s/channels", guildID), body, "application/json", &out)

	return out, err
}

// GetGuildMember fetches a single member, bypassing the state store.
func (s *Session) GetGuildMember(ctx context.Context, guildID, userID structs.Snowflake) (structs.Member, error) {
	var out structs.Member

	route := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	err := s.rest.Send(ctx, "GET", route, nil, "", &out)

	return out, err
}

// ListGuildMembers pages through a guild's member list, limit at a time,
// starting after after (0 for the first page).
func (s *Session) ListGuildMembers(ctx context.Context, guildID structs.Snowflake, limit int, after structs.Snowflake) ([]structs.Member, error) {
	var out []structs.Member

	params := map[string]string{"limit": strconv.Itoa(limit)}
	if !after.IsNil() {
		params["after"] = after.String()
	}

	route := fmt.Sprintf("/guilds/%s/members?%s", guildID, EncodeQuery(params))
	err := s.rest.Send(ctx, "GET", route, nil, "", &out)

	return out, err
}

// ModifyGuildMember patches a member's guild-scoped attributes (nick,
// roles, mute, deaf, etc).
func (s *Session) ModifyGuildMember(ctx context.Context, guildID, userID structs.Snowflake, schema structs.Schema, fields map[string]interface{}) (structs.Member, error) {
	var out structs.Member

	body, err := EncodeSchema(schema, fields)
	if err != nil {
		return out, err
	}

	route := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	err = s.rest.Send(ctx, "PATCH", route, body, "application/json", &out)

	return out, err
}

// AddGuildMemberRole grants a role to a member.
func (s *Session) AddGuildMemberRole(ctx context.Context, guildID, userID, roleID structs.Snowflake) error {
	route := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID)
	return s.rest.Send(ctx, "PUT", route, nil, "", nil)
}

// RemoveGuildMemberRole revokes a role from a member.
func (s *Session) RemoveGuildMemberRole(ctx context.Context, guildID, userID, roleID structs.Snowflake) error {
	route := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID)
	return s.rest.Send(ctx, "DELETE", route, nil, "", nil)
}

// RemoveGuildMember kicks a member from a guild.
func (s *Session) RemoveGuildMember(ctx context.Context, guildID, userID structs.Snowflake) error {
	route := fmt.Sprintf("/guilds/%s/members/%s", guildID, userID)
	return s.rest.Send(ctx, "DELETE", route, nil, "", nil)
}

// Ban is a single entry from GET /guilds/{id}/bans: distinct from the
// GUILD_BAN_ADD dispatch payload, which carries no reason.
type Ban struct {
	Reason string      `json:"reason"`
	User   structs.User `json:"user"`
}

// GetGuildBans lists a guild's bans.
func (s *Session) GetGuildBans(ctx context.Context, guildID structs.Snowflake) ([]Ban, error) {
	var out []Ban

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/guilds/%s/bans", guildID), nil, "", &out)

	return out, err
}

// CreateGuildBan bans a user, optionally deleting their recent messages.
func (s *Session) CreateGuildBan(ctx context.Context, guildID, userID structs.Snowflake, deleteMessageSeconds int) error {
	body, err := Marshal(map[string]interface{}{"delete_message_seconds": deleteMessageSeconds})
	if err != nil {
		return err
	}

	route := fmt.Sprintf("/guilds/%s/bans/%s", guildID, userID)

	return s.rest.Send(ctx, "PUT", route, body, "application/json", nil)
}

// RemoveGuildBan unbans a user.
func (s *Session) RemoveGuildBan(ctx context.Context, guildID, userID structs.Snowflake) error {
	route := fmt.Sprintf("/guilds/%s/bans/%s", guildID, userID)
	return s.rest.Send(ctx, "DELETE", route, nil, "", nil)
}

// GetGuildRoles lists a guild's roles.
func (s *Session) GetGuildRoles(ctx context.Context, guildID structs.Snowflake) ([]structs.Role, error) {
	var out []structs.Role

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/guilds/%s/roles", guildID), nil, "", &out)

	return out, err
}

// CreateGuildRole creates a new role.
func (s *Session) CreateGuildRole(ctx context.Context, guildID structs.Snowflake, schema structs.Schema, fields map[string]interface{}) (structs.Role, error) {
	var out structs.Role

	body, err := EncodeSchema(schema, fields)
	if err != nil {
		return out, err
	}

	err = s.rest.Send(ctx, "POST", fmt.Sprintf("/guilds/%s/roles", guildID), body, "application/json", &out)

	return out, err
}

// EditGuildRole patches a role's fields.
func (s *Session) EditGuildRole(ctx context.Context, guildID, roleID structs.Snowflake, schema structs.Schema, fields map[string]interface{}) (structs.Role, error) {
	var out structs.Role

	body, err := EncodeSchema(schema, fields)
	if err != nil {
		return out, err
	}

	route := fmt.Sprintf("/guilds/%s/roles/%s", guildID, roleID)
	err = s.rest.Send(ctx, "PATCH", route, body, "application/json", &out)

	return out, err
}

// DeleteGuildRole deletes a role.
func (s *Session) DeleteGuildRole(ctx context.Context, guildID, roleID structs.Snowflake) error {
	route := fmt.Sprintf("/guilds/%s/roles/%s", guildID, roleID)
	return s.rest.Send(ctx, "DELETE", route, nil, "", nil)
}

// GetGuildEmojis lists a guild's custom emojis.
func (s *Session) GetGuildEmojis(ctx context.Context, guildID structs.Snowflake) ([]structs.Emoji, error) {
	var out []structs.Emoji

	err := s.rest.Send(ctx, "GET", fmt.Sprintf("/guilds/%s/emojis", guildID), nil, "", &out)

	return out, err
}

// LeaveGuild removes this bot from a guild it's a member of.
func (s *Session) LeaveGuild(ctx context.Context, guildID structs.Snowflake) error {
	return s.rest.Send(ctx, "DELETE", fmt.Sprintf("/users/@me/guilds/%s", guildID), nil, "", nil)
}
