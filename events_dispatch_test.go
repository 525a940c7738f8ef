package corvid

import (
	"testing"

	"github.com/corvidware/corvid/structs"
	"github.com/stretchr/testify/assert"
)

func TestGuildMemberUpdatePreservesOmittedRoles(t *testing.T) {
	s := &Session{state: newState()}

	guildID := structs.Snowflake(7)
	userID := structs.Snowflake(77)

	s.state.SetMember(guildID, &structs.Member{
		User:  &structs.User{ID: userID},
		Nick:  "old",
		Roles: []structs.Snowflake{1},
	})

	decoded, err := onGuildMemberUpdate(s, []byte(`{"guild_id":"7","user":{"id":"77"},"nick":"new"}`))
	assert.NoError(t, err)

	updated := decoded.(structs.Member)
	assert.Equal(t, "new", updated.Nick)
	assert.Equal(t, []structs.Snowflake{1}, updated.Roles)

	cached := s.state.Member(guildID, userID)
	assert.Equal(t, "new", cached.Nick)
	assert.Equal(t, []structs.Snowflake{1}, cached.Roles)
}

func TestGuildMemberUpdateAppliesRolesWhenPresent(t *testing.T) {
	s := &Session{state: newState()}

	guildID := structs.Snowflake(8)
	userID := structs.Snowflake(88)

	s.state.SetMember(guildID, &structs.Member{
		User:  &structs.User{ID: userID},
		Roles: []structs.Snowflake{1, 2},
	})

	_, err := onGuildMemberUpdate(s, []byte(`{"guild_id":"8","user":{"id":"88"},"roles":["3"]}`))
	assert.NoError(t, err)

	cached := s.state.Member(guildID, userID)
	assert.Equal(t, []structs.Snowflake{3}, cached.Roles)
}

func TestPresenceUpdateMergesUserAndMember(t *testing.T) {
	s := &Session{state: newState()}

	guildID := structs.Snowflake(9)
	userID := structs.Snowflake(99)

	s.state.SetMember(guildID, &structs.Member{
		User:  &structs.User{ID: userID},
		Nick:  "old",
		Roles: []structs.Snowflake{1},
	})

	decoded, err := onPresenceUpdate(s, []byte(`{
		"guild_id": "9",
		"user": {"id": "99", "username": "newname"},
		"status": "online",
		"roles": ["2", "3"],
		"nick": "new"
	}`))
	assert.NoError(t, err)

	update := decoded.(structs.PresenceUpdate)
	assert.Equal(t, []structs.Snowflake{2, 3}, update.Roles)

	cachedUser := s.state.User(userID)
	assert.NotNil(t, cachedUser)
	assert.Equal(t, "newname", cachedUser.Username)

	cachedMember := s.state.Member(guildID, userID)
	assert.NotNil(t, cachedMember)
	assert.Equal(t, "new", cachedMember.Nick)
	assert.Equal(t, []structs.Snowflake{2, 3}, cachedMember.Roles)
}

func TestReadyPopulatesPrivateChannelsIntoState(t *testing.T) {
	s := &Session{state: newState()}

	decoded, err := onReady(s, []byte(`{
		"user": {"id": "1"},
		"guilds": [],
		"private_channels": [{"id": "55", "type": 1}],
		"session_id": "abc"
	}`))
	assert.NoError(t, err)

	ready := decoded.(structs.Ready)
	assert.Len(t, ready.PrivateChannels, 1)

	cached := s.state.Channel(structs.Snowflake(55))
	assert.NotNil(t, cached)
	assert.Equal(t, structs.Snowflake(55), cached.ID)
}

func TestPresenceUpdatePreservesCachedUserFieldsNotRepeated(t *testing.T) {
	s := &Session{state: newState()}

	userID := structs.Snowflake(200)

	s.state.SetUser(&structs.User{
		ID:            userID,
		Username:      "original",
		Discriminator: "0001",
		Avatar:        "original-avatar",
		Bot:           false,
	})

	_, err := onPresenceUpdate(s, []byte(`{
		"guild_id": "0",
		"user": {"id": "200"},
		"status": "online"
	}`))
	assert.NoError(t, err)

	cached := s.state.User(userID)
	assert.NotNil(t, cached)
	assert.Equal(t, "original", cached.Username)
	assert.Equal(t, "0001", cached.Discriminator)
	assert.Equal(t, "original-avatar", cached.Avatar)
}

func TestPresenceUpdateWithoutGuildOnlyMergesUser(t *testing.T) {
	s := &Session{state: newState()}

	userID := structs.Snowflake(100)

	_, err := onPresenceUpdate(s, []byte(`{
		"guild_id": "0",
		"user": {"id": "100", "username": "dmuser"},
		"status": "idle"
	}`))
	assert.NoError(t, err)

	cachedUser := s.state.User(userID)
	assert.NotNil(t, cachedUser)
	assert.Equal(t, "dmuser", cachedUser.Username)
}
