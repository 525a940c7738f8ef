package corvid

import (
	"testing"

	"github.com/corvidware/corvid/structs"
	"github.com/stretchr/testify/assert"
)

func TestStateGuildCreateThenDelete(t *testing.T) {
	st := newState()

	guildID := structs.Snowflake(1)

	st.SetGuild(&structs.Guild{
		ID:   guildID,
		Name: "test guild",
		Channels: []*structs.Channel{
			{ID: 10, Name: "general"},
		},
		Roles: []*structs.Role{
			{ID: 20, Name: "everyone"},
		},
	})

	g := st.Guild(guildID)
	assert.NotNil(t, g)
	assert.Equal(t, "test guild", g.Name)
	assert.Len(t, g.Channels, 1)
	assert.Len(t, g.Roles, 1)
	assert.False(t, g.Unavailable)

	assert.NotNil(t, st.Channel(10))

	removed := st.RemoveGuild(guildID)
	assert.NotNil(t, removed)

	assert.Nil(t, st.Guild(guildID))
	assert.Nil(t, st.Channel(10))
}

func TestStateGuildDeleteUnavailableKeepsGuild(t *testing.T) {
	st := newState()
	guildID := structs.Snowflake(2)

	st.SetGuild(&structs.Guild{ID: guildID, Name: "still here"})
	st.SetUnavailableGuild(guildID)

	g := st.Guild(guildID)
	assert.NotNil(t, g)
	assert.True(t, g.Unavailable)
}

func TestStateSetMemberOverwritesCachedMember(t *testing.T) {
	st := newState()
	guildID := structs.Snowflake(3)
	userID := structs.Snowflake(30)

	joined := structs.Timestamp("")

	st.SetMember(guildID, &structs.Member{
		User:     &structs.User{ID: userID},
		JoinedAt: joined,
		Nick:     "original",
	})

	cached := st.Member(guildID, userID)
	assert.NotNil(t, cached)
	assert.Equal(t, "original", cached.Nick)

	st.SetMember(guildID, &structs.Member{
		User: &structs.User{ID: userID},
		Nick: "renamed",
	})

	updated := st.Member(guildID, userID)
	assert.Equal(t, "renamed", updated.Nick)
}

func TestStateGuildUpdateMergePreservesSubCollections(t *testing.T) {
	st := newState()
	guildID := structs.Snowflake(4)

	st.SetGuild(&structs.Guild{
		ID:   guildID,
		Name: "original",
		Channels: []*structs.Channel{
			{ID: 40, Name: "general"},
		},
	})

	existing := st.Guild(guildID)
	assert.Len(t, existing.Channels, 1)

	updated := *existing
	updated.Name = "renamed"
	updated.Channels = existing.Channels

	st.SetGuild(&updated)

	g := st.Guild(guildID)
	assert.Equal(t, "renamed", g.Name)
	assert.Len(t, g.Channels, 1)
}

func TestStateVoiceStateRemovedOnChannelZero(t *testing.T) {
	st := newState()
	guildID := structs.Snowflake(5)
	userID := structs.Snowflake(50)

	st.SetGuild(&structs.Guild{ID: guildID})

	st.SetVoiceState(guildID, &structs.VoiceState{
		GuildID:   guildID,
		ChannelID: 500,
		UserID:    userID,
	})

	assert.NotNil(t, st.Guild(guildID))
	assert.Len(t, st.Guild(guildID).VoiceStates, 1)

	st.SetVoiceState(guildID, &structs.VoiceState{
		GuildID:   guildID,
		ChannelID: 0,
		UserID:    userID,
	})

	g := st.Guild(guildID)
	assert.Empty(t, g.VoiceStates)
}

func TestMergeUserKeepsUnrepeatedFields(t *testing.T) {
	st := newState()
	userID := structs.Snowflake(60)

	st.SetUser(&structs.User{
		ID:            userID,
		Username:      "original",
		Discriminator: "0001",
		Avatar:        "hash",
	})

	merged := st.MergeUser(&structs.User{ID: userID, Status: "idle"})

	assert.Equal(t, "original", merged.Username)
	assert.Equal(t, "0001", merged.Discriminator)
	assert.Equal(t, "hash", merged.Avatar)
	assert.Equal(t, "idle", merged.Status)

	cached := st.User(userID)
	assert.Equal(t, "original", cached.Username)
	assert.Equal(t, "idle", cached.Status)
}

func TestMergeUserStoresFreshEntryWhenUncached(t *testing.T) {
	st := newState()
	userID := structs.Snowflake(61)

	merged := st.MergeUser(&structs.User{ID: userID, Username: "new"})
	assert.Equal(t, "new", merged.Username)

	cached := st.User(userID)
	assert.NotNil(t, cached)
	assert.Equal(t, "new", cached.Username)
}

func TestStateGuildCount(t *testing.T) {
	st := newState()

	st.SetGuild(&structs.Guild{ID: 1})
	st.SetGuild(&structs.Guild{ID: 2})
	st.SetUnavailableGuild(3)

	assert.Equal(t, 2, st.GuildCount())
}
