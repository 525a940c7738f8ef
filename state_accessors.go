package corvid

import "github.com/corvidware/corvid/structs"

// State is a read-only view over a Session's local mirror. Channel,
// Member, User, Self and Presence return the store's own pointers, and
// Guild copies only its top-level struct; nothing returned is a deep
// copy, so mutating it changes the cached state.
type State struct {
	s *Session
}

func (st *State) Guild(id structs.Snowflake) *structs.Guild {
	return st.s.state.Guild(id)
}

func (st *State) Channel(id structs.Snowflake) *structs.Channel {
	return st.s.state.Channel(id)
}

func (st *State) Member(guildID, userID structs.Snowflake) *structs.Member {
	return st.s.state.Member(guildID, userID)
}

func (st *State) User(id structs.Snowflake) *structs.User {
	return st.s.state.User(id)
}

func (st *State) Self() *structs.User {
	return st.s.state.Self()
}

func (st *State) Presence(guildID, userID structs.Snowflake) *structs.Presence {
	return st.s.state.Presence(guildID, userID)
}

// GuildCount reports how many guilds are currently cached as available.
func (st *State) GuildCount() int {
	return st.s.state.GuildCount()
}
