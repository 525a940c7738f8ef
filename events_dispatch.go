package corvid

import (
	"github.com/corvidware/corvid/structs"
)

// registerBuiltinHandlers wires every dispatch event corvid understands
// into d's builtin table. Some events with no meaningful local state
// (pins, typing, bulk deletes) still get an entry so their decoded payload
// reaches listeners in a typed form; others (invites, interactions,
// webhooks, integrations, single message deletes) go through onLogOnly
// and reach listeners as raw bytes.
func registerBuiltinHandlers(d *dispatcher) {
	d.register("READY", onReady)
	d.register("RESUMED", onResumed)

	d.register("CHANNEL_CREATE", onChannelCreate)
	d.register("CHANNEL_UPDATE", onChannelUpdate)
	d.register("CHANNEL_DELETE", onChannelDelete)
	d.register("CHANNEL_PINS_UPDATE", onChannelPinsUpdate)

	d.register("THREAD_CREATE", onChannelCreate)
	d.register("THREAD_UPDATE", onChannelUpdate)
	d.register("THREAD_DELETE", onChannelDelete)

	d.register("GUILD_CREATE", onGuildCreate)
	d.register("GUILD_UPDATE", onGuildUpdate)
	d.register("GUILD_DELETE", onGuildDelete)

	d.register("GUILD_BAN_ADD", onGuildBanAdd)
	d.register("GUILD_BAN_REMOVE", onGuildBanRemove)

	d.register("GUILD_EMOJIS_UPDATE", onGuildEmojisUpdate)
	d.register("GUILD_INTEGRATIONS_UPDATE", onLogOnly)

	d.register("GUILD_MEMBER_ADD", onGuildMemberAdd)
	d.register("GUILD_MEMBER_REMOVE", onGuildMemberRemove)
	d.register("GUILD_MEMBER_UPDATE", onGuildMemberUpdate)
	d.register("GUILD_MEMBERS_CHUNK", onGuildMembersChunk)

	d.register("GUILD_ROLE_CREATE", onGuildRoleCreate)
	d.register("GUILD_ROLE_UPDATE", onGuildRoleUpdate)
	d.register("GUILD_ROLE_DELETE", onGuildRoleDelete)

	d.register("MESSAGE_CREATE", onMessageLogOnly[structs.Message])
	d.register("MESSAGE_UPDATE", onMessageLogOnly[structs.Message])
	d.register("MESSAGE_DELETE", onLogOnly)
	d.register("MESSAGE_DELETE_BULK", onMessageLogOnly[structs.MessageDeleteBulk])

	d.register("PRESENCE_UPDATE", onPresenceUpdate)
	d.register("USER_UPDATE", onUserUpdate)

	d.register("VOICE_STATE_UPDATE", onVoiceStateUpdate)
	d.register("TYPING_START", onMessageLogOnly[structs.TypingStart])

	d.register("INVITE_CREATE", onLogOnly)
	d.register("INVITE_DELETE", onLogOnly)
	d.register("WEBHOOKS_UPDATE", onLogOnly)
	d.register("INTERACTION_CREATE", onLogOnly)
}

// onLogOnly decodes nothing: the raw payload bytes are passed through to
// listeners unchanged, for events corvid mirrors no local state for.
func onLogOnly(s *Session, data []byte) (interface{}, error) {
	return data, nil
}

// onMessageLogOnly decodes into T for listener convenience without
// touching the state store, for events that are meaningful to observe
// but never cached (messages, typing, bulk deletes).
func onMessageLogOnly[T any](s *Session, data []byte) (interface{}, error) {
	var v T
	if err := Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}

func onReady(s *Session, data []byte) (interface{}, error) {
	var ready structs.Ready
	if err := Unmarshal(data, &ready); err != nil {
		return nil, err
	}

	s.state.SetSelf(&ready.User)

	for _, g := range ready.Guilds {
		s.state.SetUnavailableGuild(g.ID)
	}

	for i := range ready.PrivateChannels {
		s.state.SetChannel(&ready.PrivateChannels[i])
	}

	return ready, nil
}

func onResumed(s *Session, data []byte) (interface{}, error) {
	var resumed structs.Resumed
	if err := Unmarshal(data, &resumed); err != nil {
		return nil, err
	}

	return resumed, nil
}

func onChannelCreate(s *Session, data []byte) (interface{}, error) {
	var ch structs.Channel
	if err := Unmarshal(data, &ch); err != nil {
		return nil, err
	}

	s.state.SetChannel(&ch)

	return ch, nil
}

func onChannelUpdate(s *Session, data []byte) (interface{}, error) {
	return onChannelCreate(s, data)
}

func onChannelDelete(s *Session, data []byte) (interface{}, error) {
	var ch structs.Channel
	if err := Unmarshal(data, &ch); err != nil {
		return nil, err
	}

	s.state.RemoveChannel(ch.ID)

	return ch, nil
}

func onChannelPinsUpdate(s *Session, data []byte) (interface{}, error) {
	var pins structs.ChannelPinsUpdate
	if err := Unmarshal(data, &pins); err != nil {
		return nil, err
	}

	return pins, nil
}

// onGuildCreate handles both an initial GUILD_CREATE (a guild previously
// reported unavailable in READY, now fully populated) and a guild the bot
// joins while already connected; both carry the same full payload shape.
func onGuildCreate(s *Session, data []byte) (interface{}, error) {
	var g structs.Guild
	if err := Unmarshal(data, &g); err != nil {
		return nil, err
	}

	s.state.SetGuild(&g)

	stateGuildCount.Set(float64(s.state.GuildCount()))

	return g, nil
}

func onGuildUpdate(s *Session, data []byte) (interface{}, error) {
	var g structs.Guild
	if err := Unmarshal(data, &g); err != nil {
		return nil, err
	}

	// GUILD_UPDATE omits channels/members/roles/etc; merge onto the
	// cached copy's scalar fields rather than overwriting wholesale and
	// losing everything GUILD_CREATE populated.
	if existing := s.state.Guild(g.ID); existing != nil {
		g.Channels = existing.Channels
		g.Members = existing.Members
		g.Emojis = existing.Emojis
		g.Presences = existing.Presences
		g.VoiceStates = existing.VoiceStates

		if len(g.Roles) == 0 {
			g.Roles = existing.Roles
		}
	}

	s.state.SetGuild(&g)

	return g, nil
}

func onGuildDelete(s *Session, data []byte) (interface{}, error) {
	var unavailable structs.UnavailableGuild
	if err := Unmarshal(data, &unavailable); err != nil {
		return nil, err
	}

	if unavailable.Unavailable {
		s.state.SetUnavailableGuild(unavailable.ID)
		return unavailable, nil
	}

	g := s.state.RemoveGuild(unavailable.ID)
	stateGuildCount.Set(float64(s.state.GuildCount()))

	if g == nil {
		return unavailable, nil
	}

	return *g, nil
}

func onGuildBanAdd(s *Session, data []byte) (interface{}, error) {
	return onMessageLogOnly[structs.GuildBan](s, data)
}

func onGuildBanRemove(s *Session, data []byte) (interface{}, error) {
	return onMessageLogOnly[structs.GuildBan](s, data)
}

func onGuildEmojisUpdate(s *Session, data []byte) (interface{}, error) {
	var update structs.GuildEmojisUpdate
	if err := Unmarshal(data, &update); err != nil {
		return nil, err
	}

	s.state.SetEmojis(update.GuildID, update.Emojis)

	return update, nil
}

func onGuildMemberAdd(s *Session, data []byte) (interface{}, error) {
	var m structs.Member
	if err := Unmarshal(data, &m); err != nil {
		return nil, err
	}

	s.state.SetMember(m.GuildID, &m)

	return m, nil
}

func onGuildMemberRemove(s *Session, data []byte) (interface{}, error) {
	var remove structs.GuildMemberRemove
	if err := Unmarshal(data, &remove); err != nil {
		return nil, err
	}

	s.state.RemoveMember(remove.GuildID, remove.User.ID)

	return remove, nil
}

// onGuildMemberUpdate field-wise merges the fields this event carries
// onto any already-cached member rather than replacing it outright: the
// wire payload may omit any field besides guild_id and user to mean
// "unchanged", which decoding straight into a Member and overwriting
// wholesale would otherwise lose (e.g. a nick-only update would zero out
// roles and joined_at).
func onGuildMemberUpdate(s *Session, data []byte) (interface{}, error) {
	var patch structs.MemberUpdate
	if err := Unmarshal(data, &patch); err != nil {
		return nil, err
	}

	var userID structs.Snowflake
	if patch.User != nil {
		userID = patch.User.ID
	}

	m := structs.Member{GuildID: patch.GuildID}
	if existing := s.state.Member(patch.GuildID, userID); existing != nil {
		m = *existing
	}

	m.GuildID = patch.GuildID

	if patch.User != nil {
		m.User = patch.User
	}

	if patch.Nick != nil {
		m.Nick = *patch.Nick
	}

	if patch.Roles != nil {
		m.Roles = *patch.Roles
	}

	if patch.JoinedAt != nil {
		m.JoinedAt = *patch.JoinedAt
	}

	if patch.Mute != nil {
		m.Mute = *patch.Mute
	}

	if patch.Deaf != nil {
		m.Deaf = *patch.Deaf
	}

	s.state.SetMember(patch.GuildID, &m)

	return m, nil
}

func onGuildMembersChunk(s *Session, data []byte) (interface{}, error) {
	var chunk structs.GuildMembersChunk
	if err := Unmarshal(data, &chunk); err != nil {
		return nil, err
	}

	for _, m := range chunk.Members {
		s.state.SetMember(chunk.GuildID, m)
	}

	s.deliverChunk(chunk)

	return chunk, nil
}

func onGuildRoleCreate(s *Session, data []byte) (interface{}, error) {
	var event structs.GuildRoleEvent
	if err := Unmarshal(data, &event); err != nil {
		return nil, err
	}

	role := event.Role
	s.state.SetRole(event.GuildID, &role)

	return event, nil
}

func onGuildRoleUpdate(s *Session, data []byte) (interface{}, error) {
	return onGuildRoleCreate(s, data)
}

func onGuildRoleDelete(s *Session, data []byte) (interface{}, error) {
	var event structs.GuildRoleDelete
	if err := Unmarshal(data, &event); err != nil {
		return nil, err
	}

	s.state.RemoveRole(event.GuildID, event.RoleID)

	return event, nil
}

// onPresenceUpdate records the presence itself, field-wise merges the
// carried user entry, with the presence's status and game, into the
// session-wide user directory (a presence
// update is one of the few events that repeats user fields like avatar/
// username outside of USER_UPDATE), and, since the payload is scoped to a
// single guild, merges its roles/nick onto that guild's matching member.
func onPresenceUpdate(s *Session, data []byte) (interface{}, error) {
	var update structs.PresenceUpdate
	if err := Unmarshal(data, &update); err != nil {
		return nil, err
	}

	s.state.SetPresence(update.GuildID, &structs.Presence{
		User:    update.User,
		GuildID: update.GuildID,
		Status:  update.Status,
		Game:    update.Game,
	})

	presenceUser := update.User
	presenceUser.Status = update.Status
	presenceUser.Game = update.Game

	mergedUser := s.state.MergeUser(&presenceUser)

	if !update.GuildID.IsNil() {
		m := structs.Member{GuildID: update.GuildID}
		if existing := s.state.Member(update.GuildID, update.User.ID); existing != nil {
			m = *existing
		}

		m.GuildID = update.GuildID
		m.User = mergedUser

		if update.Roles != nil {
			m.Roles = update.Roles
		}

		if update.Nick != nil {
			m.Nick = *update.Nick
		}

		s.state.SetMember(update.GuildID, &m)
	}

	return update, nil
}

func onUserUpdate(s *Session, data []byte) (interface{}, error) {
	var u structs.User
	if err := Unmarshal(data, &u); err != nil {
		return nil, err
	}

	merged := s.state.MergeUser(&u)

	if self := s.state.Self(); self != nil && self.ID == u.ID {
		s.state.SetSelf(merged)
	}

	return u, nil
}

func onVoiceStateUpdate(s *Session, data []byte) (interface{}, error) {
	var vs structs.VoiceState
	if err := Unmarshal(data, &vs); err != nil {
		return nil, err
	}

	s.state.SetVoiceState(vs.GuildID, &vs)

	return vs, nil
}
