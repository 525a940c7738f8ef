package corvid

import (
	"sync"

	"github.com/corvidware/corvid/structs"
)

// state is the Session State Store: corvid's local mirror of guilds,
// members, channels, roles, emojis, and users, built up purely from
// gateway dispatch events. Per the single reader-writer lock the session
// is allowed to use, every map here shares one mutex rather than one per
// field — simpler to reason about, and state mutation is already
// serialized by the dispatcher calling these methods from a single
// shard's Listen loop.
type state struct {
	mu sync.RWMutex

	guilds      map[structs.Snowflake]*structs.Guild
	unavailable map[structs.Snowflake]bool

	// members is keyed by guild id, then by user id.
	members map[structs.Snowflake]map[structs.Snowflake]*structs.Member

	channels map[structs.Snowflake]*structs.Channel
	roles    map[structs.Snowflake]map[structs.Snowflake]*structs.Role
	emojis   map[structs.Snowflake]map[structs.Snowflake]*structs.Emoji
	users    map[structs.Snowflake]*structs.User

	// presences is keyed by guild id, then by user id.
	presences map[structs.Snowflake]map[structs.Snowflake]*structs.Presence

	voiceStates map[structs.Snowflake]map[structs.Snowflake]*structs.VoiceState

	self *structs.User
}

func newState() *state {
	return &state{
		guilds:      make(map[structs.Snowflake]*structs.Guild),
		unavailable: make(map[structs.Snowflake]bool),
		members:     make(map[structs.Snowflake]map[structs.Snowflake]*structs.Member),
		channels:    make(map[structs.Snowflake]*structs.Channel),
		roles:       make(map[structs.Snowflake]map[structs.Snowflake]*structs.Role),
		emojis:      make(map[structs.Snowflake]map[structs.Snowflake]*structs.Emoji),
		users:       make(map[structs.Snowflake]*structs.User),
		presences:   make(map[structs.Snowflake]map[structs.Snowflake]*structs.Presence),
		voiceStates: make(map[structs.Snowflake]map[structs.Snowflake]*structs.VoiceState),
	}
}

// SetGuild stores g, replacing channels/roles/emojis/members it carries
// inline into their own maps and clearing any unavailable flag: receiving
// a guild's full payload always means it's available.
func (s *state) SetGuild(g *structs.Guild) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *g
	stored.Channels = nil
	stored.Members = nil
	stored.Roles = nil
	stored.Emojis = nil
	stored.Presences = nil
	stored.VoiceStates = nil

	s.guilds[g.ID] = &stored
	delete(s.unavailable, g.ID)

	for _, ch := range g.Channels {
		ch.GuildID = g.ID
		s.channels[ch.ID] = ch
	}

	if s.roles[g.ID] == nil {
		s.roles[g.ID] = make(map[structs.Snowflake]*structs.Role)
	}

	for _, r := range g.Roles {
		s.roles[g.ID][r.ID] = r
	}

	if s.emojis[g.ID] == nil {
		s.emojis[g.ID] = make(map[structs.Snowflake]*structs.Emoji)
	}

	for _, e := range g.Emojis {
		if e.ID != 0 {
			s.emojis[g.ID][e.ID] = e
		}
	}

	if s.members[g.ID] == nil {
		s.members[g.ID] = make(map[structs.Snowflake]*structs.Member)
	}

	for _, m := range g.Members {
		m.GuildID = g.ID
		s.members[g.ID][m.UserID()] = m

		if m.User != nil {
			s.users[m.User.ID] = m.User
		}
	}

	if s.presences[g.ID] == nil {
		s.presences[g.ID] = make(map[structs.Snowflake]*structs.Presence)
	}

	for _, p := range g.Presences {
		s.presences[g.ID][p.User.ID] = p
	}

	if s.voiceStates[g.ID] == nil {
		s.voiceStates[g.ID] = make(map[structs.Snowflake]*structs.VoiceState)
	}

	for _, vs := range g.VoiceStates {
		s.voiceStates[g.ID][vs.UserID] = vs
	}
}

// SetUnavailableGuild records a guild as present but unavailable, the
// shape READY and GUILD_DELETE (with unavailable=true) both carry.
func (s *state) SetUnavailableGuild(id structs.Snowflake) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unavailable[id] = true
}

// RemoveGuild deletes a guild and everything scoped to it. Per
// GUILD_DELETE semantics, unavailable=false means the bot was actually
// removed from the guild, not just that Discord lost track of it.
func (s *state) RemoveGuild(id structs.Snowflake) *structs.Guild {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.guilds[id]
	delete(s.guilds, id)
	delete(s.unavailable, id)
	delete(s.members, id)
	delete(s.roles, id)
	delete(s.emojis, id)
	delete(s.presences, id)
	delete(s.voiceStates, id)

	for chID, ch := range s.channels {
		if ch.GuildID == id {
			delete(s.channels, chID)
		}
	}

	return g
}

// Guild returns a fully reassembled snapshot of a cached guild, or nil if
// it isn't cached. The top-level Guild struct is a copy, but its
// sub-collection slices hold the store's own pointers, listed in no
// defined order; mutating those entries changes the cached state.
func (s *state) Guild(id structs.Snowflake) *structs.Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.guilds[id]
	if !ok {
		return nil
	}

	out := *g
	out.Unavailable = s.unavailable[id]

	for _, ch := range s.channels {
		if ch.GuildID == id {
			out.Channels = append(out.Channels, ch)
		}
	}

	for _, r := range s.roles[id] {
		out.Roles = append(out.Roles, r)
	}

	for _, e := range s.emojis[id] {
		out.Emojis = append(out.Emojis, e)
	}

	for _, m := range s.members[id] {
		out.Members = append(out.Members, m)
	}

	for _, p := range s.presences[id] {
		out.Presences = append(out.Presences, p)
	}

	for _, vs := range s.voiceStates[id] {
		out.VoiceStates = append(out.VoiceStates, vs)
	}

	return &out
}

func (s *state) SetChannel(ch *structs.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.channels[ch.ID] = ch
}

func (s *state) Channel(id structs.Snowflake) *structs.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.channels[id]
}

func (s *state) RemoveChannel(id structs.Snowflake) *structs.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.channels[id]
	delete(s.channels, id)

	return ch
}

// SetMember stores m in guildID's member table, replacing any cached entry
// for the same user wholesale. Handlers for partial payloads (such as
// GUILD_MEMBER_UPDATE) merge onto the cached copy before calling it.
func (s *state) SetMember(guildID structs.Snowflake, m *structs.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.GuildID = guildID

	if s.members[guildID] == nil {
		s.members[guildID] = make(map[structs.Snowflake]*structs.Member)
	}

	s.members[guildID][m.UserID()] = m

	if m.User != nil {
		s.users[m.User.ID] = m.User
	}
}

func (s *state) Member(guildID, userID structs.Snowflake) *structs.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.members[guildID][userID]
}

func (s *state) RemoveMember(guildID, userID structs.Snowflake) *structs.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.members[guildID][userID]
	delete(s.members[guildID], userID)

	return m
}

func (s *state) SetRole(guildID structs.Snowflake, r *structs.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roles[guildID] == nil {
		s.roles[guildID] = make(map[structs.Snowflake]*structs.Role)
	}

	s.roles[guildID][r.ID] = r
}

func (s *state) RemoveRole(guildID, roleID structs.Snowflake) *structs.Role {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.roles[guildID][roleID]
	delete(s.roles[guildID], roleID)

	return r
}

func (s *state) SetEmojis(guildID structs.Snowflake, emojis []*structs.Emoji) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := make(map[structs.Snowflake]*structs.Emoji, len(emojis))

	for _, e := range emojis {
		if e.ID != 0 {
			table[e.ID] = e
		}
	}

	s.emojis[guildID] = table
}

// SetUser stores u wholesale, replacing any cached entry. Only events that
// carry a complete user object (READY's self, a full member's nested
// User) should call this; partial objects belong in MergeUser instead.
func (s *state) SetUser(u *structs.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
}

// MergeUser field-wise merges u onto whatever user entry is already
// cached under u.ID, copying only the non-zero-valued fields u carries.
// PRESENCE_UPDATE and USER_UPDATE both send partial user objects (only id
// is guaranteed on PRESENCE_UPDATE); storing them wholesale would wipe
// fields like Avatar/Discriminator/Bot that this particular payload
// simply didn't repeat. If nothing is cached yet, u is stored as-is.
func (s *state) MergeUser(u *structs.User) *structs.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		s.users[u.ID] = u
		return u
	}

	merged := *existing

	if u.Username != "" {
		merged.Username = u.Username
	}

	if u.Discriminator != "" {
		merged.Discriminator = u.Discriminator
	}

	if u.GlobalName != "" {
		merged.GlobalName = u.GlobalName
	}

	if u.Avatar != "" {
		merged.Avatar = u.Avatar
	}

	if u.Bot {
		merged.Bot = u.Bot
	}

	if u.System {
		merged.System = u.System
	}

	if u.PublicFlags != 0 {
		merged.PublicFlags = u.PublicFlags
	}

	if u.Status != "" {
		merged.Status = u.Status
	}

	if u.Game != nil {
		merged.Game = u.Game
	}

	s.users[u.ID] = &merged

	return &merged
}

func (s *state) User(id structs.Snowflake) *structs.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.users[id]
}

func (s *state) SetSelf(u *structs.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.self = u
	s.users[u.ID] = u
}

func (s *state) Self() *structs.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.self
}

func (s *state) SetPresence(guildID structs.Snowflake, p *structs.Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.presences[guildID] == nil {
		s.presences[guildID] = make(map[structs.Snowflake]*structs.Presence)
	}

	s.presences[guildID][p.User.ID] = p
}

func (s *state) Presence(guildID, userID structs.Snowflake) *structs.Presence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.presences[guildID][userID]
}

func (s *state) SetVoiceState(guildID structs.Snowflake, vs *structs.VoiceState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vs.ChannelID == 0 {
		delete(s.voiceStates[guildID], vs.UserID)
		return
	}

	if s.voiceStates[guildID] == nil {
		s.voiceStates[guildID] = make(map[structs.Snowflake]*structs.VoiceState)
	}

	s.voiceStates[guildID][vs.UserID] = vs
}

// GuildCount reports how many guilds are currently cached as available,
// for the corvid_state_guild_count gauge.
func (s *state) GuildCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0

	for id := range s.guilds {
		if !s.unavailable[id] {
			count++
		}
	}

	return count
}
