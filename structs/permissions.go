package structs

// Permission is a single bit (or OR'd set of bits) in a role's or
// channel overwrite's permission bitfield.
type Permission uint64

const (
	PermissionCreateInstantInvite              Permission = 0x0000000000000001
	PermissionKickMembers                       Permission = 0x0000000000000002
	PermissionBanMembers                         Permission = 0x0000000000000004
	PermissionAdministrator                      Permission = 0x0000000000000008
	PermissionManageChannels                     Permission = 0x0000000000000010
	PermissionManageServer                       Permission = 0x0000000000000020
	PermissionAddReactions                       Permission = 0x0000000000000040
	PermissionViewAuditLogs                      Permission = 0x0000000000000080
	PermissionVoicePrioritySpeaker                Permission = 0x0000000000000100
	PermissionVoiceStreamVideo                    Permission = 0x0000000000000200
	PermissionViewChannel                         Permission = 0x0000000000000400
	PermissionSendMessages                        Permission = 0x0000000000000800
	PermissionSendTTSMessages                     Permission = 0x0000000000001000
	PermissionManageMessages                      Permission = 0x0000000000002000
	PermissionEmbedLinks                          Permission = 0x0000000000004000
	PermissionAttachFiles                         Permission = 0x0000000000008000
	PermissionReadMessageHistory                  Permission = 0x0000000000010000
	PermissionMentionEveryone                     Permission = 0x0000000000020000
	PermissionUseExternalEmojis                   Permission = 0x0000000000040000
	PermissionViewGuildInsights                   Permission = 0x0000000000080000
	PermissionVoiceConnect                        Permission = 0x0000000000100000
	PermissionVoiceSpeak                          Permission = 0x0000000000200000
	PermissionVoiceMuteMembers                    Permission = 0x0000000000400000
	PermissionVoiceDeafenMembers                  Permission = 0x0000000000800000
	PermissionVoiceMoveMembers                    Permission = 0x0000000001000000
	PermissionVoiceUseVAD                         Permission = 0x0000000002000000
	PermissionChangeNickname                      Permission = 0x0000000004000000
	PermissionManageNicknames                     Permission = 0x0000000008000000
	PermissionManageRoles                         Permission = 0x0000000010000000
	PermissionManageWebhooks                      Permission = 0x0000000020000000
	PermissionManageEmojis                        Permission = 0x0000000040000000
	PermissionUseSlashCommands                    Permission = 0x0000000080000000
	PermissionVoiceRequestToSpeak                 Permission = 0x0000000100000000
	PermissionManageEvents                        Permission = 0x0000000200000000
	PermissionManageThreads                       Permission = 0x0000000400000000
	PermissionCreatePublicThreads                 Permission = 0x0000000800000000
	PermissionCreatePrivateThreads                Permission = 0x0000001000000000
	PermissionUseExternalStickers                 Permission = 0x0000002000000000
	PermissionSendMessagesInThreads                Permission = 0x0000004000000000
	PermissionUseActivities                       Permission = 0x0000008000000000
	PermissionModerateMembers                     Permission = 0x0000010000000000
	PermissionViewCreatorMonetizationAnalytics    Permission = 0x0000020000000000
	PermissionUseSoundboard                       Permission = 0x0000040000000000
	PermissionCreateGuildExpressions              Permission = 0x0000080000000000
	PermissionCreateEvents                        Permission = 0x0000100000000000
	PermissionUseExternalSounds                   Permission = 0x0000200000000000
	PermissionSendVoiceMessages                   Permission = 0x0000400000000000

	PermissionAllText = PermissionViewChannel |
		PermissionSendMessages |
		PermissionSendTTSMessages |
		PermissionManageMessages |
		PermissionEmbedLinks |
		PermissionAttachFiles |
		PermissionReadMessageHistory |
		PermissionMentionEveryone

	PermissionAllVoice = PermissionViewChannel |
		PermissionVoiceConnect |
		PermissionVoiceSpeak |
		PermissionVoiceMuteMembers |
		PermissionVoiceDeafenMembers |
		PermissionVoiceMoveMembers |
		PermissionVoiceUseVAD |
		PermissionVoicePrioritySpeaker

	PermissionAllChannel = PermissionAllText |
		PermissionAllVoice |
		PermissionCreateInstantInvite |
		PermissionManageRoles |
		PermissionManageChannels |
		PermissionAddReactions |
		PermissionViewAuditLogs

	PermissionAll = PermissionAllChannel |
		PermissionKickMembers |
		PermissionBanMembers |
		PermissionManageServer |
		PermissionAdministrator |
		PermissionManageWebhooks |
		PermissionManageEmojis
)

// Has reports whether all bits of want are set in p.
func (p Permission) Has(want Permission) bool {
	return p&want == want
}

// String renders p as the decimal string Discord expects on the wire.
func (p Permission) String() string {
	return Snowflake(p).String()
}
