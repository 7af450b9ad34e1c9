package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// HasPermission reports whether member holds permission through any of its
// roles. The guild owner and administrators hold every permission.
func HasPermission(member *discordgo.Member, guild *discordgo.Guild, permission int64) bool {
	if member == nil || guild == nil {
		return false
	}
	if member.User != nil && member.User.ID == guild.OwnerID {
		return true
	}

	held := make(map[string]bool, len(member.Roles))
	for _, roleID := range member.Roles {
		held[roleID] = true
	}
	for _, role := range guild.Roles {
		// @everyone shares the guild ID and applies to all members
		if !held[role.ID] && role.ID != guild.ID {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 || role.Permissions&permission != 0 {
			return true
		}
	}
	return false
}

// CheckPermission checks if a user has a specific permission in a guild.
// The state cache is consulted first.
func CheckPermission(s *discordgo.Session, guildID, userID string, permission int64) (bool, error) {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil {
			return false, fmt.Errorf("error fetching member: %w", err)
		}
	}

	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return false, fmt.Errorf("error fetching guild: %w", err)
		}
	}

	return HasPermission(member, guild, permission), nil
}

// CheckAdminPermission checks if a user has administrator permissions in a guild
func CheckAdminPermission(s *discordgo.Session, guildID, userID string) (bool, error) {
	return CheckPermission(s, guildID, userID, discordgo.PermissionAdministrator)
}
