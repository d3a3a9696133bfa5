package discord

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// IsAuthorized reports whether a caller may run manual fact-checks: either the single
// authorized user, or a holder of the moderator role. Empty settings grant nothing.
func IsAuthorized(userID string, roles []string, authorizedUserID, modRoleID string) bool {
	if authorizedUserID != "" && userID == authorizedUserID {
		return true
	}
	return modRoleID != "" && slices.Contains(roles, modRoleID)
}

// MemberRoles returns the caller's roles, fetching the guild member when the event
// did not carry one.
func MemberRoles(s *discordgo.Session, guildID, userID string, member *discordgo.Member) []string {
	if member != nil {
		return member.Roles
	}
	if guildID == "" {
		return nil
	}
	m, err := s.GuildMember(guildID, userID)
	if err != nil {
		return nil
	}
	return m.Roles
}
