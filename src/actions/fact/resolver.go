package fact

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/scan"
)

// DirectoryAPI is the part of *discordgo.Session used to look up channels, members
// and messages.
type DirectoryAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Resolver answers the scheduler's and the manual handler's lookups over the Discord API.
type Resolver struct {
	api DirectoryAPI
}

var (
	_ scan.Resolver  = (*Resolver)(nil)
	_ MessageFetcher = (*Resolver)(nil)
)

func NewResolver(api DirectoryAPI) *Resolver {
	return &Resolver{api: api}
}

func (r *Resolver) ResolveChannel(ctx context.Context, channelID string) error {
	if _, err := r.api.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("fact: channel %s: %w", channelID, err)
	}
	return nil
}

func (r *Resolver) DisplayName(ctx context.Context, channelID, userID string) (string, error) {
	ch, err := r.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fact: channel %s: %w", channelID, err)
	}
	if ch.GuildID == "" {
		return "", fmt.Errorf("fact: channel %s is not in a guild", channelID)
	}
	member, err := r.api.GuildMember(ch.GuildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fact: member %s: %w", userID, err)
	}
	name := displayName(member)
	if name == "" {
		return "", fmt.Errorf("fact: member %s has no name", userID)
	}
	return name, nil
}

func (r *Resolver) MessageContent(ctx context.Context, channelID, messageID string) (string, error) {
	msg, err := r.api.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fact: message %s: %w", messageID, err)
	}
	return msg.Content, nil
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
