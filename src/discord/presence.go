package discord

import "github.com/bwmarrin/discordgo"

// WatchingStatus builds the "Watching <text>" presence shown under the bot's name.
func WatchingStatus(text string) discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{
			{Name: text, Type: discordgo.ActivityTypeWatching},
		},
	}
}
