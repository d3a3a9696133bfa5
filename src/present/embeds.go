// Package present renders verification outcomes as Discord messages.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/factcheck"
)

const (
	statsColor       = 0x7289DA
	maxReasonRunes   = 1000
	maxSourcesShown  = 6
	maxFieldRunes    = 1024
	TitleResult      = "Fact-Check Result"
	TitleGoogle      = "Fact-Check Result (Google)"
	TitlePerplexity  = "Fact-Check Result (Perplexity)"
	TitleAlertPrefix = "Fact-Check Alert for "
)

// View is a renderable message: content, embeds and interactive components.
type View struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// ClaimView renders one structured review.
func ClaimView(title string, rec factcheck.ClaimRecord) View {
	return View{Embeds: []*discordgo.MessageEmbed{claimEmbed(title, rec)}}
}

// GeneratedView renders a generative classification of statement.
func GeneratedView(title, statement string, g factcheck.GeneratedVerdict) View {
	return View{Embeds: []*discordgo.MessageEmbed{generatedEmbed(title, statement, g)}}
}

func claimEmbed(title string, rec factcheck.ClaimRecord) *discordgo.MessageEmbed {
	norm := rec.Normalized()
	source := "No link"
	if rec.URL != "" {
		source = fmt.Sprintf("[Link](%s)", rec.URL)
	}
	return &discordgo.MessageEmbed{
		Title: title,
		Color: norm.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Claim", Value: quote(rec.Claim)},
			{Name: "Verdict", Value: string(norm.Verdict), Inline: true},
			{Name: "Original Rating", Value: truncate(rec.Rating, maxFieldRunes), Inline: true},
			{Name: "Publisher", Value: truncate(rec.Publisher, maxFieldRunes), Inline: true},
			{Name: "Source", Value: source},
			{Name: "Reviewed Date", Value: rec.ReviewDate, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func generatedEmbed(title, statement string, g factcheck.GeneratedVerdict) *discordgo.MessageEmbed {
	reason := g.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "No reasoning provided."
	}
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: g.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Claim", Value: quote(statement)},
			{Name: "Verdict", Value: string(g.Verdict)},
			{Name: "Reasoning", Value: truncate(reason, maxReasonRunes)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(g.Sources) > 0 {
		sources := g.Sources
		if len(sources) > maxSourcesShown {
			sources = sources[:maxSourcesShown]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Sources",
			Value: truncate(strings.Join(sources, "\n"), maxFieldRunes),
		})
	}
	return embed
}

// SingleView renders a resolved outcome without navigation: the primary record for
// structured outcomes, the classification otherwise.
func SingleView(title string, out factcheck.Outcome) View {
	if rec, ok := out.Primary(); ok {
		return ClaimView(title, rec)
	}
	if out.Generated != nil {
		return GeneratedView(title, out.Statement, *out.Generated)
	}
	return View{Content: "❌ Could not get a response from Perplexity."}
}

// AlertView is posted in the origin channel when the autoscan finds an adverse verdict.
func AlertView(userID, username string, out factcheck.Outcome) View {
	v := SingleView(TitleAlertPrefix+username, out)
	v.Content = fmt.Sprintf("⚠️ False or misleading claim detected from <@%s>.", userID)
	return v
}

// NotifyText is the short notice sent to the moderation channel.
func NotifyText(userID, channelID string) string {
	return fmt.Sprintf("⚠️ False or misleading claim detected from <@%s> in <#%s>.", userID, channelID)
}

// PendingText is shown while a manual check is in flight.
func PendingText(statement string) string {
	return fmt.Sprintf("🧐 Fact-checking: \"%s\"\n\n⏳ Checking...", truncate(statement, 1500))
}

// HeaderText prefixes a finished manual check.
func HeaderText(statement string) string {
	return fmt.Sprintf("🧐 Fact-checking: \"%s\"", truncate(statement, 1500))
}

// StatsView renders the aggregate verdict counts.
func StatsView(sum audit.Summary) View {
	embed := &discordgo.MessageEmbed{
		Title:       "📊 Fact-Check Analytics",
		Description: fmt.Sprintf("Total claims checked: **%d**", sum.Total),
		Color:       statsColor,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	for _, c := range sum.Counts {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   c.Verdict,
			Value:  fmt.Sprintf("%d", c.Count),
			Inline: true,
		})
	}
	return View{Embeds: []*discordgo.MessageEmbed{embed}}
}

func quote(s string) string {
	return "> " + truncate(s, maxFieldRunes-2)
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
