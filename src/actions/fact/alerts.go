package fact

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/present"
	"github.com/stake-plus/capapp/src/scan"
	"go.uber.org/zap"
)

// Publisher forwards alert payloads to an external sink such as a Redis stream.
type Publisher interface {
	Publish(ctx context.Context, payload map[string]interface{}) error
}

// Alerter posts autoscan alerts to the origin channel, the moderation channel and the
// optional publisher. It also serves the manual handler's moderation notices.
type Alerter struct {
	api             MessageAPI
	notifyChannelID string
	publisher       Publisher
	log             *zap.Logger
}

var (
	_ scan.Alerter = (*Alerter)(nil)
	_ Notifier     = (*Alerter)(nil)
)

func NewAlerter(api MessageAPI, notifyChannelID string, publisher Publisher, log *zap.Logger) *Alerter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Alerter{api: api, notifyChannelID: notifyChannelID, publisher: publisher, log: log}
}

// Alert fails only when the origin channel post fails. Notice and publish errors are logged.
func (a *Alerter) Alert(ctx context.Context, al scan.Alert) error {
	v := present.AlertView(al.UserID, al.Username, al.Outcome)
	_, err := a.api.ChannelMessageSendComplex(al.ChannelID, &discordgo.MessageSend{
		Content: v.Content,
		Embeds:  v.Embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fact: post alert: %w", err)
	}

	if err := a.Notify(ctx, al.UserID, al.ChannelID); err != nil {
		a.log.Warn("fact: moderation notice failed", zap.String("channel", a.notifyChannelID), zap.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, alertPayload(al)); err != nil {
			a.log.Warn("fact: publish alert failed", zap.Error(err))
		}
	}
	return nil
}

// Notify is a no-op when no moderation channel is configured.
func (a *Alerter) Notify(ctx context.Context, userID, channelID string) error {
	if a.notifyChannelID == "" {
		return nil
	}
	_, err := a.api.ChannelMessageSendComplex(a.notifyChannelID, &discordgo.MessageSend{
		Content: present.NotifyText(userID, channelID),
	}, discordgo.WithContext(ctx))
	return err
}

func alertPayload(al scan.Alert) map[string]interface{} {
	payload := map[string]interface{}{
		"channel_id": al.ChannelID,
		"user_id":    al.UserID,
		"username":   al.Username,
		"statement":  al.Outcome.Statement,
		"verdict":    string(al.Outcome.Verdict()),
		"provider":   string(al.Outcome.Provider()),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if rec, ok := al.Outcome.Primary(); ok {
		payload["rating"] = rec.Rating
		payload["publisher"] = rec.Publisher
		payload["url"] = rec.URL
	}
	return payload
}
