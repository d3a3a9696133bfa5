package fact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/discord"
	"github.com/stake-plus/capapp/src/factcheck"
	"github.com/stake-plus/capapp/src/metrics"
	"github.com/stake-plus/capapp/src/present"
	"go.uber.org/zap"
)

const (
	msgUnauthorized = "⛔ You are not allowed to run fact-checks."
	msgNoStatement  = "⚠️ Please provide a statement to fact-check. Example: `!cap The sky is green`"
	msgCooldown     = "⏱ Please wait %d seconds between fact-checks."
)

// ErrUnauthorized is returned when the caller is neither the authorized user nor a moderator.
var ErrUnauthorized = errors.New("fact: caller is not authorized")

// Invocation is one manual fact-check request, from a prefix message or the /fact command.
type Invocation struct {
	Trigger   audit.Trigger
	UserID    string
	Username  string
	Roles     []string
	ChannelID string
	Statement string
	// ReplyTo is the id of the message the prefix message replied to, if any.
	ReplyTo string
}

// Output delivers the handler's replies to wherever the request came from.
type Output interface {
	// Pending shows a progress notice while the lookup runs.
	Pending(ctx context.Context, text string) error
	// Render replaces the progress notice with the final view.
	Render(ctx context.Context, v present.View) error
	// Reply answers without a progress notice: refusals and usage hints.
	Reply(ctx context.Context, text string) error
}

type Verifier interface {
	Verify(ctx context.Context, statement string) factcheck.Outcome
}

// MessageFetcher reads the content of a referenced message.
type MessageFetcher interface {
	MessageContent(ctx context.Context, channelID, messageID string) (string, error)
}

// Notifier posts the moderation notice for an adverse manual check.
type Notifier interface {
	Notify(ctx context.Context, userID, channelID string) error
}

type ManualConfig struct {
	Verifier         Verifier
	Recorder         *audit.Recorder
	Sessions         *present.Registry
	Cooldown         *Cooldown
	Fetcher          MessageFetcher
	Notifier         Notifier
	AuthorizedUserID string
	ModRoleID        string
	CooldownCommands bool
	Logger           *zap.Logger
}

// Manual runs fact-checks requested by authorized participants.
type Manual struct {
	cfg ManualConfig
	log *zap.Logger
}

func NewManual(cfg ManualConfig) (*Manual, error) {
	if cfg.Verifier == nil || cfg.Recorder == nil || cfg.Sessions == nil || cfg.Cooldown == nil {
		return nil, fmt.Errorf("fact: manual handler is missing a collaborator")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Manual{cfg: cfg, log: cfg.Logger}, nil
}

func (m *Manual) Authorized(inv Invocation) bool {
	return discord.IsAuthorized(inv.UserID, inv.Roles, m.cfg.AuthorizedUserID, m.cfg.ModRoleID)
}

// Run handles inv end to end. Replies go to out; the returned error is for logging only.
func (m *Manual) Run(ctx context.Context, inv Invocation, out Output) error {
	if !m.Authorized(inv) {
		if err := out.Reply(ctx, msgUnauthorized); err != nil {
			return err
		}
		return ErrUnauthorized
	}

	if inv.Trigger == audit.TriggerPrefix || m.cfg.CooldownCommands {
		if !m.cfg.Cooldown.Allow(inv.UserID) {
			metrics.CooldownRejections.Inc()
			secs := int(m.cfg.Cooldown.Limit().Seconds())
			return out.Reply(ctx, fmt.Sprintf(msgCooldown, secs))
		}
	}

	statement := m.resolveStatement(ctx, inv)
	if statement == "" {
		return out.Reply(ctx, msgNoStatement)
	}

	if err := out.Pending(ctx, present.PendingText(statement)); err != nil {
		m.log.Warn("fact: pending notice failed", zap.Error(err))
	}

	result := m.cfg.Verifier.Verify(ctx, statement)
	// Recorded before delivery so a failed reply still leaves an entry.
	m.cfg.Recorder.Record(ctx, inv.Trigger, inv.UserID, inv.Username, result)

	if err := m.render(ctx, inv, statement, result, out); err != nil {
		return fmt.Errorf("fact: render: %w", err)
	}

	if result.Adverse() && m.cfg.Notifier != nil {
		if err := m.cfg.Notifier.Notify(ctx, inv.UserID, inv.ChannelID); err != nil {
			m.log.Warn("fact: notify failed", zap.String("user", inv.UserID), zap.Error(err))
		}
	}
	return nil
}

func (m *Manual) resolveStatement(ctx context.Context, inv Invocation) string {
	statement := strings.TrimSpace(inv.Statement)
	if statement != "" || inv.ReplyTo == "" || m.cfg.Fetcher == nil {
		return statement
	}
	content, err := m.cfg.Fetcher.MessageContent(ctx, inv.ChannelID, inv.ReplyTo)
	if err != nil {
		m.log.Warn("fact: fetch replied-to message failed",
			zap.String("channel", inv.ChannelID), zap.String("message", inv.ReplyTo), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(content)
}

func (m *Manual) render(ctx context.Context, inv Invocation, statement string, result factcheck.Outcome, out Output) error {
	header := present.HeaderText(statement)

	switch {
	case result.Err != nil:
		return out.Render(ctx, present.View{Content: header + "\n\n" + result.ErrorMessage()})
	case !result.Resolved():
		return out.Render(ctx, present.View{Content: header + "\n\n❌ Could not get a response from Perplexity."})
	case len(result.Records) > 1:
		session := m.cfg.Sessions.Open(inv.UserID, statement, result.Records, func(v present.View) {
			// The request context is gone by the time the session expires.
			if err := out.Render(context.Background(), v); err != nil {
				m.log.Debug("fact: disable pagination failed", zap.Error(err))
			}
		})
		return out.Render(ctx, session.View())
	}

	v := present.SingleView(title(inv.Trigger, result.Provider()), result)
	v.Content = header
	return out.Render(ctx, v)
}

func title(trigger audit.Trigger, provider factcheck.Provider) string {
	if trigger != audit.TriggerCommand {
		return present.TitleResult
	}
	if provider == factcheck.ProviderGoogle {
		return present.TitleGoogle
	}
	return present.TitlePerplexity
}
