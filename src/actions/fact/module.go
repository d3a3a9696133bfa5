package fact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/actions/core"
	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/config"
	shareddiscord "github.com/stake-plus/capapp/src/discord"
	"github.com/stake-plus/capapp/src/present"
	"github.com/stake-plus/capapp/src/scan"
	"go.uber.org/zap"
)

const (
	msgCommandFailed = "❌ An error occurred while executing this command."
	msgStatsFailed   = "❌ Could not read the fact-check log."
	msgNotOwner      = "Only the person who asked can page through these results."
	msgSessionGone   = "These results have expired. Run the check again to page through them."
)

var _ core.Module = (*Module)(nil)

// Module wires the fact-check actions into a Discord session.
type Module struct {
	cfg      *config.FactCheckConfig
	session  *discordgo.Session
	log      *zap.Logger
	manual   *Manual
	recorder *audit.Recorder
	sessions *present.Registry
	buffer   *scan.Buffer
	scope    scan.Scope

	ctx    context.Context
	cancel context.CancelFunc
}

// ModuleDeps carries the collaborators shared with the scheduler.
type ModuleDeps struct {
	Manual   *Manual
	Recorder *audit.Recorder
	Sessions *present.Registry
	Buffer   *scan.Buffer
	Scope    scan.Scope
	Logger   *zap.Logger
}

// NewModule constructs the module around an unopened session.
func NewModule(cfg *config.FactCheckConfig, session *discordgo.Session, deps ModuleDeps) (*Module, error) {
	if cfg == nil {
		return nil, fmt.Errorf("fact: config is nil")
	}
	if session == nil {
		return nil, fmt.Errorf("fact: discord session is nil")
	}
	if deps.Manual == nil || deps.Recorder == nil || deps.Sessions == nil || deps.Buffer == nil {
		return nil, fmt.Errorf("fact: module is missing a collaborator")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Module{
		cfg:      cfg,
		session:  session,
		log:      deps.Logger,
		manual:   deps.Manual,
		recorder: deps.Recorder,
		sessions: deps.Sessions,
		buffer:   deps.Buffer,
		scope:    deps.Scope,
		ctx:      context.Background(),
	}, nil
}

// Name implements core.Module.
func (m *Module) Name() string { return "discord" }

// Start registers handlers and opens the Discord session.
func (m *Module) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.initHandlers()

	if err := m.session.Open(); err != nil {
		m.cancel()
		return fmt.Errorf("fact: discord open: %w", err)
	}
	return nil
}

// Stop shuts down the Discord session and drops live pagination sessions.
func (m *Module) Stop(ctx context.Context) {
	if m.cancel != nil {
		m.cancel()
	}
	m.sessions.Close()
	if m.session != nil {
		if err := m.session.Close(); err != nil {
			m.log.Warn("fact: discord close", zap.Error(err))
		}
	}
}

func (m *Module) initHandlers() {
	m.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		m.log.Info("fact: logged in", zap.String("user", r.User.String()))
		if err := s.UpdateStatusComplex(shareddiscord.WatchingStatus(m.cfg.StatusText)); err != nil {
			m.log.Warn("fact: set presence failed", zap.Error(err))
		}
		if err := shareddiscord.RegisterSlashCommands(s, m.log, r.User.ID, m.cfg.GuildID); err != nil {
			m.log.Error("fact: register commands failed", zap.Error(err))
		}
	})

	m.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			switch i.ApplicationCommandData().Name {
			case shareddiscord.CommandFact:
				m.handleFact(s, i.Interaction)
			case shareddiscord.CommandStats:
				m.handleStats(s, i.Interaction)
			}
		case discordgo.InteractionMessageComponent:
			m.handlePage(s, i.Interaction)
		}
	})

	m.session.AddHandler(func(s *discordgo.Session, mc *discordgo.MessageCreate) {
		if mc.Author == nil || mc.Author.Bot {
			return
		}
		var roles []string
		if _, ok := matchPrefix(m.cfg.Prefixes, mc.Content); ok {
			roles = shareddiscord.MemberRoles(s, mc.GuildID, mc.Author.ID, mc.Member)
		}
		m.routeMessage(mc.Message, roles, newChannelOutput(s, mc.Message))
	})
}

type route int

const (
	routeIgnored route = iota
	routeManual
	routeBuffered
)

// routeMessage sends authorized prefix messages to the manual handler and buffers
// everything else from watched participants in watched channels.
func (m *Module) routeMessage(msg *discordgo.Message, roles []string, out Output) route {
	if rest, ok := matchPrefix(m.cfg.Prefixes, msg.Content); ok {
		inv := Invocation{
			Trigger:   audit.TriggerPrefix,
			UserID:    msg.Author.ID,
			Username:  msg.Author.String(),
			Roles:     roles,
			ChannelID: msg.ChannelID,
			Statement: rest,
		}
		if msg.MessageReference != nil {
			inv.ReplyTo = msg.MessageReference.MessageID
		}
		if m.manual.Authorized(inv) {
			if err := m.manual.Run(m.ctx, inv, out); err != nil {
				m.log.Warn("fact: prefix check failed", zap.String("user", inv.UserID), zap.Error(err))
			}
			return routeManual
		}
	}

	if m.scope.Watched(msg.ChannelID, msg.Author.ID) && m.buffer.Add(msg.ChannelID, msg.Author.ID, msg.Content) {
		return routeBuffered
	}
	return routeIgnored
}

func (m *Module) handleFact(api InteractionAPI, i *discordgo.Interaction) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	inv := Invocation{
		Trigger:   audit.TriggerCommand,
		UserID:    user.ID,
		Username:  user.String(),
		ChannelID: i.ChannelID,
		Statement: commandOption(i, shareddiscord.OptionStatement),
	}
	if i.Member != nil {
		inv.Roles = i.Member.Roles
	}

	out := newInteractionOutput(api, i)
	err := m.manual.Run(m.ctx, inv, out)
	if err == nil || errors.Is(err, ErrUnauthorized) {
		return
	}
	m.log.Error("fact: /fact failed", zap.String("user", inv.UserID), zap.Error(err))
	if rerr := out.Reply(m.ctx, msgCommandFailed); rerr != nil {
		m.log.Warn("fact: error reply failed", zap.Error(rerr))
	}
}

func (m *Module) handleStats(api InteractionAPI, i *discordgo.Interaction) {
	sum, err := m.recorder.Summary(m.ctx)
	if err != nil {
		m.log.Error("fact: read audit log", zap.Error(err))
		if rerr := respondEphemeral(m.ctx, api, i, msgStatsFailed); rerr != nil {
			m.log.Warn("fact: stats reply failed", zap.Error(rerr))
		}
		return
	}

	v := present.StatsView(sum)
	err = api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: v.Embeds,
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(m.ctx))
	if err != nil {
		m.log.Warn("fact: stats reply failed", zap.Error(err))
	}
}

func (m *Module) handlePage(api InteractionAPI, i *discordgo.Interaction) {
	id, dir, ok := present.ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}

	v, err := m.sessions.Navigate(id, user.ID, dir)
	switch {
	case errors.Is(err, present.ErrNotOwner):
		err = respondEphemeral(m.ctx, api, i, msgNotOwner)
	case errors.Is(err, present.ErrSessionGone):
		err = respondEphemeral(m.ctx, api, i, msgSessionGone)
	case err == nil:
		err = api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    v.Content,
				Embeds:     v.Embeds,
				Components: v.Components,
			},
		}, discordgo.WithContext(m.ctx))
	}
	if err != nil {
		m.log.Warn("fact: page reply failed", zap.String("session", id), zap.Error(err))
	}
}

// matchPrefix returns the text after the first configured prefix content starts with,
// compared case-insensitively.
func matchPrefix(prefixes []string, content string) (string, bool) {
	for _, p := range prefixes {
		if p != "" && len(content) >= len(p) && strings.EqualFold(content[:len(p)], p) {
			return strings.TrimSpace(content[len(p):]), true
		}
	}
	return "", false
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func commandOption(i *discordgo.Interaction, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
