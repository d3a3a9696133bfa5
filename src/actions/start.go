package actions

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	factmodule "github.com/stake-plus/capapp/src/actions/fact"
	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/config"
	"github.com/stake-plus/capapp/src/data"
	"github.com/stake-plus/capapp/src/factcheck"
	"github.com/stake-plus/capapp/src/health"
	"github.com/stake-plus/capapp/src/present"
	"github.com/stake-plus/capapp/src/scan"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartAll wires up the bot's modules and starts the manager. db may be nil when the
// bot runs without MySQL.
func StartAll(ctx context.Context, cfg config.FactCheckConfig, srv config.ServerConfig, db *gorm.DB, log *zap.Logger) (*Manager, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("actions: DISCORD_TOKEN is not set")
	}
	mgr := NewManager()
	mgr.UseLogger(log.Named("core"))

	store, err := OpenAuditStore(cfg, db)
	if err != nil {
		return nil, err
	}
	recorder := audit.NewRecorder(store, log.Named("audit"))

	gateway := factcheck.NewGateway(
		factcheck.NewGoogleClient(cfg.GoogleAPIKey, cfg.GoogleEndpoint, cfg.UpstreamTimeout),
		factcheck.NewPerplexityClient(cfg.PerplexityAPIKey, cfg.PerplexityEndpoint, cfg.PerplexityModel, cfg.UpstreamTimeout),
		cfg.UpstreamTimeout,
		log.Named("gateway"),
	)

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("actions: discord session: %w", err)
	}

	var publisher factmodule.Publisher
	if cfg.RedisURL != "" {
		rdb, err := data.ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("actions: %w", err)
		}
		stream := data.NewStreamPublisher(rdb, cfg.AlertStream)
		publisher = stream
		if err := mgr.Add(closer("redis", stream.Close, log)); err != nil {
			return nil, err
		}
		log.Info("actions: publishing alerts to redis", zap.String("stream", cfg.AlertStream))
	}

	alerter := factmodule.NewAlerter(session, cfg.NotifyChannelID, publisher, log.Named("alerts"))
	resolver := factmodule.NewResolver(session)
	buffer := scan.NewBuffer()
	scope := scan.NewScope(cfg.WatchedUserIDs, cfg.WatchedChannelIDs)
	if scope.Empty() {
		log.Info("actions: no watched users or channels, autoscan idle")
	}
	sessions := present.NewRegistry(cfg.PageTimeout)

	manual, err := factmodule.NewManual(factmodule.ManualConfig{
		Verifier:         gateway,
		Recorder:         recorder,
		Sessions:         sessions,
		Cooldown:         factmodule.NewCooldown(cfg.Cooldown),
		Fetcher:          resolver,
		Notifier:         alerter,
		AuthorizedUserID: cfg.AuthorizedUserID,
		ModRoleID:        cfg.ModRoleID,
		CooldownCommands: cfg.CooldownCommands,
		Logger:           log.Named("manual"),
	})
	if err != nil {
		return nil, fmt.Errorf("actions: init manual handler: %w", err)
	}

	discordMod, err := factmodule.NewModule(&cfg, session, factmodule.ModuleDeps{
		Manual:   manual,
		Recorder: recorder,
		Sessions: sessions,
		Buffer:   buffer,
		Scope:    scope,
		Logger:   log.Named("discord"),
	})
	if err != nil {
		return nil, fmt.Errorf("actions: init discord module: %w", err)
	}

	scheduler, err := scan.NewScheduler(scan.Config{
		Buffer:   buffer,
		Verifier: gateway,
		Resolver: resolver,
		Alerter:  alerter,
		Recorder: recorder,
		Interval: cfg.ScanInterval,
		Logger:   log.Named("autoscan"),
	})
	if err != nil {
		return nil, fmt.Errorf("actions: init scheduler: %w", err)
	}

	for _, mod := range []Module{health.New(srv.Port, log.Named("health")), discordMod, scheduler} {
		if err := mgr.Add(mod); err != nil {
			return nil, fmt.Errorf("actions: add %s module: %w", mod.Name(), err)
		}
	}

	if err := mgr.Start(ctx); err != nil {
		return nil, err
	}
	return mgr, nil
}

// OpenAuditStore selects the audit backend named by cfg.AuditBackend.
func OpenAuditStore(cfg config.FactCheckConfig, db *gorm.DB) (audit.Store, error) {
	switch cfg.AuditBackend {
	case "", "file":
		store, err := audit.NewFileStore(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("actions: audit file store: %w", err)
		}
		return store, nil
	case "mysql":
		if db == nil {
			return nil, fmt.Errorf("actions: audit backend mysql needs MYSQL_DSN")
		}
		store, err := audit.NewSQLStore(db)
		if err != nil {
			return nil, fmt.Errorf("actions: audit sql store: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("actions: unknown audit backend %q", cfg.AuditBackend)
}
