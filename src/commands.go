package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"github.com/stake-plus/capapp/src/actions"
	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/config"
	"github.com/stake-plus/capapp/src/data"
	shareddiscord "github.com/stake-plus/capapp/src/discord"
	"github.com/stake-plus/capapp/src/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	resetCommands bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and start fact-checking",
		RunE:  runBot,
	}

	registerCommandsCmd = &cobra.Command{
		Use:   "register-commands",
		Short: "Register the /fact and /stats slash commands with the configured guild",
		RunE:  registerCommands,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print verdict counts from the fact-check log",
		RunE:  printStats,
	}
)

func init() {
	registerCommandsCmd.Flags().BoolVar(&resetCommands, "reset", false, "delete existing guild commands first")
}

type app struct {
	log    *zap.Logger
	db     *gorm.DB
	loader *config.Loader
}

// bootstrap builds the logger and the settings source shared by every command.
func bootstrap() (*app, error) {
	log, err := logging.New(debug)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	settings := data.NewSettings(nil)
	var db *gorm.DB
	if dsn := data.GetMySQLDSN(); dsn != "" {
		db, err = data.ConnectMySQL(dsn, log)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
	}

	switch {
	case configPath != "":
		if err := settings.LoadYAML(configPath); err != nil {
			return nil, err
		}
	case db != nil:
		// Env fallbacks still apply when the table is missing.
		if err := settings.LoadDB(db); err != nil {
			log.Warn("settings: database unavailable, using environment", zap.Error(err))
		}
	}

	return &app{log: log, db: db, loader: config.NewLoader(settings)}, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	cfg := a.loader.LoadFactCheckConfig()
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	manager, err := actions.StartAll(ctx, cfg, a.loader.LoadServerConfig(), a.db, a.log)
	if err != nil {
		a.log.Error("actions start", zap.Error(err))
		return err
	}
	a.log.Info("capapp: running",
		zap.Strings("prefixes", cfg.Prefixes),
		zap.Duration("scan_interval", cfg.ScanInterval),
		zap.String("audit_backend", cfg.AuditBackend))

	<-ctx.Done()
	manager.Stop(context.Background())
	return nil
}

func registerCommands(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	cfg := a.loader.LoadBase()
	if cfg.Token == "" || cfg.ClientID == "" || cfg.GuildID == "" {
		return fmt.Errorf("DISCORD_TOKEN, CLIENT_ID and GUILD_ID are required")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("discord session: %w", err)
	}
	if resetCommands {
		if err := shareddiscord.DeleteSlashCommands(session, cfg.ClientID, cfg.GuildID); err != nil {
			return fmt.Errorf("delete commands: %w", err)
		}
	}
	if err := shareddiscord.RegisterSlashCommands(session, a.log, cfg.ClientID, cfg.GuildID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered slash commands for guild %s\n", cfg.GuildID)
	return nil
}

func printStats(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	store, err := actions.OpenAuditStore(a.loader.LoadFactCheckConfig(), a.db)
	if err != nil {
		return err
	}
	sum, err := audit.NewRecorder(store, a.log).Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	writeSummary(cmd.OutOrStdout(), sum)
	return nil
}

func writeSummary(w io.Writer, sum audit.Summary) {
	fmt.Fprintf(w, "Total claims checked: %d\n", sum.Total)
	for _, c := range sum.Counts {
		fmt.Fprintf(w, "  %-12s %d\n", c.Verdict, c.Count)
	}
}
