package config

import (
	"testing"
	"time"

	"github.com/stake-plus/capapp/src/data"
	"github.com/stretchr/testify/assert"
)

func loaderWith(settings map[string]string, env map[string]string) *Loader {
	l := NewLoader(data.NewSettings(settings))
	l.env = func(k string) string { return env[k] }
	return l
}

func TestLoadFactCheckConfigDefaults(t *testing.T) {
	cfg := loaderWith(nil, nil).LoadFactCheckConfig()

	assert.Equal(t, []string{"!cap", "!fact", "!verify"}, cfg.Prefixes)
	assert.Equal(t, 10*time.Second, cfg.Cooldown)
	assert.False(t, cfg.CooldownCommands)
	assert.Equal(t, time.Minute, cfg.ScanInterval)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 2*time.Minute, cfg.PageTimeout)
	assert.Equal(t, "sonar", cfg.PerplexityModel)
	assert.Equal(t, "file", cfg.AuditBackend)
	assert.Equal(t, "logs/factchecks.json", cfg.LogPath)
	assert.Equal(t, "capapp.alerts", cfg.AlertStream)
	assert.Equal(t, "👀 Fact-checking", cfg.StatusText)
	assert.Empty(t, cfg.WatchedUserIDs)
}

func TestSettingsTakePrecedenceOverEnv(t *testing.T) {
	l := loaderWith(
		map[string]string{"discord_token": "from-db", "cooldown_seconds": "3"},
		map[string]string{"DISCORD_TOKEN": "from-env", "GUILD_ID": "g1", "COOLDOWN_SECONDS": "99"},
	)
	cfg := l.LoadFactCheckConfig()

	assert.Equal(t, "from-db", cfg.Token)
	assert.Equal(t, "g1", cfg.GuildID)
	assert.Equal(t, 3*time.Second, cfg.Cooldown)
}

func TestListsAndFlags(t *testing.T) {
	l := loaderWith(nil, map[string]string{
		"WATCHED_USER_IDS":  " 1, 2 ,,3 ",
		"COMMANDS":          "!Check, ?FC",
		"COOLDOWN_COMMANDS": "true",
		"AUDIT_BACKEND":     "MySQL",
		"COOLDOWN_SECONDS":  "not-a-number",
	})
	cfg := l.LoadFactCheckConfig()

	assert.Equal(t, []string{"1", "2", "3"}, cfg.WatchedUserIDs)
	assert.Equal(t, []string{"!check", "?fc"}, cfg.Prefixes)
	assert.True(t, cfg.CooldownCommands)
	assert.Equal(t, "mysql", cfg.AuditBackend)
	assert.Equal(t, 10*time.Second, cfg.Cooldown)
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8080", loaderWith(nil, nil).LoadServerConfig().Port)
	assert.Equal(t, "9090", loaderWith(nil, map[string]string{"PORT": "9090"}).LoadServerConfig().Port)
}
