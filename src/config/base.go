package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stake-plus/capapp/src/data"
)

// Loader resolves settings from the settings store with env fallback.
type Loader struct {
	settings *data.Settings
	env      func(string) string
}

// NewLoader reads from settings first, then the process environment.
func NewLoader(settings *data.Settings) *Loader {
	return &Loader{settings: settings, env: os.Getenv}
}

// Base contains common configuration fields
type Base struct {
	Token    string
	GuildID  string
	ClientID string
	MySQLDSN string
}

// LoadBase loads common configuration (discord token, guild ID, application ID, MySQL DSN)
func (l *Loader) LoadBase() Base {
	return Base{
		Token:    l.GetSetting("discord_token", "DISCORD_TOKEN", ""),
		GuildID:  l.GetSetting("guild_id", "GUILD_ID", ""),
		ClientID: l.GetSetting("client_id", "CLIENT_ID", ""),
		MySQLDSN: data.GetMySQLDSN(),
	}
}

// GetSetting retrieves a setting with env fallback
func (l *Loader) GetSetting(name, envKey, defaultValue string) string {
	val := strings.TrimSpace(l.settings.Get(name))
	if val == "" && envKey != "" {
		val = strings.TrimSpace(l.env(envKey))
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func (l *Loader) getBoolSetting(settingKey, envKey string, defaultValue bool) bool {
	raw := l.GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func (l *Loader) getIntSetting(settingKey, envKey string, defaultValue int) int {
	raw := l.GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func (l *Loader) getDurationSetting(settingKey, envKey string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(l.getIntSetting(settingKey, envKey, defaultValue)) * unit
}

// getListSetting splits a comma separated setting, dropping blanks.
func (l *Loader) getListSetting(settingKey, envKey, defaultValue string) []string {
	raw := l.GetSetting(settingKey, envKey, defaultValue)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
