package config

import (
	"strings"
	"time"
)

// FactCheckConfig holds everything the fact-check bot needs at runtime.
type FactCheckConfig struct {
	Base

	GoogleAPIKey       string
	GoogleEndpoint     string
	PerplexityAPIKey   string
	PerplexityEndpoint string
	PerplexityModel    string

	WatchedUserIDs    []string
	WatchedChannelIDs []string
	NotifyChannelID   string
	AuthorizedUserID  string
	ModRoleID         string

	Cooldown         time.Duration
	CooldownCommands bool
	ScanInterval     time.Duration
	UpstreamTimeout  time.Duration
	PageTimeout      time.Duration

	StatusText string
	// Prefixes are lower-cased message prefixes that trigger a manual check.
	Prefixes []string

	AuditBackend string
	LogPath      string

	RedisURL    string
	AlertStream string
}

// LoadFactCheckConfig loads the bot configuration
func (l *Loader) LoadFactCheckConfig() FactCheckConfig {
	prefixes := l.getListSetting("prefixes", "COMMANDS", "!cap,!fact,!verify")
	for i, p := range prefixes {
		prefixes[i] = strings.ToLower(p)
	}

	return FactCheckConfig{
		Base: l.LoadBase(),

		GoogleAPIKey:       l.GetSetting("google_api_key", "GOOGLE_API_KEY", ""),
		GoogleEndpoint:     l.GetSetting("google_endpoint", "GOOGLE_FACTCHECK_ENDPOINT", ""),
		PerplexityAPIKey:   l.GetSetting("perplexity_api_key", "PERPLEXITY_API_KEY", ""),
		PerplexityEndpoint: l.GetSetting("perplexity_endpoint", "PERPLEXITY_ENDPOINT", ""),
		PerplexityModel:    l.GetSetting("perplexity_model", "PERPLEXITY_MODEL", "sonar"),

		WatchedUserIDs:    l.getListSetting("watched_user_ids", "WATCHED_USER_IDS", ""),
		WatchedChannelIDs: l.getListSetting("watched_channel_ids", "WATCHED_CHANNEL_IDS", ""),
		NotifyChannelID:   l.GetSetting("notify_channel_id", "NOTIFY_CHANNEL_ID", ""),
		AuthorizedUserID:  l.GetSetting("authorized_user_id", "AUTHORIZED_USER_ID", ""),
		ModRoleID:         l.GetSetting("mod_role_id", "MOD_ROLE_ID", ""),

		Cooldown:         l.getDurationSetting("cooldown_seconds", "COOLDOWN_SECONDS", 10, time.Second),
		CooldownCommands: l.getBoolSetting("cooldown_commands", "COOLDOWN_COMMANDS", false),
		ScanInterval:     l.getDurationSetting("scan_interval_ms", "FACT_CHECK_INTERVAL_MS", 60000, time.Millisecond),
		UpstreamTimeout:  l.getDurationSetting("upstream_timeout_seconds", "UPSTREAM_TIMEOUT_SECONDS", 15, time.Second),
		PageTimeout:      l.getDurationSetting("page_timeout_seconds", "PAGE_TIMEOUT_SECONDS", 120, time.Second),

		StatusText: l.GetSetting("status_text", "BOT_STATUS_TEXT", "👀 Fact-checking"),
		Prefixes:   prefixes,

		AuditBackend: strings.ToLower(l.GetSetting("audit_backend", "AUDIT_BACKEND", "file")),
		LogPath:      l.GetSetting("log_path", "LOG_PATH", "logs/factchecks.json"),

		RedisURL:    l.GetSetting("redis_url", "REDIS_URL", ""),
		AlertStream: l.GetSetting("alert_stream", "ALERT_STREAM", "capapp.alerts"),
	}
}

// ServerConfig configures the liveness and metrics listener.
type ServerConfig struct {
	Port string
}

func (l *Loader) LoadServerConfig() ServerConfig {
	return ServerConfig{Port: l.GetSetting("port", "PORT", "8080")}
}
