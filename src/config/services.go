package config

import (
	"path/filepath"
	"time"
)

// EngagementConfig holds activity tracking and leaderboard configuration
type EngagementConfig struct {
	Base
	DataFile   string
	SessionGap time.Duration
	Enabled    bool
}

// LoadEngagementConfig loads activity tracking configuration
func LoadEngagementConfig() EngagementConfig {
	gap := getIntSetting("session_gap_minutes", "SESSION_GAP_MINUTES", 5)
	if gap <= 0 {
		gap = 5
	}

	return EngagementConfig{
		Base:       LoadBase(),
		DataFile:   GetSetting("data_file", "DATA_FILE", "botData.json"),
		SessionGap: time.Duration(gap) * time.Minute,
		Enabled:    getBoolSetting("enable_engagement", "ENABLE_ENGAGEMENT", true),
	}
}

// SuggestionConfig holds suggestion workflow configuration
type SuggestionConfig struct {
	Base
	CommandChannel    string
	SuggestionChannel string
	RoleKeywords      []string
	RoleIDs           []string
	Cooldown          time.Duration
	// DataFile backs the suggestion records when RedisURL is empty.
	DataFile string
	RedisURL string
	Enabled  bool
}

// LoadSuggestionConfig loads suggestion workflow configuration
func LoadSuggestionConfig() SuggestionConfig {
	cooldown := getIntSetting("suggestion_cooldown_seconds", "SUGGESTION_COOLDOWN_SECONDS", 0)
	if cooldown < 0 {
		cooldown = 0
	}

	dataDir := filepath.Dir(GetSetting("data_file", "DATA_FILE", "botData.json"))

	return SuggestionConfig{
		Base:              LoadBase(),
		CommandChannel:    GetSetting("command_channel", "COMMAND_CHANNEL", "commands"),
		SuggestionChannel: GetSetting("suggestion_channel", "SUGGESTION_CHANNEL", "suggestions"),
		RoleKeywords:      getListSetting("moderator_role_keywords", "MODERATOR_ROLE_KEYWORDS", "moderator,admin,owner"),
		RoleIDs:           getListSetting("moderator_role_ids", "MODERATOR_ROLE_IDS", ""),
		Cooldown:          time.Duration(cooldown) * time.Second,
		DataFile:          GetSetting("suggestions_file", "SUGGESTIONS_FILE", filepath.Join(dataDir, "suggestions.json")),
		RedisURL:          GetSetting("redis_url", "REDIS_URL", ""),
		Enabled:           getBoolSetting("enable_suggestions", "ENABLE_SUGGESTIONS", true),
	}
}

// APIConfig holds stats API configuration
type APIConfig struct {
	Listen      string
	JWTSecret   string
	CORSOrigins []string
	RateLimit   int
	Enabled     bool
}

// LoadAPIConfig loads stats API configuration
func LoadAPIConfig() APIConfig {
	rate := getIntSetting("api_rate_limit", "API_RATE_LIMIT", 120)
	if rate < 0 {
		rate = 0
	}

	return APIConfig{
		Listen:      GetSetting("api_listen", "API_LISTEN", ":8080"),
		JWTSecret:   GetSetting("api_jwt_secret", "API_JWT_SECRET", ""),
		CORSOrigins: getListSetting("api_cors_origins", "API_CORS_ORIGINS", "*"),
		RateLimit:   rate,
		Enabled:     getBoolSetting("enable_api", "ENABLE_API", false),
	}
}

// LogConfig holds logger configuration
type LogConfig struct {
	Mode  string
	Level string
}

// LoadLogConfig loads logger configuration
func LoadLogConfig() LogConfig {
	return LogConfig{
		Mode:  GetSetting("log_mode", "LOG_MODE", "production"),
		Level: GetSetting("log_level", "LOG_LEVEL", "info"),
	}
}
