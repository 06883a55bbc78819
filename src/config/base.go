package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/stake-plus/guildpulse/src/data"
)

// Base contains common configuration fields
type Base struct {
	Token   string
	GuildID string
}

var source = newSource()

func newSource() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// Init resets the config source and, when path is set, reads a config file
// whose keys are setting names (e.g. command_channel: bot-commands).
func Init(path string) error {
	v := newSource()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	source = v
	return nil
}

// LoadBase loads common configuration (discord token, guild ID).
func LoadBase() Base {
	return Base{
		Token:   GetSetting("discord_token", "DISCORD_TOKEN", ""),
		GuildID: GetSetting("guild_id", "GUILD_ID", ""),
	}
}

// GetSetting retrieves a setting: settings table, then environment, then the
// config file, then defaultValue.
func GetSetting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" && envKey != "" {
		val = source.GetString(envKey)
	}
	if val == "" {
		val = source.GetString(name)
	}
	if val == "" {
		val = defaultValue
	}
	return strings.TrimSpace(val)
}

func getBoolSetting(settingKey, envKey string, defaultValue bool) bool {
	return parseBoolDefault(GetSetting(settingKey, envKey, ""), defaultValue)
}

func getIntSetting(settingKey, envKey string, defaultValue int) int {
	raw := GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getListSetting(settingKey, envKey, defaultValue string) []string {
	raw := GetSetting(settingKey, envKey, defaultValue)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
