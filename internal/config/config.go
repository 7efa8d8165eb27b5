// Package config provides YAML-based configuration loading for Lifeline.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Lifeline configuration, loaded from config.yaml.
type Config struct {
	AgentName string          `yaml:"agent_name"`
	Language  string          `yaml:"language"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Watchdog  WatchdogConfig  `yaml:"watchdog"`
	LLM       LLMConfig       `yaml:"llm"`
	Alerts    AlertsConfig    `yaml:"alerts"`
}

// MySQLConfig holds connection settings for the backing store.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RealtimeConfig holds settings for the dashboard push channel.
type RealtimeConfig struct {
	URL string `yaml:"url"`
}

// DispatchConfig controls responder dispatch behavior.
type DispatchConfig struct {
	// AllowMultiple permits more than one live dispatch per session
	// (multi-unit response). When false, a dispatch request against a
	// session that already holds a live dispatch patches that dispatch.
	AllowMultiple bool `yaml:"allow_multiple"`
}

// DashboardConfig holds settings for the read API server.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// WatchdogConfig controls the stale-session sweeper.
type WatchdogConfig struct {
	Schedule       string `yaml:"schedule"`         // cron expression
	StaleAfterMins int    `yaml:"stale_after_mins"` // inactivity window
}

// LLMConfig holds settings for the conversation model.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// AlertsConfig holds control-room alert channel settings.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack alert settings.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord alert settings.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.AgentName == "" {
		c.AgentName = "inbound-agent"
	}
	if c.Language == "" {
		c.Language = "Tamil"
	}
	if c.MySQL.Host == "" {
		c.MySQL.Host = "127.0.0.1"
	}
	if c.MySQL.Port == 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.User == "" {
		c.MySQL.User = "root"
	}
	if c.MySQL.Database == "" {
		c.MySQL.Database = "lifeline"
	}
	if c.Realtime.URL == "" {
		c.Realtime.URL = "ws://localhost:4000/ws"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 5000
	}
	if c.Watchdog.Schedule == "" {
		c.Watchdog.Schedule = "*/5 * * * *"
	}
	if c.Watchdog.StaleAfterMins == 0 {
		c.Watchdog.StaleAfterMins = 60
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
}

// applyEnv overrides secrets from the environment so they can stay out of
// the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("LIFELINE_MYSQL_PASSWORD"); v != "" {
		c.MySQL.Password = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Alerts.Slack.BotToken = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Alerts.Discord.BotToken = v
	}
	if v := os.Getenv("WEBSOCKET_URL"); v != "" {
		c.Realtime.URL = v
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.MySQL.Database == "" {
		errs = append(errs, "mysql.database is required")
	}
	if c.Watchdog.StaleAfterMins < 0 {
		errs = append(errs, "watchdog.stale_after_mins must not be negative")
	}
	if c.Alerts.Slack.BotToken != "" && c.Alerts.Slack.ChannelID == "" {
		errs = append(errs, "alerts.slack.channel_id is required when a bot token is set")
	}
	if c.Alerts.Discord.BotToken != "" && c.Alerts.Discord.ChannelID == "" {
		errs = append(errs, "alerts.discord.channel_id is required when a bot token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
