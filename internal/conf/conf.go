package conf

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config represents application configuration. Everything is sourced
// from the environment; no other config mechanism is in scope.
type Config struct {
	// Line is the messaging-platform configuration.
	Line LineConfig

	// Sheet is the spreadsheet store configuration.
	Sheet SheetConfig

	// Relay is the completion-API configuration (optional).
	Relay RelayConfig

	// Server is the HTTP server configuration.
	Server ServerConfig

	// Timezone renders joined_at and notification timestamps.
	Timezone string `env:"TIMEZONE" envDefault:"Asia/Taipei"`

	// Debug enables debug-level logging.
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// LineConfig contains LINE credentials.
type LineConfig struct {
	AccessToken   string `env:"ACCESS_TOKEN"`
	ChannelSecret string `env:"CHANNEL_SECRET"`

	// BotName triggers the prompt relay when mentioned; empty disables
	// mention handling.
	BotName string `env:"BOT_NAME"`
}

// SheetConfig contains spreadsheet configuration.
type SheetConfig struct {
	SpreadsheetID   string `env:"SHEET_ID"`
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"service-account.json"`
	GroupSheet      string `env:"GROUP_SHEET" envDefault:"groups"`
	RuleSheet       string `env:"RULE_SHEET" envDefault:"notify_rules"`

	// MessageSheet receives one row per group message; empty disables
	// message archiving.
	MessageSheet string `env:"MESSAGE_SHEET" envDefault:"messages"`
}

// RelayConfig contains completion-API configuration.
type RelayConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"OPENAI_MODEL"`
	Timeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"10s"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int `env:"PORT" envDefault:"8080"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Line.AccessToken == "" || c.Line.ChannelSecret == "" {
		return &ConfigError{Field: "ACCESS_TOKEN/CHANNEL_SECRET", Message: "required"}
	}
	if c.Sheet.SpreadsheetID == "" {
		return &ConfigError{Field: "SHEET_ID", Message: "required"}
	}
	return nil
}

// Location resolves the configured timezone, falling back to the local
// zone when the name does not resolve.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
