// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Inspector InspectorConfig `mapstructure:"inspector"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// SessionConfig holds the cookie-signing secret for flash messages.
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

// InspectorConfig governs the outbound page fetch.
type InspectorConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAGEANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("inspector.timeout_seconds", 15)
	v.SetDefault("inspector.user_agent", "page-analyzer-bot/0.1")
	v.SetDefault("logging.development", true)

	// The DSN and secret have no defaults; Validate rejects their absence
	// so a misconfigured process dies at startup rather than at first use.
	_ = v.BindEnv("database.dsn")
	_ = v.BindEnv("session.secret")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	if c.Inspector.TimeoutSeconds <= 0 {
		return fmt.Errorf("inspector.timeout_seconds must be > 0")
	}
	return nil
}

// InspectTimeout converts the inspector timeout config into a duration.
func (c Config) InspectTimeout() time.Duration {
	return time.Duration(c.Inspector.TimeoutSeconds) * time.Second
}
