// Package config loads shoplist and shoplistd settings from the environment,
// an optional config file and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// Client
	BaseURL string        `mapstructure:"SHOPLIST_BASE_URL" validate:"required,url"`
	Token   string        `mapstructure:"SHOPLIST_TOKEN"`
	Timeout time.Duration `mapstructure:"SHOPLIST_TIMEOUT" validate:"gt=0"`

	// Logging, shared by both binaries
	LogLevel  string `mapstructure:"SHOPLIST_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `mapstructure:"SHOPLIST_LOG_FORMAT" validate:"omitempty,oneof=text json"`

	// Server
	Port      string `mapstructure:"SHOPLISTD_PORT" validate:"required,numeric"`
	DBPath    string `mapstructure:"SHOPLISTD_DB_PATH" validate:"required"`
	TokenHash string `mapstructure:"SHOPLISTD_TOKEN_HASH"`
	RateLimit int    `mapstructure:"SHOPLISTD_RATE_LIMIT" validate:"gte=0"`
}

var defaults = map[string]any{
	"SHOPLIST_BASE_URL":    "http://localhost:8080/api",
	"SHOPLIST_TOKEN":       "",
	"SHOPLIST_TIMEOUT":     10 * time.Second,
	"SHOPLIST_LOG_LEVEL":   "info",
	"SHOPLIST_LOG_FORMAT":  "text",
	"SHOPLISTD_PORT":       "8080",
	"SHOPLISTD_DB_PATH":    "shoplist.db",
	"SHOPLISTD_TOKEN_HASH": "",
	"SHOPLISTD_RATE_LIMIT": 600,
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"base-url":   "SHOPLIST_BASE_URL",
	"token":      "SHOPLIST_TOKEN",
	"timeout":    "SHOPLIST_TIMEOUT",
	"log-level":  "SHOPLIST_LOG_LEVEL",
	"log-format": "SHOPLIST_LOG_FORMAT",
	"port":       "SHOPLISTD_PORT",
	"db":         "SHOPLISTD_DB_PATH",
	"rate-limit": "SHOPLISTD_RATE_LIMIT",
}

var validate = validator.New()

// Load reads configuration. With configFile empty, a .env file in the working
// directory is used when present. Flags found in flags override everything
// else when set on the command line.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read .env: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
