package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string `mapstructure:"PORT"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	WebhooksEnabled      bool   `mapstructure:"WEBHOOKS_ENABLED"`
	WebhookSigningSecret string `mapstructure:"WEBHOOK_SIGNING_SECRET"`
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int    `mapstructure:"REDIS_DB"`
	SourcesFile          string `mapstructure:"SOURCES_FILE"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", string(Sandbox))
	viper.SetDefault("WEBHOOKS_ENABLED", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SOURCES_FILE", "sources.yaml")

	err := viper.ReadInConfig()
	if err != nil {
		// A missing config file is fine, the environment alone can configure us
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

// GetEnvironment returns the parsed deployment environment
func (c *Config) GetEnvironment() Environment {
	return NewEnvironment(c.Environment)
}

/* StaticFlags is a feature-flag provider answering from configuration
 * Explicit injection instead of module-level globals keeps tests free
 * to swap it for a fake
 */
type StaticFlags struct {
	Enabled bool
}

// WebhooksEnabled reports whether outbound webhook delivery is enabled
func (f StaticFlags) WebhooksEnabled(_ context.Context) bool {
	return f.Enabled
}
