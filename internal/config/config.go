package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

// Config holds all environment-derived settings. It is built once at
// process start and passed down explicitly; nothing reads the environment
// after this point.
type Config struct {
	DatabaseURL    string
	BotToken       string
	TelegramAPIURL string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("telegram.api_url", "TELEGRAM_API_URL")

	viper.SetDefault("telegram.api_url", "https://api.telegram.org")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using environment: %v", err)
	}

	cfg := &Config{
		DatabaseURL:    viper.GetString("database.url"),
		BotToken:       viper.GetString("telegram.bot_token"),
		TelegramAPIURL: viper.GetString("telegram.api_url"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// MustLoad loads configuration and exits on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}
