package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken   string `env:"DISCORD_TOKEN,required"`
	TwitchClientID string `env:"TWITCH_CLIENT_ID"`
	TwitchToken    string `env:"TWITCH_APP_TOKEN"`
	SettingsPath   string `env:"SETTINGS_PATH" envDefault:"voice_warden_settings.json"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	CommandPrefix  string `env:"COMMAND_PREFIX" envDefault:"!vw"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.StorageBackend != "file" && cfg.StorageBackend != "sqlite" {
		return nil, fmt.Errorf("unknown storage backend %q (want file or sqlite)", cfg.StorageBackend)
	}
	return cfg, nil
}
