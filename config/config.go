package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	Token       string `env:"DISCORD_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Prefix      string `env:"BOT_PREFIX" envDefault:"."`

	// GuildID scopes slash command registration. Empty registers globally.
	GuildID string `env:"GUILD_ID"`

	CategoriesFile string        `env:"HELP_CATEGORIES_FILE"`
	IdleTimeout    time.Duration `env:"HELP_IDLE_TIMEOUT" envDefault:"30s"`
	MaxLifetime    time.Duration `env:"HELP_MAX_LIFETIME" envDefault:"5m"`
	SupportURL     string        `env:"SUPPORT_URL"`
	VoteURL        string        `env:"VOTE_URL"`
	BannerURL      string        `env:"HELP_BANNER_URL"`

	RateLimit int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"15"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse parses the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Prefix == "" {
		return errors.New("BOT_PREFIX must not be empty")
	}
	if c.IdleTimeout <= 0 {
		return errors.New("HELP_IDLE_TIMEOUT must be positive")
	}
	if c.MaxLifetime < c.IdleTimeout {
		return fmt.Errorf("HELP_MAX_LIFETIME (%s) must not be shorter than HELP_IDLE_TIMEOUT (%s)", c.MaxLifetime, c.IdleTimeout)
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
