package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"thermometer/internal/common"
)

// Environment variable that takes precedence over the configured token
const TOKEN_ENV = "DISCORD_TOKEN"

type Config struct {
	Token    string `yaml:"token"`
	Prefix   string `yaml:"prefix"`
	LogLevel string `yaml:"log_level"`
	// Guild to register the application commands in. Empty registers them globally
	CommandGuildID string `yaml:"command_guild_id"`

	Assets    AssetsConfig    `yaml:"assets"`
	PronounDB PronounDBConfig `yaml:"pronoundb"`
}

type AssetsConfig struct {
	CdnURL   string        `yaml:"cdn_url"`
	Size     int           `yaml:"size"`
	Deadline time.Duration `yaml:"deadline"`
	Timeout  time.Duration `yaml:"timeout"`
}

type PronounDBConfig struct {
	Enabled      bool                 `yaml:"enabled"`
	BaseURL      string               `yaml:"base_url"`
	Timeout      time.Duration        `yaml:"timeout"`
	Restrictions []common.Restriction `yaml:"restrictions"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Prefix:   "thermometer",
		LogLevel: "info",
		Assets: AssetsConfig{
			CdnURL:   "https://cdn.discordapp.com",
			Size:     4096,
			Deadline: time.Second,
			Timeout:  30 * time.Second,
		},
		PronounDB: PronounDBConfig{
			Enabled: true,
			BaseURL: "https://pronoundb.org",
			Timeout: 5 * time.Second,
			Restrictions: []common.Restriction{
				{Requests: 10, Duration: 10 * time.Second},
			},
		},
	}
}

// Load reads configuration from the specified file path.
// A missing file is not an error, defaults are used instead
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if token := os.Getenv(TOKEN_ENV); token != "" {
		cfg.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would make the bot misbehave.
// The token is checked separately, as not every command needs it
func (cfg *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(cfg.Prefix) == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if cfg.Assets.Deadline <= 0 {
		errs = append(errs, fmt.Errorf("assets.deadline must be positive, got %s", cfg.Assets.Deadline))
	}
	if !validSize(cfg.Assets.Size) {
		errs = append(errs, fmt.Errorf("assets.size must be a power of two between 16 and 4096, got %d", cfg.Assets.Size))
	}
	if cfg.Assets.CdnURL == "" {
		errs = append(errs, errors.New("assets.cdn_url must not be empty"))
	}
	if cfg.PronounDB.Enabled && cfg.PronounDB.BaseURL == "" {
		errs = append(errs, errors.New("pronoundb.base_url must not be empty when enabled"))
	}
	for i, restriction := range cfg.PronounDB.Restrictions {
		if restriction.Requests <= 0 || restriction.Duration <= 0 {
			errs = append(errs, fmt.Errorf("pronoundb.restrictions[%d] is not valid: %s", i, restriction))
		}
	}
	return errors.Join(errs...)
}

// RequireToken fails if there is no token to log in with
func (cfg *Config) RequireToken() error {
	if cfg.Token == "" {
		return fmt.Errorf("no discord token configured, set it in the config file or in %s", TOKEN_ENV)
	}
	return nil
}

func validSize(size int) bool {
	return size >= 16 && size <= 4096 && size&(size-1) == 0
}
