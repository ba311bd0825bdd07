package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultBaseURL is the production Medogram API endpoint.
const DefaultBaseURL = "https://api.medogram.ir"

// Config represents the global ~/.medogram/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	APIBaseURL     string `toml:"api_base_url"`
	Chat           Chat   `toml:"chat"`
}

// Chat configures which assistant endpoint messages are sent to.
// Mode "assistant" uses the standard chat endpoint; "custom" routes to the
// custom bot endpoint and forwards the settings below with each message.
type Chat struct {
	Mode        string  `toml:"mode"`
	BotName     string  `toml:"bot_name"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with all defaults applied, used when no
// config.toml exists yet.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultBaseURL
	}
	if c.Chat.Mode == "" {
		c.Chat.Mode = "assistant"
	}
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
