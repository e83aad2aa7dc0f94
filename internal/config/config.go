// Package config loads assistant settings from a config file and the
// environment. File keys, env vars (AURA_ prefixed), and defaults are merged
// in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved assistant configuration.
type Config struct {
	Username  string `mapstructure:"username"`
	Assistant string `mapstructure:"assistant"`

	DataDir string `mapstructure:"data_dir"`
	SlotDir string `mapstructure:"slot_dir"`
	DBPath  string `mapstructure:"db_path"`

	Provider string `mapstructure:"provider"` // openai, groq, gemini
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`

	WeatherAPIKey string `mapstructure:"weather_api_key"`
	NewsAPIKey    string `mapstructure:"news_api_key"`
	City          string `mapstructure:"city"`

	CountryCode string            `mapstructure:"country_code"`
	Contacts    map[string]string `mapstructure:"contacts"`
	Favorites   []string          `mapstructure:"favorites"`

	HistoryWindow int      `mapstructure:"history_window"`
	ImageWorker   []string `mapstructure:"image_worker"`
	TTSCommand    []string `mapstructure:"tts_command"`
}

// Load reads configuration from the given file, or from the default search
// paths when path is empty. A missing config file is not an error; defaults
// and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("aura")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.aura")
	v.AddConfigPath(".")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("AURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about, so a key
	// with no default and no config entry would ignore its AURA_ variable.
	// Bind every key explicitly.
	for _, key := range []string{
		"username", "assistant",
		"data_dir", "slot_dir", "db_path",
		"provider", "model", "api_key", "base_url",
		"weather_api_key", "news_api_key", "city",
		"country_code", "contacts", "favorites",
		"history_window", "image_worker", "tts_command",
	} {
		v.BindEnv(key)
	}

	home, _ := os.UserHomeDir()
	v.SetDefault("username", "Friend")
	v.SetDefault("assistant", "Aura")
	v.SetDefault("data_dir", filepath.Join(home, ".aura"))
	v.SetDefault("provider", "openai")
	v.SetDefault("country_code", "+1")
	v.SetDefault("history_window", 20)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.SlotDir == "" {
		cfg.SlotDir = filepath.Join(cfg.DataDir, "slots")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "aura.db")
	}

	// Lowercase contact names so lookups are case-insensitive.
	if len(cfg.Contacts) > 0 {
		contacts := make(map[string]string, len(cfg.Contacts))
		for name, phone := range cfg.Contacts {
			contacts[strings.ToLower(name)] = phone
		}
		cfg.Contacts = contacts
	}

	return &cfg, nil
}
