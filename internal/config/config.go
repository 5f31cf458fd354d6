// Package config handles configuration loading and management for lingot.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for lingot.
type Config struct {
	Deck   DeckConfig   `mapstructure:"deck"`
	Data   DataConfig   `mapstructure:"data"`
	Speech SpeechConfig `mapstructure:"speech"`
	TUI    TUIConfig    `mapstructure:"tui"`
	Gen    GenConfig    `mapstructure:"gen"`
}

// DeckConfig holds deck source settings.
type DeckConfig struct {
	// Path is a deck file on disk (CSV, TSV or YAML).
	Path string `mapstructure:"path"`
	// URL fetches the deck over HTTP when Path is empty.
	URL string `mapstructure:"url"`
	// Watch reloads the deck file automatically while studying.
	Watch bool `mapstructure:"watch"`
}

// DataConfig holds storage settings.
type DataConfig struct {
	// Dir overrides the XDG data directory for the database and logs.
	Dir string `mapstructure:"dir"`
}

// SpeechConfig holds pronunciation settings.
type SpeechConfig struct {
	// Command is the program used to speak a term, e.g. "espeak-ng -v es"
	// or "say -v Monica". The term is appended as the final argument.
	Command string `mapstructure:"command"`
	// Auto speaks each newly shown card without pressing the speak key.
	Auto bool `mapstructure:"auto"`
}

// TUIConfig holds study view display settings.
type TUIConfig struct {
	ShowExamples bool `mapstructure:"show_examples"`
}

// GenConfig holds card generation settings.
type GenConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.lingot.yaml in current directory or parent)
// 3. User config (~/.config/lingot/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	// Map specific environment variables
	v.BindEnv("gen.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Gen.APIKey = expandEnv(cfg.Gen.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Gen.APIKey = expandEnv(cfg.Gen.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("deck.path", cfg.Deck.Path)
	v.Set("deck.url", cfg.Deck.URL)
	v.Set("deck.watch", cfg.Deck.Watch)
	v.Set("data.dir", cfg.Data.Dir)
	v.Set("speech.command", cfg.Speech.Command)
	v.Set("speech.auto", cfg.Speech.Auto)
	v.Set("tui.show_examples", cfg.TUI.ShowExamples)
	v.Set("gen.api_key", cfg.Gen.APIKey)
	v.Set("gen.model", cfg.Gen.Model)
	v.Set("gen.use_bedrock", cfg.Gen.UseBedrock)
	v.Set("gen.aws_region", cfg.Gen.AWSRegion)
	v.Set("gen.aws_profile", cfg.Gen.AWSProfile)
	v.Set("gen.source_lang", cfg.Gen.SourceLang)
	v.Set("gen.target_lang", cfg.Gen.TargetLang)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// DataDir returns the directory holding the database and debug logs.
// The configured override wins over the XDG default.
func (c *Config) DataDir() string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "lingot")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "share", "lingot")
	}
	return filepath.Join(home, ".local", "share", "lingot")
}

// DBPath returns the SQLite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir(), "lingot.db")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Deck defaults
	v.SetDefault("deck.path", "")
	v.SetDefault("deck.url", "")
	v.SetDefault("deck.watch", true)

	// Storage defaults
	v.SetDefault("data.dir", "")

	// Speech defaults
	v.SetDefault("speech.command", "")
	v.SetDefault("speech.auto", false)

	// TUI defaults
	v.SetDefault("tui.show_examples", true)

	// Generation defaults
	v.SetDefault("gen.api_key", "")
	v.SetDefault("gen.model", "")
	v.SetDefault("gen.use_bedrock", false)
	v.SetDefault("gen.aws_region", "")
	v.SetDefault("gen.aws_profile", "")
	v.SetDefault("gen.source_lang", "spanish")
	v.SetDefault("gen.target_lang", "english")
}

// getUserConfigDir returns the XDG config directory for lingot.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "lingot")
	}

	// Fall back to ~/.config/lingot
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "lingot")
	}
	return filepath.Join(home, ".config", "lingot")
}

// findProjectConfig searches for .lingot.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".lingot.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Deck: DeckConfig{
			Watch: true,
		},
		TUI: TUIConfig{
			ShowExamples: true,
		},
		Gen: GenConfig{
			SourceLang: "spanish",
			TargetLang: "english",
		},
	}
}
