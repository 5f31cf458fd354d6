package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lingot-dev/lingot/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify lingot configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/lingot/config.yaml
Project-specific overrides can be placed in .lingot.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("deck.path: %s\n", orUnset(cfg.Deck.Path))
	fmt.Printf("deck.url: %s\n", orUnset(cfg.Deck.URL))
	fmt.Printf("deck.watch: %t\n", cfg.Deck.Watch)
	fmt.Printf("data.dir: %s\n", cfg.DataDir())
	fmt.Printf("speech.command: %s\n", orUnset(cfg.Speech.Command))
	fmt.Printf("speech.auto: %t\n", cfg.Speech.Auto)
	fmt.Printf("tui.show_examples: %t\n", cfg.TUI.ShowExamples)
	fmt.Printf("gen.api_key: %s\n", maskedAPIKey(cfg))
	fmt.Printf("gen.model: %s\n", orUnset(cfg.Gen.Model))
	fmt.Printf("gen.use_bedrock: %t\n", cfg.Gen.UseBedrock)
	fmt.Printf("gen.aws_region: %s\n", orUnset(cfg.Gen.AWSRegion))
	fmt.Printf("gen.aws_profile: %s\n", orUnset(cfg.Gen.AWSProfile))
	fmt.Printf("gen.source_lang: %s\n", cfg.Gen.SourceLang)
	fmt.Printf("gen.target_lang: %s\n", cfg.Gen.TargetLang)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "deck.path":
		return orUnset(cfg.Deck.Path), nil
	case "deck.url":
		return orUnset(cfg.Deck.URL), nil
	case "deck.watch":
		return strconv.FormatBool(cfg.Deck.Watch), nil
	case "data.dir":
		return cfg.DataDir(), nil
	case "speech.command":
		return orUnset(cfg.Speech.Command), nil
	case "speech.auto":
		return strconv.FormatBool(cfg.Speech.Auto), nil
	case "tui.show_examples":
		return strconv.FormatBool(cfg.TUI.ShowExamples), nil
	case "gen.api_key":
		return maskedAPIKey(cfg), nil
	case "gen.model":
		return orUnset(cfg.Gen.Model), nil
	case "gen.use_bedrock":
		return strconv.FormatBool(cfg.Gen.UseBedrock), nil
	case "gen.aws_region":
		return orUnset(cfg.Gen.AWSRegion), nil
	case "gen.aws_profile":
		return orUnset(cfg.Gen.AWSProfile), nil
	case "gen.source_lang":
		return cfg.Gen.SourceLang, nil
	case "gen.target_lang":
		return cfg.Gen.TargetLang, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "deck.path":
		cfg.Deck.Path = value
	case "deck.url":
		cfg.Deck.URL = value
	case "deck.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for deck.watch: %w", err)
		}
		cfg.Deck.Watch = b
	case "data.dir":
		cfg.Data.Dir = value
	case "speech.command":
		cfg.Speech.Command = value
	case "speech.auto":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for speech.auto: %w", err)
		}
		cfg.Speech.Auto = b
	case "tui.show_examples":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for tui.show_examples: %w", err)
		}
		cfg.TUI.ShowExamples = b
	case "gen.api_key":
		// ${VAR} references and clearing the key skip format validation.
		if value != "" && !strings.Contains(value, "${") {
			if err := config.ValidateAPIKey(value); err != nil {
				return fmt.Errorf("gen.api_key: %w", err)
			}
		}
		cfg.Gen.APIKey = value
	case "gen.model":
		cfg.Gen.Model = value
	case "gen.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for gen.use_bedrock: %w", err)
		}
		cfg.Gen.UseBedrock = b
	case "gen.aws_region":
		cfg.Gen.AWSRegion = value
	case "gen.aws_profile":
		cfg.Gen.AWSProfile = value
	case "gen.source_lang":
		cfg.Gen.SourceLang = value
	case "gen.target_lang":
		cfg.Gen.TargetLang = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// maskedAPIKey shows enough of the resolved key to recognize it, plus where
// it came from. ANTHROPIC_API_KEY in the environment wins over the config
// file, so the source matters when both are set.
func maskedAPIKey(cfg *config.Config) string {
	key, err := config.GetAPIKey(cfg)
	if err != nil {
		return "(not set)"
	}
	return fmt.Sprintf("%s (%s)", config.MaskAPIKey(key), config.GetAPIKeySource(cfg))
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
