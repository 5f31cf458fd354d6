package main

import (
	"strings"
	"testing"

	"github.com/lingot-dev/lingot/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Deck.Path = "words.csv"
	cfg.Speech.Command = "espeak-ng -v es"
	cfg.Gen.APIKey = "sk-ant-api03-abcdefgh1234"
	cfg.Gen.Model = "claude-haiku-4-5"
	return cfg
}

func TestGetConfigValue(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"deck.path", "words.csv"},
		{"deck.url", "(not set)"},
		{"deck.watch", "true"},
		{"speech.command", "espeak-ng -v es"},
		{"speech.auto", "false"},
		{"tui.show_examples", "true"},
		{"gen.model", "claude-haiku-4-5"},
		{"gen.use_bedrock", "false"},
		{"gen.source_lang", "spanish"},
		{"gen.target_lang", "english"},
		{"DECK.PATH", "words.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue(%q) returned error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("getConfigValue(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestGetConfigValueMasksAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := testConfig()

	got, err := getConfigValue(cfg, "gen.api_key")
	if err != nil {
		t.Fatalf("getConfigValue returned error: %v", err)
	}
	if strings.Contains(got, cfg.Gen.APIKey) {
		t.Error("gen.api_key should not be displayed in full")
	}
	if !strings.Contains(got, "...") {
		t.Errorf("masked key %q should contain an ellipsis", got)
	}
	if !strings.Contains(got, "config_file") {
		t.Errorf("masked key %q should name its source", got)
	}

	cfg.Gen.APIKey = ""
	got, err = getConfigValue(cfg, "gen.api_key")
	if err != nil {
		t.Fatalf("getConfigValue returned error: %v", err)
	}
	if got != "(not set)" {
		t.Errorf("unset gen.api_key = %q, want %q", got, "(not set)")
	}
}

func TestGetConfigValueUnknownKey(t *testing.T) {
	if _, err := getConfigValue(config.Default(), "no.such.key"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(cfg *config.Config) bool
	}{
		{"deck.path", "other.csv", func(cfg *config.Config) bool { return cfg.Deck.Path == "other.csv" }},
		{"deck.url", "https://example.com/deck.csv", func(cfg *config.Config) bool { return cfg.Deck.URL == "https://example.com/deck.csv" }},
		{"deck.watch", "false", func(cfg *config.Config) bool { return !cfg.Deck.Watch }},
		{"data.dir", "/tmp/lingot-data", func(cfg *config.Config) bool { return cfg.Data.Dir == "/tmp/lingot-data" }},
		{"speech.auto", "true", func(cfg *config.Config) bool { return cfg.Speech.Auto }},
		{"tui.show_examples", "false", func(cfg *config.Config) bool { return !cfg.TUI.ShowExamples }},
		{"gen.api_key", "sk-ant-api03-test-key-1234", func(cfg *config.Config) bool { return cfg.Gen.APIKey == "sk-ant-api03-test-key-1234" }},
		{"gen.api_key", "${LINGOT_API_KEY}", func(cfg *config.Config) bool { return cfg.Gen.APIKey == "${LINGOT_API_KEY}" }},
		{"gen.api_key", "", func(cfg *config.Config) bool { return cfg.Gen.APIKey == "" }},
		{"gen.model", "claude-sonnet-4-5", func(cfg *config.Config) bool { return cfg.Gen.Model == "claude-sonnet-4-5" }},
		{"gen.use_bedrock", "true", func(cfg *config.Config) bool { return cfg.Gen.UseBedrock }},
		{"gen.source_lang", "french", func(cfg *config.Config) bool { return cfg.Gen.SourceLang == "french" }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := config.Default()
			if err := setConfigValue(cfg, tt.key, tt.value); err != nil {
				t.Fatalf("setConfigValue(%q, %q) returned error: %v", tt.key, tt.value, err)
			}
			if !tt.check(cfg) {
				t.Errorf("setConfigValue(%q, %q) did not apply", tt.key, tt.value)
			}
		})
	}
}

func TestSetConfigValueInvalidBool(t *testing.T) {
	for _, key := range []string{"deck.watch", "speech.auto", "tui.show_examples", "gen.use_bedrock"} {
		t.Run(key, func(t *testing.T) {
			if err := setConfigValue(config.Default(), key, "maybe"); err == nil {
				t.Errorf("setConfigValue(%q, \"maybe\") should fail", key)
			}
		})
	}
}

func TestSetConfigValueRejectsBadAPIKey(t *testing.T) {
	for _, value := range []string{"not-a-key", "sk-ant-x"} {
		t.Run(value, func(t *testing.T) {
			if err := setConfigValue(config.Default(), "gen.api_key", value); err == nil {
				t.Errorf("setConfigValue(\"gen.api_key\", %q) should fail", value)
			}
		})
	}
}

func TestSetConfigValueUnknownKey(t *testing.T) {
	if err := setConfigValue(config.Default(), "no.such.key", "x"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestOrUnset(t *testing.T) {
	if got := orUnset(""); got != "(not set)" {
		t.Errorf("orUnset(\"\") = %q", got)
	}
	if got := orUnset("value"); got != "value" {
		t.Errorf("orUnset(\"value\") = %q", got)
	}
}
