package generate

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCardsPlainArray(t *testing.T) {
	raw := `[
  {"term": "la manzana", "translation": "apple", "category": "food"},
  {"term": "el tren", "translation": "train", "category": "travel",
   "example": "El tren llega tarde.", "example_translation": "The train arrives late."}
]`

	cards, err := parseCards(raw)
	if err != nil {
		t.Fatalf("parseCards failed: %v", err)
	}

	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	if cards[0].Term != "la manzana" {
		t.Errorf("expected term 'la manzana', got %q", cards[0].Term)
	}
	if cards[0].Category != "food" {
		t.Errorf("expected category 'food', got %q", cards[0].Category)
	}
	if cards[1].Example != "El tren llega tarde." {
		t.Errorf("expected example to survive, got %q", cards[1].Example)
	}
}

func TestParseCardsMarkdownFence(t *testing.T) {
	raw := "Here are your cards:\n```json\n" +
		`[{"term": "hola", "translation": "hello", "category": "greetings"}]` +
		"\n```\nLet me know if you need more."

	cards, err := parseCards(raw)
	if err != nil {
		t.Fatalf("parseCards failed: %v", err)
	}

	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Term != "hola" {
		t.Errorf("expected term 'hola', got %q", cards[0].Term)
	}
}

func TestParseCardsDropsInvalidEntries(t *testing.T) {
	raw := `[
  {"term": "hola", "translation": "hello"},
  {"term": "", "translation": "empty term"},
  {"term": "no translation"},
  {"term": "adiós", "translation": "goodbye", "category": "GREETINGS"}
]`

	cards, err := parseCards(raw)
	if err != nil {
		t.Fatalf("parseCards failed: %v", err)
	}

	if len(cards) != 2 {
		t.Fatalf("expected 2 valid cards, got %d", len(cards))
	}

	// Missing category defaults, present category is normalized
	if cards[0].Category != "other" {
		t.Errorf("expected default category 'other', got %q", cards[0].Category)
	}
	if cards[1].Category != "greetings" {
		t.Errorf("expected normalized category 'greetings', got %q", cards[1].Category)
	}
}

func TestParseCardsNothingSurvives(t *testing.T) {
	raw := `[{"term": "", "translation": ""}, {"category": "food"}]`

	_, err := parseCards(raw)
	if !errors.Is(err, ErrNoCards) {
		t.Fatalf("expected ErrNoCards, got %v", err)
	}
}

func TestParseCardsNoArray(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not generate any cards for that topic.",
		`{"term": "hola", "translation": "hello"}`,
	} {
		if _, err := parseCards(raw); err == nil {
			t.Errorf("parseCards(%q): expected an error", raw)
		}
	}
}

func TestParseCardsMalformedJSON(t *testing.T) {
	raw := `[{"term": "hola", "translation": }]`

	_, err := parseCards(raw)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if errors.Is(err, ErrNoCards) {
		t.Fatal("malformed JSON should not report ErrNoCards")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("ordering food in a restaurant", 15, "spanish", "english")

	for _, want := range []string{
		"15",
		"ordering food in a restaurant",
		"spanish",
		"english",
		"JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}
