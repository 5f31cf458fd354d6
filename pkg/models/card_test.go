package models

import "testing"

func TestCard_Normalize(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want Card
	}{
		{
			"trims whitespace",
			Card{Term: "  der Hund ", Translation: " the dog\t", Category: "animals"},
			Card{Term: "der Hund", Translation: "the dog", Category: "animals"},
		},
		{
			"lower-cases category",
			Card{Term: "laufen", Translation: "to run", Category: "Verbs"},
			Card{Term: "laufen", Translation: "to run", Category: "verbs"},
		},
		{
			"empty category becomes default",
			Card{Term: "der Tisch", Translation: "the table"},
			Card{Term: "der Tisch", Translation: "the table", Category: DefaultCategory},
		},
		{
			"examples trimmed",
			Card{Term: "a", Translation: "b", Category: "c", Example: " Er läuft. ", ExampleTranslation: "He runs. "},
			Card{Term: "a", Translation: "b", Category: "c", Example: "Er läuft.", ExampleTranslation: "He runs."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCard_Validate(t *testing.T) {
	tests := []struct {
		name    string
		card    Card
		wantErr bool
	}{
		{"valid card", Card{Term: "die Katze", Translation: "the cat"}, false},
		{"empty term", Card{Translation: "the cat"}, true},
		{"whitespace term", Card{Term: "   ", Translation: "the cat"}, true},
		{"empty translation", Card{Term: "die Katze"}, true},
		{"examples optional", Card{Term: "x", Translation: "y", Example: "", ExampleTranslation: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Food", "food"},
		{"  TRAVEL  ", "travel"},
		{"", DefaultCategory},
		{"   ", DefaultCategory},
		{"other", "other"},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
