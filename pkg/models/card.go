package models

import (
	"fmt"
	"strings"
)

// DefaultCategory is assigned to cards whose source row carries no category.
const DefaultCategory = "other"

// Card is a single vocabulary entry. Cards are identified by their position
// in the deck; the deck itself is immutable for the lifetime of a session.
type Card struct {
	// Term is the word or phrase being learned.
	Term string `json:"term"`
	// Translation is the term in the learner's language.
	Translation string `json:"translation"`
	// Category groups cards for filtering. Always lower-case; DefaultCategory when unset.
	Category string `json:"category"`
	// Example is an optional example sentence using the term.
	Example string `json:"example,omitempty"`
	// ExampleTranslation is the translation of Example.
	ExampleTranslation string `json:"example_translation,omitempty"`
}

// Normalize trims whitespace on all fields and canonicalizes the category
// (lower-cased, DefaultCategory when empty). Returns the normalized copy.
func (c Card) Normalize() Card {
	c.Term = strings.TrimSpace(c.Term)
	c.Translation = strings.TrimSpace(c.Translation)
	c.Category = NormalizeCategory(c.Category)
	c.Example = strings.TrimSpace(c.Example)
	c.ExampleTranslation = strings.TrimSpace(c.ExampleTranslation)
	return c
}

// Validate reports whether the card can enter a deck. Only the term and the
// translation are required; every other field may be empty.
func (c Card) Validate() error {
	if strings.TrimSpace(c.Term) == "" {
		return fmt.Errorf("card has empty term")
	}
	if strings.TrimSpace(c.Translation) == "" {
		return fmt.Errorf("card %q has empty translation", c.Term)
	}
	return nil
}

// NormalizeCategory lower-cases and trims a category label, substituting
// DefaultCategory for an empty one.
func NormalizeCategory(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return DefaultCategory
	}
	return label
}
