package models

import (
	"encoding/json"
	"sort"
)

// CategorySet is the set of category labels currently selected for study.
// Labels are stored lower-cased. The zero value is an empty, usable set.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from the given labels, normalizing each one.
func NewCategorySet(labels ...string) CategorySet {
	set := make(CategorySet, len(labels))
	for _, label := range labels {
		set.Add(label)
	}
	return set
}

// Add inserts a normalized label into the set.
func (s CategorySet) Add(label string) {
	s[NormalizeCategory(label)] = struct{}{}
}

// Has reports whether the normalized label is selected.
func (s CategorySet) Has(label string) bool {
	_, ok := s[NormalizeCategory(label)]
	return ok
}

// Len returns the number of selected categories.
func (s CategorySet) Len() int {
	return len(s)
}

// Labels returns the selected categories in sorted order.
func (s CategorySet) Labels() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Clone returns an independent copy of the set.
func (s CategorySet) Clone() CategorySet {
	out := make(CategorySet, len(s))
	for label := range s {
		out[label] = struct{}{}
	}
	return out
}

// MarshalJSON serializes the set as a sorted string array.
func (s CategorySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Labels())
}

// UnmarshalJSON reads a string array, normalizing each label.
func (s *CategorySet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewCategorySet(labels...)
	return nil
}

// DeckCategories collects the distinct categories of a deck in first-seen order.
func DeckCategories(cards []Card) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cards {
		cat := NormalizeCategory(c.Category)
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

// AllCategories builds the selection covering every category in the deck.
func AllCategories(cards []Card) CategorySet {
	return NewCategorySet(DeckCategories(cards)...)
}
