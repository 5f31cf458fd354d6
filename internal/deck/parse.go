// Package deck loads vocabulary decks from CSV, TSV and YAML sources and can
// watch a deck file for edits so a running session picks them up. Parsing is
// forgiving: rows that cannot become a valid card are counted and dropped,
// and only a deck with no usable cards at all is an error.
package deck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/lingot-dev/lingot/pkg/models"
)

// ErrEmptyDeck is returned when a source yields no valid cards.
var ErrEmptyDeck = errors.New("deck contains no valid cards")

// Format identifies the on-disk deck encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatTSV
	FormatYAML
)

// String returns the format's conventional file extension name.
func (f Format) String() string {
	switch f {
	case FormatTSV:
		return "tsv"
	case FormatYAML:
		return "yaml"
	default:
		return "csv"
	}
}

// ParseStats reports what a parse kept and dropped.
type ParseStats struct {
	// Rows is the number of data rows seen, blank lines and header excluded.
	Rows int
	// Kept is the number of rows that became cards.
	Kept int
	// Skipped is the number of rows dropped for missing a term or translation.
	Skipped int
	// Header reports whether a leading header row was detected and dropped.
	Header bool
}

// Parse reads cards from r in the given format. Delimited rows follow the
// column order term, translation, category, example, example translation;
// everything past the translation is optional. A leading "term,translation"
// header row is skipped. Returns ErrEmptyDeck when no valid cards remain.
func Parse(r io.Reader, format Format) ([]models.Card, ParseStats, error) {
	switch format {
	case FormatYAML:
		return parseYAML(r)
	case FormatTSV:
		return parseDelimited(r, '\t')
	default:
		return parseDelimited(r, ',')
	}
}

func parseDelimited(r io.Reader, comma rune) ([]models.Card, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var cards []models.Card
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading deck rows: %w", err)
		}
		if isBlank(record) {
			continue
		}
		if first {
			first = false
			if isHeader(record) {
				stats.Header = true
				continue
			}
		}

		stats.Rows++
		card := cardFromRecord(record)
		if err := card.Validate(); err != nil {
			stats.Skipped++
			continue
		}
		cards = append(cards, card.Normalize())
		stats.Kept++
	}

	if len(cards) == 0 {
		return nil, stats, ErrEmptyDeck
	}
	return cards, stats, nil
}

// yamlCard mirrors models.Card with yaml field names.
type yamlCard struct {
	Term               string `yaml:"term"`
	Translation        string `yaml:"translation"`
	Category           string `yaml:"category"`
	Example            string `yaml:"example"`
	ExampleTranslation string `yaml:"example_translation"`
}

func parseYAML(r io.Reader) ([]models.Card, ParseStats, error) {
	var stats ParseStats

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, stats, fmt.Errorf("reading deck: %w", err)
	}
	var rows []yamlCard
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, stats, fmt.Errorf("parsing yaml deck: %w", err)
	}

	var cards []models.Card
	for _, row := range rows {
		stats.Rows++
		card := models.Card{
			Term:               row.Term,
			Translation:        row.Translation,
			Category:           row.Category,
			Example:            row.Example,
			ExampleTranslation: row.ExampleTranslation,
		}
		if err := card.Validate(); err != nil {
			stats.Skipped++
			continue
		}
		cards = append(cards, card.Normalize())
		stats.Kept++
	}

	if len(cards) == 0 {
		return nil, stats, ErrEmptyDeck
	}
	return cards, stats, nil
}

func cardFromRecord(record []string) models.Card {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return models.Card{
		Term:               field(0),
		Translation:        field(1),
		Category:           field(2),
		Example:            field(3),
		ExampleTranslation: field(4),
	}
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func isHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "term") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "translation")
}
