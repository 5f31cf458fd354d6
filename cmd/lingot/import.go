package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lingot-dev/lingot/internal/config"
	"github.com/lingot-dev/lingot/internal/deck"
	"github.com/lingot-dev/lingot/pkg/models"
)

var importCmd = &cobra.Command{
	Use:   "import <path-or-url>",
	Short: "Replace the deck with cards from a file or URL",
	Long: `Import a deck from a CSV, TSV or YAML file, or from an HTTP(S) URL.

The current deck is replaced wholesale and progress starts over: every
imported card is due immediately. The review log is kept. A category
selection made earlier stays in effect; drop it with
'lingot categories clear'.

Column order for tabular decks:
  term, translation, category, example, example_translation

Only term and translation are required. A header row is detected and
skipped, as are blank lines and rows missing a term or translation.

Examples:
  lingot import words.csv
  lingot import vocab.yaml
  lingot import https://example.com/decks/spanish-a1.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]

	cards, stats, err := loadDeckSource(source)
	if err != nil {
		return fmt.Errorf("load deck: %w", err)
	}

	cfg := loadConfig()
	if err := replaceDeck(cfg, cards); err != nil {
		return fmt.Errorf("replace deck: %w", err)
	}

	printStatus("✓", fmt.Sprintf("imported %d cards from %s", len(cards), source), color.FgGreen)
	if stats.Skipped > 0 {
		printStatus("⚠", fmt.Sprintf("%d rows skipped (missing term or translation)", stats.Skipped), color.FgYellow)
	}
	fmt.Printf("Categories: %s\n", strings.Join(models.DeckCategories(cards), ", "))
	return nil
}

// loadDeckSource reads cards from a local file or an HTTP(S) URL.
func loadDeckSource(source string) ([]models.Card, deck.ParseStats, error) {
	if isURL(source) {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return deck.Fetch(ctx, source)
	}
	return deck.Load(source)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// replaceDeck rebuilds the persisted session around the given cards.
func replaceDeck(cfg *config.Config, cards []models.Card) error {
	controller, db, err := openController(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return controller.ReplaceDeck(cards)
}
