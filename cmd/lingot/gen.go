package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lingot-dev/lingot/internal/config"
	"github.com/lingot-dev/lingot/internal/generate"
	"github.com/lingot-dev/lingot/pkg/models"
)

var (
	genCount  int
	genOut    string
	genImport bool
	genModel  string
	genSource string
	genTarget string
)

var genCmd = &cobra.Command{
	Use:   "gen <topic>",
	Short: "Generate vocabulary cards with Claude",
	Long: `Generate a batch of vocabulary cards on a topic with the Anthropic API.

Cards are printed to stdout. Use --out to also write them to a CSV file
that 'lingot import' understands, or --import to load them into the
trainer right away.

The API key comes from ANTHROPIC_API_KEY or the gen.api_key config key.
With gen.use_bedrock enabled the request goes through AWS Bedrock and no
Anthropic key is needed.

Examples:
  lingot gen "ordering food in a restaurant"
  lingot gen "train travel" -n 30 --out travel.csv
  lingot gen "weather and seasons" --import`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().IntVarP(&genCount, "count", "n", generate.DefaultCount, "Number of cards to generate (max 100)")
	genCmd.Flags().StringVar(&genOut, "out", "", "Write the generated cards to a CSV file")
	genCmd.Flags().BoolVar(&genImport, "import", false, "Replace the current deck with the generated cards")
	genCmd.Flags().StringVar(&genModel, "model", "", "Model to use (defaults to gen.model from config)")
	genCmd.Flags().StringVar(&genSource, "source-lang", "", "Language the terms are in (defaults to gen.source_lang)")
	genCmd.Flags().StringVar(&genTarget, "target-lang", "", "Language to translate into (defaults to gen.target_lang)")
}

func runGen(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	cfg := loadConfig()

	source := genSource
	if source == "" {
		source = cfg.Gen.SourceLang
	}
	target := genTarget
	if target == "" {
		target = cfg.Gen.TargetLang
	}
	model := genModel
	if model == "" {
		model = cfg.Gen.Model
	}

	clientCfg := generate.ClientConfig{
		Model:         anthropic.Model(model),
		UseAWSBedrock: cfg.Gen.UseBedrock,
		AWSRegion:     cfg.Gen.AWSRegion,
		AWSProfile:    cfg.Gen.AWSProfile,
	}
	if !cfg.Gen.UseBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or run 'lingot config gen.api_key <key>'")
		}
		clientCfg.APIKey = key
	}

	client, err := generate.NewClient(clientCfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	fmt.Printf("Generating %d cards about %q with %s...\n\n", genCount, topic, client.Model())

	gen := generate.NewGenerator(client)
	cards, err := gen.Cards(context.Background(), topic, genCount, source, target)
	if err != nil {
		return fmt.Errorf("generate cards: %w", err)
	}

	for _, card := range cards {
		fmt.Printf("  %s = %s [%s]\n", card.Term, card.Translation, card.Category)
	}

	in, out := client.Tracker().Total()
	fmt.Printf("\n%d cards (%d input / %d output tokens)\n", len(cards), in, out)

	if genOut != "" {
		if err := writeDeckCSV(genOut, cards); err != nil {
			return fmt.Errorf("write %s: %w", genOut, err)
		}
		printStatus("✓", fmt.Sprintf("wrote %s", genOut), color.FgGreen)
	}

	if genImport {
		if err := replaceDeck(cfg, cards); err != nil {
			return fmt.Errorf("replace deck: %w", err)
		}
		printStatus("✓", fmt.Sprintf("deck replaced with %d generated cards", len(cards)), color.FgGreen)
	}

	return nil
}

// writeDeckCSV writes cards in the import column order with a header row.
func writeDeckCSV(path string, cards []models.Card) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"term", "translation", "category", "example", "example_translation"}); err != nil {
		return err
	}
	for _, c := range cards {
		if err := w.Write([]string{c.Term, c.Translation, c.Category, c.Example, c.ExampleTranslation}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
