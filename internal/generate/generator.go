package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/lingot-dev/lingot/pkg/models"
)

// ErrNoCards is returned when the model output contains no usable cards.
var ErrNoCards = errors.New("model returned no usable cards")

const (
	// DefaultCount is the number of cards requested when none is given.
	DefaultCount = 20
	// MaxCount caps a single generation request.
	MaxCount = 100

	maxResponseTokens = 8192
)

const systemPrompt = `You build vocabulary flashcards for a spaced-repetition trainer.
Respond with a JSON array only. No prose, no markdown fences, no explanations.`

// Generator produces vocabulary cards from a topic prompt.
type Generator struct {
	client *Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Cards asks the model for n cards about topic, translating from the
// source language into the target language. Invalid entries in the
// response are dropped; ErrNoCards is returned when nothing survives.
func (g *Generator) Cards(ctx context.Context, topic string, n int, source, target string) ([]models.Card, error) {
	if n <= 0 {
		n = DefaultCount
	}
	if n > MaxCount {
		n = MaxCount
	}

	prompt := buildPrompt(topic, n, source, target)

	resp, err := g.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.client.Model(),
		MaxTokens: maxResponseTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generating cards: %w", err)
	}

	g.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	return parseCards(text.String())
}

// buildPrompt renders the user message for a generation request.
func buildPrompt(topic string, n int, source, target string) string {
	return fmt.Sprintf(`Create %d %s vocabulary cards about %q with %s translations.

Each card is an object with these fields:
- "term": the word or phrase in %s
- "translation": its %s meaning
- "category": a short lowercase topic label, e.g. "food" or "travel"
- "example": a short %s sentence using the term (optional)
- "example_translation": the %s rendering of that sentence (optional)

Return a single JSON array of these objects and nothing else.`,
		n, source, topic, target, source, target, source, target)
}

// parseCards extracts a card array from model output. The model is
// told to emit bare JSON but sometimes wraps it in prose or fences,
// so this scans for the outermost array instead of trusting the
// whole response to be JSON.
func parseCards(raw string) ([]models.Card, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var parsed []models.Card
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}

	cards := make([]models.Card, 0, len(parsed))
	for _, card := range parsed {
		if err := card.Validate(); err != nil {
			continue
		}
		cards = append(cards, card.Normalize())
	}

	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}
