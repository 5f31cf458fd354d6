package deck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/lingot-dev/lingot/pkg/models"
)

// DetectFormat guesses the deck encoding from a path's extension. Unknown
// extensions are treated as CSV.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Load reads and parses the deck file at path.
func Load(path string) ([]models.Card, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("opening deck %s: %w", path, err)
	}
	defer f.Close()

	cards, stats, err := Parse(f, DetectFormat(path))
	if err != nil {
		return nil, stats, fmt.Errorf("parsing deck %s: %w", path, err)
	}
	return cards, stats, nil
}

// Fetch downloads and parses a deck. The format is sniffed from the URL
// path, defaulting to CSV.
func Fetch(ctx context.Context, rawURL string) ([]models.Card, ParseStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("building deck request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("fetching deck: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ParseStats{}, fmt.Errorf("fetching deck: unexpected status %s", resp.Status)
	}

	format := FormatCSV
	if u, err := url.Parse(rawURL); err == nil {
		format = DetectFormat(u.Path)
	}
	cards, stats, err := Parse(resp.Body, format)
	if err != nil {
		return nil, stats, fmt.Errorf("parsing fetched deck: %w", err)
	}
	return cards, stats, nil
}
