package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	Long: `Display deck-wide and per-category study statistics.

Shows:
  - Card counts: total, active under the current filter, due, new
  - Mature cards (scheduled 21 days out or further)
  - Average ease factor
  - Reviews done today
  - A per-category breakdown`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	controller, db, err := openController(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	s := controller.Stats()

	// The review log is informational; a counting error is not fatal.
	today, err := db.CountReviewsSince(startOfDay(time.Now()))
	if err != nil {
		today = 0
	}

	bold := color.New(color.Bold)

	bold.Println("Deck")
	fmt.Printf("  Cards:         %d (%d active under the current filter)\n", s.Total, s.Active)
	fmt.Printf("  Due now:       %d\n", s.Due)
	fmt.Printf("  New:           %d\n", s.New)
	fmt.Printf("  Mature:        %d (interval 21d or more)\n", s.Mature)
	fmt.Printf("  Average ease:  %.2f\n", s.AverageEase)
	fmt.Printf("  Reviews today: %d\n", today)

	fmt.Println()
	bold.Println("Categories")
	for _, cs := range s.Categories {
		marker := " "
		if cs.Selected {
			marker = color.GreenString("*")
		}
		due := fmt.Sprintf("%4d due", cs.Due)
		if cs.Due > 0 {
			due = color.YellowString(due)
		}
		fmt.Printf("  %s %-20s %4d cards  %s  %4d new  ease %.2f\n",
			marker, cs.Category, cs.Total, due, cs.New, cs.AverageEase)
	}

	if len(s.Selected) > 0 && s.Active < s.Total {
		fmt.Printf("\n* studying: %d of %d cards\n", s.Active, s.Total)
	}
	return nil
}

// startOfDay returns midnight of t in its location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
