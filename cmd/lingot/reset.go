package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all study progress",
	Long: `Reset every card back to new.

The deck and the review log are kept; only the scheduling state is
regenerated, with every card due immediately.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Print("Reset all progress? Every card goes back to new. [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}

		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	controller, db, err := openController(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := controller.Reset(); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}

	printStatus("✓", fmt.Sprintf("progress reset for %d cards", controller.Stats().Total), color.FgGreen)
	return nil
}
