package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lingot-dev/lingot/pkg/models"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List deck categories and the current selection",
	Long: `List the categories of the current deck with due and total counts.

Selected categories are marked; only their cards come up while studying.
The selection survives deck imports until you clear it.

  lingot categories                    # list with counts
  lingot categories select food travel # study only these
  lingot categories clear              # back to every category`,
	RunE: runCategoriesList,
}

var categoriesSelectCmd = &cobra.Command{
	Use:   "select <category>...",
	Short: "Study only the given categories",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCategoriesSelect,
}

var categoriesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the selection and study every category",
	RunE:  runCategoriesClear,
}

func init() {
	categoriesCmd.AddCommand(categoriesSelectCmd)
	categoriesCmd.AddCommand(categoriesClearCmd)
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	controller, db, err := openController(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	stats := controller.Stats()
	for _, cs := range stats.Categories {
		marker := "[ ]"
		if cs.Selected {
			marker = color.GreenString("[x]")
		}
		fmt.Printf("%s %-20s %3d due / %3d cards\n", marker, cs.Category, cs.Due, cs.Total)
	}
	fmt.Printf("\n%d of %d cards active\n", stats.Active, stats.Total)
	return nil
}

func runCategoriesSelect(cmd *cobra.Command, args []string) error {
	controller, db, err := openController(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	known := models.NewCategorySet()
	for _, cs := range controller.Stats().Categories {
		known.Add(cs.Category)
	}
	set := models.NewCategorySet(args...)
	for _, label := range set.Labels() {
		if !known.Has(label) {
			printStatus("⚠", fmt.Sprintf("no cards in category %q", label), color.FgYellow)
		}
	}

	if err := controller.SetCategories(set); err != nil {
		return fmt.Errorf("select categories: %w", err)
	}

	_, active := controller.Counts()
	fmt.Printf("Selected: %s (%d cards active)\n", strings.Join(set.Labels(), ", "), active)
	return nil
}

func runCategoriesClear(cmd *cobra.Command, args []string) error {
	controller, db, err := openController(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := controller.ClearCategories(); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	stats := controller.Stats()
	fmt.Printf("Selection cleared; studying all %d categories (%d cards)\n", len(stats.Categories), stats.Total)
	return nil
}
