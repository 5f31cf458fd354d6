package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lingot-dev/lingot/internal/config"
	"github.com/lingot-dev/lingot/internal/deck"
	"github.com/lingot-dev/lingot/internal/session"
	"github.com/lingot-dev/lingot/internal/speech"
	"github.com/lingot-dev/lingot/internal/store"
	"github.com/lingot-dev/lingot/internal/tui"
	"github.com/lingot-dev/lingot/pkg/models"
)

// fetchTimeout bounds the startup fetch of a deck URL.
const fetchTimeout = 30 * time.Second

var rootDeckPath string

var rootCmd = &cobra.Command{
	Use:   "lingot",
	Short: "Spaced-repetition vocabulary trainer",
	Long: `Lingot drills vocabulary cards with a spaced-repetition scheduler.

With no arguments it opens the study screen: each card is shown term
first, you reveal the translation and grade your recall from 0 to 5.
The grade decides when the card comes back.

Decks are plain CSV, TSV or YAML files. Point lingot at one with
'lingot import', the deck.path config key, or the --deck flag; without
any of those a small built-in starter deck gets you going. Saved
progress always wins over the deck file at startup; edits to a watched
deck file are picked up live, and 'lingot import' replaces the deck
outright.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudy()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&rootDeckPath, "deck", "", "Deck file to study (overrides deck.path from config)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runStudy() error {
	cfg := loadConfig()

	logger := session.NewDebugLoggerForData(cfg.DataDir())
	defer logger.Close()

	st := openStoreOrMemory(cfg, logger)
	defer st.Close()

	fallback, watchPath := resolveDeck(cfg, logger)

	controller := session.New(fallback, st, session.Options{Logger: logger})

	program, _ := tui.NewStudyProgram(tui.StudyConfig{
		Controller:   controller,
		Speaker:      speech.NewSpeaker(cfg.Speech.Command),
		Logger:       logger,
		ShowExamples: cfg.TUI.ShowExamples,
		AutoSpeak:    cfg.Speech.Auto,
	})

	var watcher *deck.Watcher
	if cfg.Deck.Watch && watchPath != "" {
		w, err := deck.NewWatcher(watchPath, func(cards []models.Card, stats deck.ParseStats, err error) {
			program.Send(tui.DeckReloadedMsg{Cards: cards, Stats: stats, Err: err})
		})
		if err != nil {
			logger.Log("deck watcher: %v", err)
		} else {
			watcher = w
		}
	}

	// The TUI owns the terminal; route stray log output away from it.
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	_, err := program.Run()

	if watcher != nil {
		watcher.Close()
	}
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// loadConfig returns the merged configuration, degrading to the defaults
// when the config files cannot be read.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using default configuration\n", err)
		return config.Default()
	}
	return cfg
}

// openController opens the durable store and rebuilds the session from it.
// The caller closes the returned store.
func openController(cfg *config.Config) (*session.Controller, *store.DB, error) {
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate store: %w", err)
	}
	return session.New(nil, db, session.Options{}), db, nil
}

// openStoreOrMemory opens the SQLite store, falling back to an in-memory
// one so a broken database never blocks studying. Progress is simply not
// saved for the session in that case, and the user is told so.
func openStoreOrMemory(cfg *config.Config, logger *session.DebugLogger) store.Store {
	path := cfg.DBPath()
	db, err := store.Open(path)
	if err == nil {
		merr := db.Migrate()
		if merr == nil {
			return db
		}
		db.Close()
		err = merr
	}
	logger.Log("open store %s: %v", path, err)
	fmt.Fprintf(os.Stderr, "warning: cannot open %s: %v\nprogress will not be saved this session\n", path, err)
	return store.NewMemStore()
}

// resolveDeck loads the deck named by the --deck flag, deck.path, or
// deck.url, in that order. The cards only seed a fresh session; once
// progress exists the persisted card store wins and deck changes flow in
// through import or the file watcher. The returned path is the local file
// to watch, empty when the deck came from a URL or from nowhere.
func resolveDeck(cfg *config.Config, logger *session.DebugLogger) ([]models.Card, string) {
	path := rootDeckPath
	if path == "" {
		path = cfg.Deck.Path
	}
	if path != "" {
		cards, stats, err := deck.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: deck %s: %v\n", path, err)
			logger.Log("load deck %s: %v", path, err)
			// Watch the file anyway; fixing it reloads the deck live.
			return nil, path
		}
		logger.Log("loaded deck %s: %d cards, %d rows skipped", path, len(cards), stats.Skipped)
		return cards, path
	}

	if cfg.Deck.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		cards, _, err := deck.Fetch(ctx, cfg.Deck.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: deck %s: %v\n", cfg.Deck.URL, err)
			logger.Log("fetch deck %s: %v", cfg.Deck.URL, err)
			return nil, ""
		}
		logger.Log("fetched deck %s: %d cards", cfg.Deck.URL, len(cards))
		return cards, ""
	}

	return nil, ""
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
