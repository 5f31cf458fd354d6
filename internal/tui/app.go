// Package tui provides the terminal user interface for lingot.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lingot-dev/lingot/internal/deck"
	"github.com/lingot-dev/lingot/internal/session"
	"github.com/lingot-dev/lingot/internal/speech"
	"github.com/lingot-dev/lingot/pkg/models"
)

// viewState tracks which screen the study app is showing.
type viewState int

const (
	statePrompt viewState = iota
	stateRevealed
	stateCategories
	stateResetConfirm
)

// DeckReloadedMsg is sent by the file watcher when the deck file changes.
// Err carries parse failures; the current deck stays in place on error.
type DeckReloadedMsg struct {
	Cards []models.Card
	Stats deck.ParseStats
	Err   error
}

// StudyConfig contains the collaborators for a StudyApp.
type StudyConfig struct {
	Controller   *session.Controller
	Speaker      speech.Speaker
	Logger       *session.DebugLogger
	ShowExamples bool
	AutoSpeak    bool
}

// StudyApp is the main bubbletea model for the study loop.
type StudyApp struct {
	controller   *session.Controller
	speaker      speech.Speaker
	logger       *session.DebugLogger
	showExamples bool
	autoSpeak    bool

	state    viewState
	picker   *CategoryPicker
	status   string
	statusOK bool
	width    int
	height   int
	quitting bool

	// Styles
	titleStyle       lipgloss.Style
	categoryStyle    lipgloss.Style
	termStyle        lipgloss.Style
	translationStyle lipgloss.Style
	exampleStyle     lipgloss.Style
	exampleTrStyle   lipgloss.Style
	summaryStyle     lipgloss.Style
	statusStyle      lipgloss.Style
	errorStyle       lipgloss.Style
	warnStyle        lipgloss.Style
	hintStyle        lipgloss.Style
}

// NewStudyApp creates the study view around an initialized controller.
func NewStudyApp(cfg StudyConfig) *StudyApp {
	speaker := cfg.Speaker
	if speaker == nil {
		speaker = speech.NopSpeaker{}
	}

	return &StudyApp{
		controller:   cfg.Controller,
		speaker:      speaker,
		logger:       cfg.Logger,
		showExamples: cfg.ShowExamples,
		autoSpeak:    cfg.AutoSpeak,
		width:        80,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),

		categoryStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		termStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		translationStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),

		exampleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		exampleTrStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		summaryStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Init implements tea.Model.
func (a *StudyApp) Init() tea.Cmd {
	a.maybeSpeak()
	return nil
}

// Update implements tea.Model.
func (a *StudyApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.picker != nil {
			a.picker.SetWidth(msg.Width)
		}
		return a, nil

	case DeckReloadedMsg:
		return a.handleDeckReload(msg)

	case CategoriesAppliedMsg:
		if err := a.controller.SetCategories(msg.Selected); err != nil {
			a.setStatus(fmt.Sprintf("category filter failed: %v", err), false)
		} else {
			_, active := a.controller.Counts()
			a.setStatus(fmt.Sprintf("category filter applied · %d active", active), true)
		}
		a.state = statePrompt
		a.picker = nil
		a.maybeSpeak()
		return a, nil

	case PickerDismissedMsg:
		a.state = statePrompt
		a.picker = nil
		return a, nil
	}

	return a, nil
}

// handleKey routes a key press based on the current view state.
func (a *StudyApp) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.state == stateCategories {
		if a.picker == nil {
			a.state = statePrompt
			return a, nil
		}
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	}

	key := msg.String()

	if a.state == stateResetConfirm {
		switch key {
		case "y":
			if err := a.controller.Reset(); err != nil {
				a.setStatus(fmt.Sprintf("reset failed to save: %v", err), false)
			} else {
				a.setStatus("progress reset", true)
			}
			a.state = statePrompt
			a.maybeSpeak()
		case "n", "esc", "q", "ctrl+c":
			a.state = statePrompt
		}
		return a, nil
	}

	switch key {
	case "ctrl+c", "q":
		a.quitting = true
		return a, tea.Quit

	case " ", "enter":
		if _, _, _, ok := a.controller.Current(); ok && a.state == statePrompt {
			a.state = stateRevealed
			a.status = ""
		}
		return a, nil

	case "s":
		a.speakCurrent()
		return a, nil

	case "c":
		a.picker = NewCategoryPicker(a.controller.Stats().Categories)
		a.picker.SetWidth(a.width)
		a.state = stateCategories
		return a, nil

	case "r":
		a.state = stateResetConfirm
		return a, nil
	}

	if a.state == stateRevealed {
		if grade, ok := gradeForKey(key); ok {
			return a.gradeCurrent(grade)
		}
	}

	return a, nil
}

// gradeForKey maps a key press to a recall grade.
// p and f are the binary pass/fail shortcuts.
func gradeForKey(key string) (models.Grade, bool) {
	switch key {
	case "0", "1", "2", "3", "4", "5":
		return models.Grade(key[0] - '0'), true
	case "p":
		return models.GradeGood, true
	case "f":
		return models.GradeBlackout, true
	}
	return 0, false
}

// gradeCurrent applies a grade to the shown card and advances.
func (a *StudyApp) gradeCurrent(grade models.Grade) (tea.Model, tea.Cmd) {
	state, err := a.controller.Grade(grade)
	if err != nil {
		// The in-memory session still advanced; only persistence failed.
		a.setStatus(fmt.Sprintf("save failed: %v", err), false)
	} else {
		a.setStatus(nextReviewText(state), true)
	}

	a.state = statePrompt
	a.maybeSpeak()
	return a, nil
}

// handleDeckReload swaps the deck in place when the watcher delivers a
// fresh parse. The old deck stays on any failure.
func (a *StudyApp) handleDeckReload(msg DeckReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.setStatus(fmt.Sprintf("deck reload failed: %v", msg.Err), false)
		return a, nil
	}

	if err := a.controller.ReplaceDeck(msg.Cards); err != nil {
		a.setStatus(fmt.Sprintf("deck reload rejected: %v", err), false)
		return a, nil
	}

	note := fmt.Sprintf("deck reloaded: %d cards", msg.Stats.Kept)
	if msg.Stats.Skipped > 0 {
		note += fmt.Sprintf(" (%d rows skipped)", msg.Stats.Skipped)
	}
	a.setStatus(note, true)

	// A stale picker would show categories from the old deck.
	if a.state == stateCategories {
		a.state = statePrompt
		a.picker = nil
	}
	a.maybeSpeak()
	return a, nil
}

func (a *StudyApp) setStatus(text string, ok bool) {
	a.status = text
	a.statusOK = ok
}

// speakCurrent pronounces the shown term without blocking the UI.
func (a *StudyApp) speakCurrent() {
	card, _, _, ok := a.controller.Current()
	if !ok {
		return
	}

	term := card.Term
	speaker := a.speaker
	logger := a.logger
	go func() {
		if err := speaker.Speak(context.Background(), term); err != nil {
			logger.Log("speech: %v", err)
		}
	}()
}

func (a *StudyApp) maybeSpeak() {
	if a.autoSpeak {
		a.speakCurrent()
	}
}

// nextReviewText renders the post-grade status line.
func nextReviewText(state models.MemoryState) string {
	if state.IntervalDays <= 0 {
		return "again in a few minutes"
	}
	days := int(math.Round(state.IntervalDays))
	if days <= 1 {
		return "next review tomorrow"
	}
	return fmt.Sprintf("next review in %dd", days)
}

// View implements tea.Model.
func (a *StudyApp) View() string {
	if a.quitting {
		return "¡Hasta luego!\n"
	}

	if a.state == stateCategories && a.picker != nil {
		return a.picker.View()
	}

	if a.state == stateResetConfirm {
		return a.resetConfirmView()
	}

	card, state, _, ok := a.controller.Current()
	if !ok {
		return a.emptyView()
	}

	var b strings.Builder

	b.WriteString(a.titleStyle.Render("lingot"))
	b.WriteString("\n\n")

	b.WriteString(a.categoryStyle.Render(card.Category))
	b.WriteString("\n")
	b.WriteString(a.termStyle.Render(card.Term))
	b.WriteString("\n")

	if a.state == stateRevealed {
		b.WriteString("\n")
		b.WriteString(a.translationStyle.Render(card.Translation))
		b.WriteString("\n")

		if a.showExamples && card.Example != "" {
			b.WriteString("\n")
			b.WriteString(a.exampleStyle.Render(card.Example))
			b.WriteString("\n")
			if card.ExampleTranslation != "" {
				b.WriteString(a.exampleTrStyle.Render(card.ExampleTranslation))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if a.status != "" {
		if a.statusOK {
			b.WriteString(a.statusStyle.Render(a.status))
		} else {
			b.WriteString(a.errorStyle.Render("⚠ " + a.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.footerView(state))
	return b.String()
}

// footerView renders counts, the card summary, and key hints.
func (a *StudyApp) footerView(state models.MemoryState) string {
	var b strings.Builder

	due, active := a.controller.Counts()
	counts := fmt.Sprintf("%d due · %d active", due, active)
	b.WriteString(a.summaryStyle.Render(counts + " │ " + state.Summary(time.Now())))
	b.WriteString("\n")

	var hints string
	if a.state == stateRevealed {
		hints = "0-5 grade │ p pass │ f fail │ s speak │ q quit"
	} else {
		hints = "space reveal │ s speak │ c categories │ r reset │ q quit"
	}
	b.WriteString(a.hintStyle.Render(hints))
	b.WriteString("\n")

	return b.String()
}

// emptyView is shown when the category filter matches no cards.
func (a *StudyApp) emptyView() string {
	var b strings.Builder

	b.WriteString(a.titleStyle.Render("lingot"))
	b.WriteString("\n\n")
	b.WriteString(a.warnStyle.Render("no cards match the current category filter"))
	b.WriteString("\n\n")

	if a.status != "" && !a.statusOK {
		b.WriteString(a.errorStyle.Render("⚠ " + a.status))
		b.WriteString("\n\n")
	}

	b.WriteString(a.hintStyle.Render("c categories │ r reset │ q quit"))
	b.WriteString("\n")
	return b.String()
}

// resetConfirmView asks before wiping progress.
func (a *StudyApp) resetConfirmView() string {
	var b strings.Builder

	b.WriteString(a.titleStyle.Render("lingot"))
	b.WriteString("\n\n")
	b.WriteString(a.warnStyle.Render("Reset all progress?"))
	b.WriteString("\n")
	b.WriteString(a.summaryStyle.Render("every card goes back to new; the review log is kept"))
	b.WriteString("\n\n")
	b.WriteString(a.hintStyle.Render("y confirm │ n cancel"))
	b.WriteString("\n")
	return b.String()
}

// NewStudyProgram creates a Bubbletea program for the study loop.
// The returned program can receive deck reload messages via Send().
func NewStudyProgram(cfg StudyConfig) (*tea.Program, *StudyApp) {
	app := NewStudyApp(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
