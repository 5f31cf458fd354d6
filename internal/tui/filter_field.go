package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilterField is a text input component for narrowing the category list.
type FilterField struct {
	input textinput.Model
	width int
}

// NewFilterField creates a new FilterField.
func NewFilterField() *FilterField {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 64
	ti.Width = 40

	return &FilterField{
		input: ti,
		width: 60,
	}
}

// SetWidth sets the width of the filter field.
func (f *FilterField) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 4 // Account for prompt and padding
}

// Update handles messages for the filter field.
func (f *FilterField) Update(msg tea.Msg) (*FilterField, tea.Cmd) {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the filter field.
func (f *FilterField) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(f.width - 2)

	prompt := promptStyle.Render("/ ")
	return boxStyle.Render(prompt + f.input.View())
}

// Focus sets focus on the filter field.
func (f *FilterField) Focus() tea.Cmd {
	return f.input.Focus()
}

// Blur removes focus from the filter field.
func (f *FilterField) Blur() {
	f.input.Blur()
}

// Focused reports whether the filter field has focus.
func (f *FilterField) Focused() bool {
	return f.input.Focused()
}

// Value returns the current filter text.
func (f *FilterField) Value() string {
	return f.input.Value()
}

// Reset clears the filter text.
func (f *FilterField) Reset() {
	f.input.Reset()
}
