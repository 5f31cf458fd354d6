package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lingot-dev/lingot/internal/session"
	"github.com/lingot-dev/lingot/pkg/models"
)

// CategoriesAppliedMsg is sent when the user confirms a category selection.
type CategoriesAppliedMsg struct {
	Selected models.CategorySet
}

// PickerDismissedMsg is sent when the picker closes without applying.
type PickerDismissedMsg struct{}

// pickerItem is one selectable category row.
type pickerItem struct {
	label    string
	total    int
	due      int
	selected bool
}

// CategoryPicker lets the user choose which categories are studied.
// Toggles are local until the selection is applied with enter.
type CategoryPicker struct {
	items  []pickerItem
	cursor int
	filter *FilterField
	notice string
	width  int

	// Styles
	titleStyle   lipgloss.Style
	cursorStyle  lipgloss.Style
	checkedStyle lipgloss.Style
	labelStyle   lipgloss.Style
	countStyle   lipgloss.Style
	noticeStyle  lipgloss.Style
	hintStyle    lipgloss.Style
}

// NewCategoryPicker builds a picker from per-category stats,
// preselecting the currently active categories.
func NewCategoryPicker(categories []session.CategoryStats) *CategoryPicker {
	items := make([]pickerItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, pickerItem{
			label:    c.Category,
			total:    c.Total,
			due:      c.Due,
			selected: c.Selected,
		})
	}

	return &CategoryPicker{
		items:  items,
		filter: NewFilterField(),
		width:  60,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		cursorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		checkedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		countStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		noticeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// SetWidth sets the picker width.
func (p *CategoryPicker) SetWidth(width int) {
	p.width = width
	p.filter.SetWidth(width)
}

// visible returns the indices of items matching the filter text.
func (p *CategoryPicker) visible() []int {
	query := strings.ToLower(strings.TrimSpace(p.filter.Value()))
	indices := make([]int, 0, len(p.items))
	for i, item := range p.items {
		if query == "" || strings.Contains(item.label, query) {
			indices = append(indices, i)
		}
	}
	return indices
}

// selection returns the set of selected category labels.
func (p *CategoryPicker) selection() models.CategorySet {
	set := models.NewCategorySet()
	for _, item := range p.items {
		if item.selected {
			set.Add(item.label)
		}
	}
	return set
}

// Update handles key messages for the picker.
func (p *CategoryPicker) Update(msg tea.Msg) (*CategoryPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	// While the filter has focus, most keys edit the filter text.
	if p.filter.Focused() {
		switch keyMsg.String() {
		case "esc":
			p.filter.Blur()
			return p, nil
		case "enter":
			p.filter.Blur()
			p.cursor = 0
			return p, nil
		default:
			var cmd tea.Cmd
			p.filter, cmd = p.filter.Update(msg)
			p.cursor = 0
			return p, cmd
		}
	}

	visible := p.visible()

	switch keyMsg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}

	case "down", "j":
		if p.cursor < len(visible)-1 {
			p.cursor++
		}

	case " ", "x":
		if p.cursor < len(visible) {
			idx := visible[p.cursor]
			p.items[idx].selected = !p.items[idx].selected
			p.notice = ""
		}

	case "a":
		for i := range p.items {
			p.items[i].selected = true
		}
		p.notice = ""

	case "/":
		return p, p.filter.Focus()

	case "enter":
		selected := p.selection()
		if selected.Len() == 0 {
			p.notice = "select at least one category"
			return p, nil
		}
		return p, func() tea.Msg {
			return CategoriesAppliedMsg{Selected: selected}
		}

	case "esc", "c", "q":
		return p, func() tea.Msg {
			return PickerDismissedMsg{}
		}
	}

	return p, nil
}

// View renders the picker.
func (p *CategoryPicker) View() string {
	var b strings.Builder

	b.WriteString(p.titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	b.WriteString(p.filter.View())
	b.WriteString("\n\n")

	visible := p.visible()
	if len(visible) == 0 {
		b.WriteString(p.countStyle.Render("  no categories match the filter"))
		b.WriteString("\n")
	}

	for pos, idx := range visible {
		item := p.items[idx]

		cursor := "  "
		if pos == p.cursor && !p.filter.Focused() {
			cursor = p.cursorStyle.Render("› ")
		}

		check := "[ ]"
		if item.selected {
			check = p.checkedStyle.Render("[x]")
		}

		counts := p.countStyle.Render(fmt.Sprintf("  %d due / %d", item.due, item.total))

		b.WriteString(cursor)
		b.WriteString(check)
		b.WriteString(" ")
		b.WriteString(p.labelStyle.Render(item.label))
		b.WriteString(counts)
		b.WriteString("\n")
	}

	if p.notice != "" {
		b.WriteString("\n")
		b.WriteString(p.noticeStyle.Render("⚠ " + p.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if p.filter.Focused() {
		b.WriteString(p.hintStyle.Render("enter/esc done filtering"))
	} else {
		b.WriteString(p.hintStyle.Render("space toggle │ a all │ / filter │ enter apply │ esc cancel"))
	}
	b.WriteString("\n")

	return b.String()
}
