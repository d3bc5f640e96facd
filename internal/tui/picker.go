// Package tui provides the interactive currency picker shown when a
// scan needs a source or target currency from the user.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tagsnap/tagsnap/internal/cli"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.AccentColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor)
)

// PickerModel is a filterable single-choice currency list.
type PickerModel struct {
	title    string
	choice   string
	options  []string
	filtered []string
	filter   textinput.Model
	cursor   int
	done     bool
	canceled bool
}

// NewPicker creates a picker over the given currency codes. The
// preselected code starts under the cursor when present.
func NewPicker(title string, options []string, preselected string) PickerModel {
	filter := textinput.New()
	filter.Placeholder = "type to filter"
	filter.Prompt = "/ "
	filter.CharLimit = 10
	filter.Focus()

	m := PickerModel{
		title:    title,
		options:  options,
		filtered: options,
		filter:   filter,
	}
	for i, opt := range options {
		if strings.EqualFold(opt, preselected) {
			m.cursor = i
			break
		}
	}
	return m
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		m.done = true
		return m, tea.Quit
	case tea.KeyEnter:
		if len(m.filtered) > 0 {
			m.choice = m.filtered[m.cursor]
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter narrows options to those containing the filter text and
// clamps the cursor to the narrowed list.
func (m *PickerModel) applyFilter() {
	term := strings.ToUpper(strings.TrimSpace(m.filter.Value()))
	if term == "" {
		m.filtered = m.options
	} else {
		var filtered []string
		for _, opt := range m.options {
			if strings.Contains(strings.ToUpper(opt), term) {
				filtered = append(filtered, opt)
			}
		}
		m.filtered = filtered
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("no matching currencies"))
		b.WriteString("\n")
	}
	for i, opt := range m.filtered {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(opt))
		} else {
			b.WriteString("  " + opt)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · enter select · esc cancel"))
	return b.String()
}

// Choice returns the selected code, or empty if canceled.
func (m PickerModel) Choice() string {
	if m.canceled {
		return ""
	}
	return m.choice
}

// Canceled reports whether the user backed out.
func (m PickerModel) Canceled() bool {
	return m.canceled
}
