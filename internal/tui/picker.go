// Package tui implements the interactive ingredient picker.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// ErrCancelled is returned when the user leaves the picker without
// confirming a selection.
var ErrCancelled = errors.New("selection cancelled")

// Hint is shown until enough ingredients are chosen.
var Hint = fmt.Sprintf("Please choose at least %d ingredients", types.MinMealIngredients)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#874BFD"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type item struct {
	name     string
	category string
}

// Model is the picker state. It is exported so callers and tests can drive
// it with tea messages.
type Model struct {
	items     []item
	cursor    int
	selected  map[int]bool
	hint      string
	done      bool
	cancelled bool
}

// NewModel returns a picker over the ingredients of cats, in order.
func NewModel(cats []types.Category) Model {
	m := Model{selected: make(map[int]bool)}
	for _, c := range cats {
		for _, name := range c.Items {
			m.items = append(m.items, item{name: name, category: c.Name})
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.items) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
			m.hint = ""
		}
	case "enter":
		if len(m.Selected()) < types.MinMealIngredients {
			m.hint = Hint
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose ingredients"))
	b.WriteString("\n")

	category := ""
	for i, it := range m.items {
		if it.category != category {
			category = it.category
			b.WriteString("\n")
			b.WriteString(categoryStyle.Render(category))
			b.WriteString("\n")
		}
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, check, it.name)
	}

	b.WriteString("\n")
	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.hint))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑↓ to move • space to select • enter to match • q to quit"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen ingredient names in list order.
func (m Model) Selected() []string {
	out := []string{}
	for i, it := range m.items {
		if m.selected[i] {
			out = append(out, it.name)
		}
	}
	return out
}

// Done reports whether the user confirmed a selection.
func (m Model) Done() bool { return m.done }

// Cancelled reports whether the user quit without confirming.
func (m Model) Cancelled() bool { return m.cancelled }

// Pick runs the picker on the given terminal streams and returns the
// confirmed selection. It returns ErrCancelled if the user quits.
func Pick(cats []types.Category, in io.Reader, out io.Writer) ([]string, error) {
	p := tea.NewProgram(NewModel(cats), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok || !m.Done() {
		return nil, ErrCancelled
	}
	return m.Selected(), nil
}
