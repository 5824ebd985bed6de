package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// PickerItem is one entry of the start menu.
type PickerItem struct {
	Name        string
	Description string
}

// Picker is the start menu listing named setups.
type Picker struct {
	items    []PickerItem
	cursor   int
	selected string
	quit     bool
}

// NewPicker returns a menu over items.
func NewPicker(items []PickerItem) Picker {
	return Picker{items: items}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) > 0 {
			m.selected = m.items[m.cursor].Name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Picker) View() string {
	var s strings.Builder
	s.WriteString("\n  " + cyan.Bold(true).Render("STELLAR PARALLAX") + dim.Render("  pick a setup") + "\n\n")
	for i, it := range m.items {
		name := fmt.Sprintf("%-16s", it.Name)
		if i == m.cursor {
			s.WriteString("  " + yellow.Render("▸ "+name) + white.Render(it.Description) + "\n")
		} else {
			s.WriteString("    " + dim.Render(name+it.Description) + "\n")
		}
	}
	s.WriteString("\n  " + KeyHint.Render("↑↓ move · enter start · q quit") + "\n")
	return s.String()
}

// Selected is the chosen item name, or "" when the menu was dismissed.
func (m Picker) Selected() string {
	if m.quit {
		return ""
	}
	return m.selected
}

// Pick runs the menu and returns the chosen name, or "" when dismissed.
func Pick(items []PickerItem) (string, error) {
	final, err := tea.NewProgram(NewPicker(items)).Run()
	if err != nil {
		return "", err
	}
	return final.(Picker).Selected(), nil
}
