package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var testItems = []PickerItem{
	{Name: "classroom", Description: "default setup"},
	{Name: "distant", Description: "far stars"},
	{Name: "fast", Description: "three times speed"},
}

func pick(m Picker, keys ...tea.KeyMsg) Picker {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Picker)
	}
	return m
}

func TestPicker_Select(t *testing.T) {
	m := pick(NewPicker(testItems), key("down"), key("j"), key("j"), key("up"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m = pick(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != "distant" {
		t.Errorf("selected %q, want distant", m.Selected())
	}
}

func TestPicker_Quit(t *testing.T) {
	m := pick(NewPicker(testItems), key("down"), key("q"))
	if m.Selected() != "" {
		t.Errorf("dismissed menu selected %q", m.Selected())
	}
}

func TestPicker_View(t *testing.T) {
	out := NewPicker(testItems).View()
	for _, it := range testItems {
		if !strings.Contains(out, it.Name) {
			t.Errorf("menu missing %s", it.Name)
		}
	}
	if !strings.Contains(out, "▸ classroom") {
		t.Error("cursor should start on the first item")
	}
}
