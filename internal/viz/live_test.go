package viz

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/parallax/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, sim.NewBackdrop(1, 150, 20), Options{
		FPS:     60,
		GIFPath: filepath.Join(t.TempDir(), "out.gif"),
	})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func tick(m Model, n int) Model {
	for i := 0; i < n; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	return m
}

func TestModel_TickStepsWhilePaused(t *testing.T) {
	m := tick(newTestModel(t), 5)

	f := m.current()
	if f.Index != 5 || f.Phase != 0 {
		t.Errorf("paused model should count frames without moving, got %d/%v", f.Index, f.Phase)
	}
	if len(m.history) != 0 || len(m.offsets[sim.StarX]) != 0 {
		t.Errorf("paused ticks should not be recorded, got %d/%d", len(m.history), len(m.offsets[sim.StarX]))
	}
}

func TestModel_TogglePlay(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key(" "))
	if !m.sim.Playing() {
		t.Fatal("space should start the orbit")
	}
	m = tick(m, 10)
	if want := 10 * sim.PhaseIncrement; math.Abs(m.current().Phase-want) > 1e-9 {
		t.Errorf("phase = %v, want %v", m.current().Phase, want)
	}
	if !strings.Contains(m.View(), "PLAYING") {
		t.Error("status should say PLAYING")
	}
}

func TestModel_AdjustParams(t *testing.T) {
	m := newTestModel(t)

	m = update(m, key("up"))
	if got := m.sim.Speed(); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("speed = %v, want 1.1", got)
	}

	m = update(m, key("tab"))
	m = update(m, key("k"))
	if got := m.sim.Distance(sim.StarX); math.Abs(got-2.1) > 1e-9 {
		t.Errorf("distance X = %v, want 2.1", got)
	}
	if p := m.current().Star(sim.StarX).Parallax; math.Abs(p-1/2.1) > 1e-9 {
		t.Errorf("parallax X = %v, want %v", p, 1/2.1)
	}

	m = update(m, key("tab"))
	m = update(m, key("j"))
	if got := m.sim.Distance(sim.StarY); math.Abs(got-19.5) > 1e-9 {
		t.Errorf("distance Y = %v, want 19.5", got)
	}

	// Wraps back to speed and stops at the lower bound.
	m = update(m, key("tab"))
	for i := 0; i < 30; i++ {
		m = update(m, key("down"))
	}
	if got := m.sim.Speed(); math.Abs(got-sim.MinSpeed) > 1e-9 {
		t.Errorf("speed = %v, want %v", got, sim.MinSpeed)
	}
}

func TestModel_Scrub(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key(" "))
	m = tick(m, 5)

	m = update(m, key("["))
	if m.playHead != 3 {
		t.Fatalf("playHead = %d, want 3", m.playHead)
	}
	if m.sim.Playing() {
		t.Error("scrubbing should pause the orbit")
	}
	if m.current().Index != 4 {
		t.Errorf("showing frame %d, want 4", m.current().Index)
	}
	if !strings.Contains(m.View(), "REPLAY PAUSED") {
		t.Error("status should show the replay")
	}

	m = update(m, key("]"))
	m = update(m, key("]"))
	if m.playHead != -1 {
		t.Errorf("scrubbing past the end should return to live, got %d", m.playHead)
	}
}

func TestModel_ScrubAfterLongPause(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key(" "))
	m = tick(m, 200)
	paused := m.current().Phase

	m = update(m, key(" "))
	m = tick(m, historyCapacity)
	if len(m.history) != 200 {
		t.Fatalf("history holds %d frames, want the 200 played", len(m.history))
	}

	for i := 0; i < 100; i++ {
		m = update(m, key("["))
	}
	want := paused - 100*sim.PhaseIncrement
	if got := m.current().Phase; math.Abs(got-want) > 1e-9 {
		t.Errorf("phase after scrubbing back = %v, want %v", got, want)
	}
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key(" "))
	m = update(m, key("up"))
	m = tick(m, 20)

	m = update(m, key("r"))
	f := m.current()
	if f.Phase != 0 || f.Index != 0 {
		t.Errorf("reset left phase %v frame %d", f.Phase, f.Index)
	}
	if len(m.history) != 0 || m.playHead != -1 {
		t.Error("reset should drop history")
	}
	if math.Abs(m.sim.Speed()-1.1) > 1e-9 {
		t.Errorf("reset should keep the slider, speed %v", m.sim.Speed())
	}
}

func TestModel_WindowResize(t *testing.T) {
	m := update(newTestModel(t), tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.overhead.Width != 120-statsWidth-2 {
		t.Errorf("overhead width = %d", m.overhead.Width)
	}
	if m.celestial.Width != 116 || m.celestial.Height != celestialRows {
		t.Errorf("celestial size = %dx%d", m.celestial.Width, m.celestial.Height)
	}

	small := update(m, tea.WindowSizeMsg{Width: 10, Height: 5})
	if small.overhead.Width < 24 || small.overhead.Height < 8 {
		t.Error("canvases should not shrink below their minimum")
	}
}

func TestModel_ThemeAndHelp(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("t"))
	if m.theme.Name != ThemeCyberpunk.Name {
		t.Errorf("expected cyberpunk after night, got %s", m.theme.Name)
	}
	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay missing")
	}
}

func TestModel_RecordGIF(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("g"))
	m = tick(m, 3)
	if len(m.frames) != 3 {
		t.Fatalf("expected 3 captured frames, got %d", len(m.frames))
	}
	m = update(m, key("g"))

	info, err := os.Stat(m.gifPath)
	if err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("gif is empty")
	}
	if m.recording || m.frames != nil {
		t.Error("recording should stop")
	}
}

func TestModel_Quit(t *testing.T) {
	_, cmd := newTestModel(t).Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
