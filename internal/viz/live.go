package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/parallax/internal/logging"
	"github.com/san-kum/parallax/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	graphSamples    = 240
	statsWidth      = 44
	celestialRows   = 6
	gifDelay        = 2
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(0, 2).Width(statsWidth - 2)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0, 0, 0)
	skyStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type TickMsg time.Time

// Options configures the interactive model.
type Options struct {
	FPS     int
	Theme   string
	GIFPath string
	Logger  *log.Logger
}

// param is one tunable slider in the info panel.
type param struct {
	name     string
	step     float64
	min, max float64
	unit     string
	get      func(*sim.Simulator) float64
	set      func(*sim.Simulator, float64) error
}

var params = []param{
	{
		name: "SPEED", step: 0.1, min: sim.MinSpeed, max: sim.MaxSpeed, unit: "x",
		get: (*sim.Simulator).Speed,
		set: (*sim.Simulator).SetSpeed,
	},
	{
		name: "DIST X", step: 0.1, min: sim.MinDistance, max: sim.MaxDistance, unit: " pc",
		get: func(s *sim.Simulator) float64 { return s.Distance(sim.StarX) },
		set: func(s *sim.Simulator, v float64) error { return s.SetDistance(sim.StarX, v) },
	},
	{
		name: "DIST Y", step: 0.5, min: sim.MinDistance, max: sim.MaxDistance, unit: " pc",
		get: func(s *sim.Simulator) float64 { return s.Distance(sim.StarY) },
		set: func(s *sim.Simulator, v float64) error { return s.SetDistance(sim.StarY, v) },
	},
}

// Model is the interactive parallax view: overhead canvas, info panel and
// celestial strip driven by one simulator.
type Model struct {
	sim           *sim.Simulator
	backdrop      sim.Backdrop
	theme         Theme
	logger        *log.Logger
	fps           int
	gifPath       string
	width, height int
	overhead      *Canvas
	celestial     *Canvas
	projector     Projector
	markers       *MarkerSpring
	selected      int
	history       []sim.Frame
	playHead      int
	offsets       [2][]float64
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	ticks         int
	notice        string
}

// NewModel wraps s for interactive display.
func NewModel(s *sim.Simulator, bg sim.Backdrop, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "parallax.gif"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	m := Model{
		sim:      s,
		backdrop: bg,
		theme:    GetTheme(opts.Theme),
		logger:   opts.Logger,
		fps:      opts.FPS,
		gifPath:  opts.GIFPath,
		markers:  NewMarkerSpring(opts.FPS),
		history:  make([]sim.Frame, 0, historyCapacity),
		playHead: -1,
	}
	m.layout(width, height)
	m.markers.Snap(TargetAngles(s.Frame()))
	m.draw()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			playing := m.sim.TogglePlaying()
			m.logger.Debug("toggle", "playing", playing, "frame", m.current().Index)
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.selected = (m.selected + 1) % len(params)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.notice = ""
				m.logger.Info("recording started", "path", m.gifPath)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.logger.Debug("theme", "name", m.theme.Name)
		}
		m.draw()
		return m, nil
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		m.draw()
		return m, nil
	case TickMsg:
		m.ticks++
		if m.playHead == -1 {
			// The highlight keeps decaying while paused, but only motion
			// is kept for scrubbing.
			if f := m.sim.Step(); f.Playing {
				m.record(f)
			}
		} else if m.sim.Playing() {
			m.playHead++
			if m.playHead >= len(m.history) {
				m.playHead = -1
			}
		}
		m.markers.Update(TargetAngles(m.current()))
		m.draw()
		if m.recording {
			m.frames = append(m.frames, Rasterize(m.theme, m.overhead, m.celestial))
		}
		return m, m.tick()
	}
	return m, nil
}

// layout sizes both canvases for a terminal of w x h cells.
func (m *Model) layout(w, h int) {
	m.width, m.height = w, h
	ow := maxInt(24, w-statsWidth-2)
	oh := maxInt(8, h-celestialRows-7)
	cw := maxInt(24, w-4)
	m.overhead = NewCanvas(ow, oh)
	m.celestial = NewCanvas(cw, celestialRows)
	pw, ph := m.overhead.PixelSize()
	m.projector = FitOverhead(pw, ph)
}

// record keeps a played frame for scrubbing and the offset trace.
func (m *Model) record(f sim.Frame) {
	m.history = append(m.history, f)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	for _, id := range sim.StarIDs {
		m.offsets[id] = append(m.offsets[id], sim.CelestialOffset(f, id, sim.ReferenceStripWidth))
		if len(m.offsets[id]) > graphSamples {
			m.offsets[id] = m.offsets[id][1:]
		}
	}
}

// current is the frame on screen: the live one, or the replayed one.
func (m *Model) current() sim.Frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.sim.Frame()
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.sim.SetPlaying(false)
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
	m.markers.Snap(TargetAngles(m.current()))
}

// adjustParam moves the selected slider by one step in dir.
func (m *Model) adjustParam(dir float64) {
	p := params[m.selected]
	v := p.get(m.sim) + dir*p.step
	v = math.Round(v/p.step) * p.step
	v = math.Max(p.min, math.Min(p.max, v))
	if err := p.set(m.sim, v); err != nil {
		m.logger.Warn("adjust", "param", p.name, "value", v, "err", err)
		return
	}
	m.logger.Debug("adjust", "param", p.name, "value", v)
}

// reset puts Earth back at A and drops history. Sliders keep their values.
func (m *Model) reset() {
	m.sim.Reset()
	m.history = m.history[:0]
	m.offsets = [2][]float64{}
	m.playHead = -1
	m.markers.Snap(TargetAngles(m.sim.Frame()))
	m.logger.Debug("reset")
}

func (m *Model) stopRecording() {
	m.recording = false
	n := len(m.frames)
	if err := SaveGIF(m.gifPath, m.frames, gifDelay); err != nil {
		m.logger.Error("save gif", "path", m.gifPath, "err", err)
		m.notice = "gif failed: " + err.Error()
	} else {
		m.logger.Info("saved gif", "path", m.gifPath, "frames", n)
		m.notice = fmt.Sprintf("saved %s (%d frames)", m.gifPath, n)
	}
	m.frames = nil
}

// draw renders the displayed frame onto both canvases.
func (m *Model) draw() {
	f := m.current()
	DrawOverhead(m.overhead, m.projector, f, m.backdrop, m.theme)
	DrawCelestial(m.celestial, m.markers.Positions(), m.backdrop, m.theme)
}

func (m Model) status() string {
	playing := m.sim.Playing()
	var s string
	switch {
	case m.playHead != -1 && playing:
		s = StatusRunning.Render(fmt.Sprintf("REPLAYING (%d)", m.playHead-len(m.history)))
	case m.playHead != -1:
		s = StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%d)", m.playHead-len(m.history)))
	case playing:
		s = StatusRunning.Render("PLAYING")
	default:
		s = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		s += "  " + StatusRecording.Render(AnimatedSpinner(m.ticks)+" REC")
	}
	if m.notice != "" {
		s += "  " + Subtle.Render(m.notice)
	}
	return s
}

// View renders the TUI interface.
func (m Model) View() string {
	th := m.theme
	header := headerStyle.Render(GradientText("STELLAR PARALLAX", th.Sun, th.StarY) + "  " + m.status())

	canvasView := canvasStyle.Render(m.overhead.Render())
	statsView := statsStyle.BorderForeground(th.Border).Render(m.stats())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	sky := skyStyle.BorderForeground(th.Border).Render(m.celestial.Render())

	hint := KeyHint.Render("space play · r reset · tab ↑↓ tune · [ ] scrub · t theme · g gif · ? help · q quit")
	view := lipgloss.JoinVertical(lipgloss.Left, header, mainView, sky, hint)
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

// stats renders the info panel for the displayed frame.
func (m Model) stats() string {
	f := m.current()
	th := m.theme
	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	star := func(id sim.StarID, text string) string {
		return lipgloss.NewStyle().Foreground(th.Star(id)).Render(text)
	}

	row("EARTH", lipgloss.NewStyle().Foreground(th.Earth).Render(f.Location.String()))
	row("PHASE", fmt.Sprintf("%.1f°", f.Phase*180/math.Pi))
	row("FRAME", fmt.Sprintf("%d", f.Index))
	for _, id := range sim.StarIDs {
		row("PARALLAX "+id.String(), star(id, fmt.Sprintf("%.3f\"", f.Star(id).Parallax)))
	}
	for _, id := range sim.StarIDs {
		row("ANGLE "+id.String(), fmt.Sprintf("%.2f°", f.Sightlines[id].Angle*180/math.Pi))
	}
	row("HIGHLIGHT", ProgressBar(f.Highlight.Intensity, 16))

	s.WriteString(Separator(statsWidth-6) + "\n")
	for i, p := range params {
		v := p.get(m.sim)
		line := fmt.Sprintf("%-7s %s %.1f%s", p.name, Slider(v, p.min, p.max, 10), v, p.unit)
		if i == m.selected {
			s.WriteString(lipgloss.NewStyle().Foreground(th.Accent).Bold(true).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}

	if len(m.offsets[sim.StarX]) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.offsets[sim.StarX], m.offsets[sim.StarY]},
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("apparent shift X / Y"),
		)
		s.WriteString(graphStyle.Foreground(th.Muted).Render(chart))
	}
	return s.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause the orbit     ║
║  R        - Reset Earth to point A   ║
║  Q        - Quit                     ║
║  Tab      - Cycle speed / distances  ║
║  Up/K     - Increase by one step     ║
║  Down/J   - Decrease by one step     ║
║  [        - Rewind (time travel)     ║
║  ]        - Forward (time travel)    ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
