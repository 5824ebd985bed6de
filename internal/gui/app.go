// Package gui draws the parallax scene in a raylib window: the overhead view
// on top and the celestial strip underneath.
package gui

import (
	"math"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/parallax/internal/logging"
	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/viz"
)

const (
	WindowWidth  = 1200
	WindowHeight = 800
	stripHeight  = 160
	panelWidth   = 260
	trailLength  = 90
)

// param is one adjustable setting, cycled with tab.
type param struct {
	name     string
	step     float64
	min, max float64
	get      func(*sim.Simulator) float64
	set      func(*sim.Simulator, float64) error
}

var params = []param{
	{"speed", 0.1, sim.MinSpeed, sim.MaxSpeed, (*sim.Simulator).Speed, (*sim.Simulator).SetSpeed},
	{"distance X", 0.1, sim.MinDistance, sim.MaxDistance,
		func(s *sim.Simulator) float64 { return s.Distance(sim.StarX) },
		func(s *sim.Simulator, v float64) error { return s.SetDistance(sim.StarX, v) }},
	{"distance Y", 0.5, sim.MinDistance, sim.MaxDistance,
		func(s *sim.Simulator) float64 { return s.Distance(sim.StarY) },
		func(s *sim.Simulator, v float64) error { return s.SetDistance(sim.StarY, v) }},
}

type Options struct {
	FPS    int
	Theme  string
	Logger *log.Logger
}

type App struct {
	Sim      *sim.Simulator
	Backdrop sim.Backdrop
	Theme    viz.Theme
	Frame    sim.Frame
	Selected int
	Trail    []r2.Vec // recent Earth positions, oldest first
	ShowHelp bool

	fps     int
	logger  *log.Logger
	markers *viz.MarkerSpring
}

// NewApp prepares the scene state. It does not touch the window so it can be
// driven headless.
func NewApp(s *sim.Simulator, bg sim.Backdrop, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	a := &App{
		Sim:      s,
		Backdrop: bg,
		Theme:    viz.GetTheme(opts.Theme),
		Frame:    s.Frame(),
		Trail:    make([]r2.Vec, 0, trailLength),
		fps:      opts.FPS,
		logger:   opts.Logger,
		markers:  viz.NewMarkerSpring(opts.FPS),
	}
	a.markers.Snap(viz.TargetAngles(a.Frame))
	return a
}

// initWindow opens the window at the given frame rate and disables the
// default exit key so escape only closes help.
func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(WindowWidth, WindowHeight, "parallax")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Simulator, bg sim.Backdrop, opts Options) {
	a := NewApp(s, bg, opts)
	initWindow(a.fps)
	defer rl.CloseWindow()
	a.logger.Info("window open", "width", WindowWidth, "height", WindowHeight, "fps", a.fps)
	a.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.handleInput() {
			return
		}
		a.Update()
		a.Draw()
	}
}

// Update advances one frame.
func (a *App) Update() {
	a.Frame = a.Sim.Step()
	a.markers.Update(viz.TargetAngles(a.Frame))

	if a.Frame.Playing {
		if len(a.Trail) == trailLength {
			copy(a.Trail, a.Trail[1:])
			a.Trail = a.Trail[:trailLength-1]
		}
		a.Trail = append(a.Trail, a.Frame.Earth)
	}
}

// handleInput applies key presses and reports whether to quit.
func (a *App) handleInput() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Sim.TogglePlaying()
	case rl.IsKeyPressed(rl.KeyR):
		a.Reset()
	case rl.IsKeyPressed(rl.KeyTab):
		a.Selected = (a.Selected + 1) % len(params)
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyRight):
		a.Adjust(1)
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyLeft):
		a.Adjust(-1)
	case rl.IsKeyPressed(rl.KeyT):
		a.Theme = viz.NextTheme(a.Theme.Name)
	case rl.IsKeyPressed(rl.KeySlash):
		a.ShowHelp = !a.ShowHelp
	case rl.IsKeyPressed(rl.KeyEscape):
		a.ShowHelp = false
	}
	return false
}

// Adjust moves the selected setting one step, clamped to its range.
func (a *App) Adjust(dir float64) {
	p := params[a.Selected]
	v := p.get(a.Sim) + dir*p.step
	v = math.Round(v/p.step) * p.step
	v = math.Max(p.min, math.Min(p.max, v))
	if err := p.set(a.Sim, v); err != nil {
		a.logger.Warn("rejected setting", "param", p.name, "value", v, "err", err)
		return
	}
	a.logger.Debug("setting changed", "param", p.name, "value", v)
}

// Reset returns Earth to A and clears the trail. Settings are kept.
func (a *App) Reset() {
	a.Sim.Reset()
	a.Frame = a.Sim.Frame()
	a.Trail = a.Trail[:0]
	a.markers.Snap(viz.TargetAngles(a.Frame))
}
