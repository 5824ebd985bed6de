package sim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Simulator advances the orbit and derives star geometry once per frame.
type Simulator struct {
	cfg        Config
	index      int
	phase      float64
	playing    bool
	speed      float64
	radius     float64
	earth      r2.Vec
	stars      [2]Star
	sightlines [2]Sightline
	highlight  Highlight
	observers  []Observer
}

// New validates cfg and returns a simulator positioned at point A.
func New(cfg Config) (*Simulator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:       cfg,
		playing:   cfg.Playing,
		speed:     cfg.Speed,
		radius:    cfg.OrbitRadius,
		observers: make([]Observer, 0),
	}
	s.stars[StarX] = Star{ID: StarX, Distance: cfg.DistanceX, Pos: cfg.PositionX}
	s.stars[StarY] = Star{ID: StarY, Distance: cfg.DistanceY, Pos: cfg.PositionY}
	s.Reset()
	return s, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.OrbitRadius > 0) || math.IsInf(cfg.OrbitRadius, 0) {
		return fmt.Errorf("orbit radius must be positive, got %f", cfg.OrbitRadius)
	}
	if err := checkSpeed(cfg.Speed); err != nil {
		return err
	}
	if err := checkDistance(cfg.DistanceX); err != nil {
		return fmt.Errorf("star X: %w", err)
	}
	if err := checkDistance(cfg.DistanceY); err != nil {
		return fmt.Errorf("star Y: %w", err)
	}
	return nil
}

func checkSpeed(v float64) error {
	if math.IsNaN(v) || v < MinSpeed || v > MaxSpeed {
		return fmt.Errorf("%w: speed %.2f not in [%.1f, %.1f]", ErrParameterBounds, v, MinSpeed, MaxSpeed)
	}
	return nil
}

func checkDistance(d float64) error {
	if !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: got %f", ErrInvalidDistance, d)
	}
	if d < MinDistance || d > MaxDistance {
		return fmt.Errorf("%w: distance %.2f pc not in [%.1f, %.1f]", ErrParameterBounds, d, MinDistance, MaxDistance)
	}
	return nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step runs one frame and returns it.
func (s *Simulator) Step() Frame {
	if s.playing {
		s.phase = WrapPhase(s.phase + PhaseIncrement*s.speed)
	}
	s.derive()
	s.updateHighlight()
	s.index++

	f := s.Frame()
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f
}

// derive recomputes everything that depends only on phase and distances.
func (s *Simulator) derive() {
	s.earth = EarthPosition(s.phase, s.radius)
	a, b := r2.Vec{X: s.radius}, r2.Vec{X: -s.radius}
	for _, id := range StarIDs {
		st := &s.stars[id]
		st.Parallax = Parallax(st.Distance)
		s.sightlines[id] = Sightlines(st.Pos, a, b)
	}
}

func (s *Simulator) updateHighlight() {
	switch {
	case NearApsis(s.phase):
		s.highlight = Highlight{Active: true, Intensity: 1.0}
	case s.highlight.Active:
		s.highlight.Intensity -= HighlightDecay
		if s.highlight.Intensity <= 0 {
			s.highlight = Highlight{}
		}
	}
}

// Frame returns the current derived state without advancing.
func (s *Simulator) Frame() Frame {
	return Frame{
		Index:       s.index,
		Phase:       s.phase,
		Playing:     s.playing,
		Speed:       s.speed,
		OrbitRadius: s.radius,
		Earth:       s.earth,
		Stars:       s.stars,
		Sightlines:  s.sightlines,
		Highlight:   s.highlight,
		Location:    OrbitLocation(s.phase),
	}
}

func (s *Simulator) Playing() bool       { return s.playing }
func (s *Simulator) SetPlaying(on bool)  { s.playing = on }
func (s *Simulator) TogglePlaying() bool { s.playing = !s.playing; return s.playing }
func (s *Simulator) Speed() float64      { return s.speed }
func (s *Simulator) Phase() float64      { return s.phase }

// SetSpeed changes the speed multiplier.
func (s *Simulator) SetSpeed(v float64) error {
	if err := checkSpeed(v); err != nil {
		return err
	}
	s.speed = v
	return nil
}

// Distance returns the distance of a star in parsecs, or 0 for an unknown id.
func (s *Simulator) Distance(id StarID) float64 {
	if !id.valid() {
		return 0
	}
	return s.stars[id].Distance
}

// SetDistance moves a star nearer or further and rederives its parallax.
func (s *Simulator) SetDistance(id StarID, d float64) error {
	if !id.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownStar, id)
	}
	if err := checkDistance(d); err != nil {
		return fmt.Errorf("star %v: %w", id, err)
	}
	s.stars[id].Distance = d
	s.derive()
	return nil
}

// Reset puts Earth back at point A. Speed, distances and play state are kept.
func (s *Simulator) Reset() {
	s.index = 0
	s.phase = 0
	s.highlight = Highlight{}
	s.derive()
	s.updateHighlight()
}

// Run steps the simulator for n frames and collects them. It checks ctx
// between frames.
func (s *Simulator) Run(ctx context.Context, n int) (*Result, error) {
	if n <= 0 {
		return nil, ErrNoFrames
	}
	result := &Result{
		Frames: make([]Frame, 0, n),
		Errors: make([]error, 0),
	}
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return result, &FrameError{Frame: s.index, Phase: s.phase, Wrapped: ctx.Err()}
		default:
		}
		result.Frames = append(result.Frames, s.Step())
	}
	return result, nil
}

// RunWithCallback steps until fn returns false or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, fn func(Frame) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !fn(s.Step()) {
			return nil
		}
	}
}
