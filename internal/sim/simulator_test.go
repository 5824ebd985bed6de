package sim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func newTestSim(t *testing.T) *Simulator {
	t.Helper()
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	return s
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero radius", func(c *Config) { c.OrbitRadius = 0 }, nil},
		{"slow", func(c *Config) { c.Speed = 0.01 }, ErrParameterBounds},
		{"fast", func(c *Config) { c.Speed = 9 }, ErrParameterBounds},
		{"zero distance", func(c *Config) { c.DistanceX = 0 }, ErrInvalidDistance},
		{"inf distance", func(c *Config) { c.DistanceY = math.Inf(1) }, ErrInvalidDistance},
		{"too far", func(c *Config) { c.DistanceY = 80 }, ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestNew_StartsAtA(t *testing.T) {
	s := newTestSim(t)
	f := s.Frame()

	if f.Phase != 0 || f.Index != 0 {
		t.Errorf("expected phase 0 frame 0, got %v/%d", f.Phase, f.Index)
	}
	if f.Playing {
		t.Error("default config should start paused")
	}
	if f.Location != NearA {
		t.Errorf("expected near A, got %v", f.Location)
	}
	if !f.Highlight.Active || f.Highlight.Intensity != 1 {
		t.Errorf("expected full highlight at A, got %+v", f.Highlight)
	}
	if f.Star(StarX).Parallax != 0.5 || f.Star(StarY).Parallax != 0.05 {
		t.Errorf("unexpected parallax %v/%v", f.Star(StarX).Parallax, f.Star(StarY).Parallax)
	}
}

func TestStep_PausedKeepsPhase(t *testing.T) {
	s := newTestSim(t)
	for i := 0; i < 50; i++ {
		s.Step()
	}
	f := s.Frame()
	if f.Phase != 0 {
		t.Errorf("paused simulator moved to phase %v", f.Phase)
	}
	if f.Index != 50 {
		t.Errorf("expected 50 frames, got %d", f.Index)
	}
}

func TestStep_AdvancesBySpeed(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)
	if err := s.SetSpeed(2.5); err != nil {
		t.Fatal(err)
	}

	f := s.Step()
	if want := PhaseIncrement * 2.5; math.Abs(f.Phase-want) > 1e-12 {
		t.Errorf("phase = %v, want %v", f.Phase, want)
	}
}

func TestStep_WrapsAfterOrbit(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)

	// 2π / 0.02 ≈ 314.16 frames per orbit.
	for i := 0; i < 315; i++ {
		s.Step()
	}
	if p := s.Phase(); p >= HighlightTolerance {
		t.Errorf("expected phase just past A, got %v", p)
	}
}

func TestStep_HighlightDecays(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)
	if err := s.SetSpeed(MaxSpeed); err != nil {
		t.Fatal(err)
	}

	// 0.1 rad per frame: the second frame is already outside the tolerance.
	s.Step()
	s.Step()
	prev := s.Frame().Highlight.Intensity
	if prev >= 1 {
		t.Fatalf("expected decay to have started, intensity %v", prev)
	}

	for i := 0; i < 25; i++ {
		f := s.Step()
		if f.Highlight.Active && f.Highlight.Intensity >= prev {
			t.Fatalf("frame %d: intensity %v did not decrease from %v", f.Index, f.Highlight.Intensity, prev)
		}
		prev = f.Highlight.Intensity
	}
	if s.Frame().Highlight.Active {
		t.Error("highlight should have faded out")
	}
}

func TestStep_HighlightAtB(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)
	s.SetSpeed(MaxSpeed)

	// Frames 31 and 32 land within 0.1 of π.
	var sawB bool
	for i := 0; i < 40; i++ {
		f := s.Step()
		if math.Abs(f.Phase-math.Pi) < HighlightTolerance {
			sawB = true
			if !f.Highlight.Active || f.Highlight.Intensity != 1 {
				t.Errorf("phase %.3f near B without full highlight: %+v", f.Phase, f.Highlight)
			}
			if f.Location != NearB {
				t.Errorf("expected near B, got %v", f.Location)
			}
		}
	}
	if !sawB {
		t.Error("never passed near B")
	}
}

func TestSetSpeed_Bounds(t *testing.T) {
	s := newTestSim(t)
	for _, v := range []float64{0, 0.05, 5.5, math.NaN()} {
		if err := s.SetSpeed(v); !errors.Is(err, ErrParameterBounds) {
			t.Errorf("SetSpeed(%v): expected ErrParameterBounds, got %v", v, err)
		}
	}
	if s.Speed() != DefaultSpeed {
		t.Errorf("rejected speed changed value to %v", s.Speed())
	}
}

func TestSetDistance(t *testing.T) {
	s := newTestSim(t)

	if err := s.SetDistance(StarX, 4); err != nil {
		t.Fatalf("set distance: %v", err)
	}
	f := s.Frame()
	if f.Star(StarX).Distance != 4 || f.Star(StarX).Parallax != 0.25 {
		t.Errorf("unexpected star X %+v", f.Star(StarX))
	}

	if err := s.SetDistance(StarID(5), 3); !errors.Is(err, ErrUnknownStar) {
		t.Errorf("expected ErrUnknownStar, got %v", err)
	}
	if err := s.SetDistance(StarY, -1); !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
	if err := s.SetDistance(StarY, 0.1); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if s.Distance(StarY) != DefaultDistanceY {
		t.Errorf("rejected distance changed Y to %v", s.Distance(StarY))
	}
	if s.Distance(StarID(9)) != 0 {
		t.Error("unknown star should report zero distance")
	}
}

func TestReset(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)
	s.SetSpeed(3)
	s.SetDistance(StarY, 30)
	for i := 0; i < 40; i++ {
		s.Step()
	}

	s.Reset()
	f := s.Frame()
	if f.Phase != 0 || f.Index != 0 {
		t.Errorf("reset left phase %v frame %d", f.Phase, f.Index)
	}
	if !f.Playing || f.Speed != 3 || f.Star(StarY).Distance != 30 {
		t.Errorf("reset should keep controls, got %+v", f)
	}
	if math.Abs(f.Earth.X-f.OrbitRadius) > 1e-9 {
		t.Errorf("reset should put Earth at A, got %v", f.Earth)
	}
}

type countingObserver struct {
	frames []int
}

func (c *countingObserver) OnFrame(f Frame) { c.frames = append(c.frames, f.Index) }

func TestRun(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)
	obs := &countingObserver{}
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), 100)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 100 {
		t.Errorf("expected 100 frames, got %d", len(result.Frames))
	}
	if len(obs.frames) != 100 || obs.frames[99] != 100 {
		t.Errorf("observer saw %d frames", len(obs.frames))
	}
	for i, f := range result.Frames {
		if f.Index != i+1 {
			t.Fatalf("frame %d has index %d", i, f.Index)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	s := newTestSim(t)

	if _, err := s.Run(context.Background(), 0); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Errorf("expected FrameError, got %T", err)
	}
}

func TestRunWithCallback(t *testing.T) {
	s := newTestSim(t)
	s.SetPlaying(true)

	n := 0
	err := s.RunWithCallback(context.Background(), func(f Frame) bool {
		n++
		return f.Index < 25
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 25 {
		t.Errorf("expected 25 callbacks, got %d", n)
	}
}

func TestParseStarID(t *testing.T) {
	for in, want := range map[string]StarID{"x": StarX, "X": StarX, "y": StarY, "Y": StarY} {
		got, err := ParseStarID(in)
		if err != nil || got != want {
			t.Errorf("ParseStarID(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStarID("z"); !errors.Is(err, ErrUnknownStar) {
		t.Errorf("expected ErrUnknownStar, got %v", err)
	}
}
