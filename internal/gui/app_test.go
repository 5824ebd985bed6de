package gui

import (
	"math"
	"testing"

	"github.com/san-kum/parallax/internal/sim"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return NewApp(s, sim.NewBackdrop(1, 10, 10), Options{Theme: "night"})
}

func TestApp_UpdateTrail(t *testing.T) {
	a := newTestApp(t)
	a.Update()
	if len(a.Trail) != 0 {
		t.Error("paused app should not grow the trail")
	}

	a.Sim.SetPlaying(true)
	for i := 0; i < trailLength+20; i++ {
		a.Update()
	}
	if len(a.Trail) != trailLength {
		t.Fatalf("trail length = %d, want %d", len(a.Trail), trailLength)
	}
	if last := a.Trail[len(a.Trail)-1]; last != a.Frame.Earth {
		t.Errorf("newest trail point %v, want %v", last, a.Frame.Earth)
	}

	a.Reset()
	if len(a.Trail) != 0 || a.Frame.Phase != 0 {
		t.Error("reset should clear the trail and return to A")
	}
	if !a.Sim.Playing() {
		t.Error("reset should keep the play state")
	}
}

func TestApp_Adjust(t *testing.T) {
	a := newTestApp(t)

	a.Adjust(1)
	if got := a.Sim.Speed(); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("speed = %v, want 1.1", got)
	}

	a.Selected = 1
	for i := 0; i < 50; i++ {
		a.Adjust(-1)
	}
	if got := a.Sim.Distance(sim.StarX); got != sim.MinDistance {
		t.Errorf("distance X = %v, want clamp at %v", got, sim.MinDistance)
	}

	a.Selected = 2
	a.Adjust(1)
	if got := a.Sim.Distance(sim.StarY); math.Abs(got-20.5) > 1e-9 {
		t.Errorf("distance Y = %v, want 20.5", got)
	}
}

func TestStripX(t *testing.T) {
	tests := []struct {
		deg  float64
		want float32
	}{
		{0, 0}, {180, 600}, {-90, 900}, {450, 300},
	}
	for _, tt := range tests {
		if got := StripX(tt.deg, 1200); math.Abs(float64(got-tt.want)) > 1e-3 {
			t.Errorf("StripX(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}
