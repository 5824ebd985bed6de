package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// PhaseIncrement is the orbital advance per frame at 1.0x speed.
	PhaseIncrement = 0.02

	// HighlightTolerance is how close (radians) the phase must be to A or B.
	HighlightTolerance = 0.1
	// HighlightDecay is subtracted from the highlight intensity per frame.
	HighlightDecay = 0.05

	DefaultOrbitRadius = 100.0
	DefaultSpeed       = 1.0
	DefaultDistanceX   = 2.0
	DefaultDistanceY   = 20.0

	MinSpeed    = 0.1
	MaxSpeed    = 5.0
	MinDistance = 0.5
	MaxDistance = 50.0
)

// StarID names one of the two target stars.
type StarID int

const (
	StarX StarID = iota // near star
	StarY               // far star
)

// StarIDs lists the target stars in drawing order.
var StarIDs = [...]StarID{StarX, StarY}

func (id StarID) String() string {
	switch id {
	case StarX:
		return "X"
	case StarY:
		return "Y"
	default:
		return fmt.Sprintf("StarID(%d)", int(id))
	}
}

// ParseStarID accepts "x"/"X"/"y"/"Y".
func ParseStarID(s string) (StarID, error) {
	switch s {
	case "x", "X":
		return StarX, nil
	case "y", "Y":
		return StarY, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStar, s)
}

func (id StarID) valid() bool { return id == StarX || id == StarY }

// Star is a target star. Pos is fixed; Parallax is derived from Distance.
type Star struct {
	ID       StarID
	Distance float64 // parsecs
	Pos      r2.Vec
	Parallax float64 // arcseconds
}

// Sightline holds the directions from orbit points A and B to a star.
type Sightline struct {
	FromA float64 // radians
	FromB float64 // radians
	Angle float64 // |FromA - FromB|
}

// Highlight flares when Earth passes A or B and then fades out.
type Highlight struct {
	Active    bool
	Intensity float64
}

// Location is a coarse label for where Earth is on its orbit.
type Location int

const (
	InTransit Location = iota
	NearA
	NearB
)

func (l Location) String() string {
	switch l {
	case NearA:
		return "near A"
	case NearB:
		return "near B"
	default:
		return "in transit"
	}
}

// Frame is the derived state of one simulation frame.
type Frame struct {
	Index       int
	Phase       float64
	Playing     bool
	Speed       float64
	OrbitRadius float64
	Earth       r2.Vec
	Stars       [2]Star
	Sightlines  [2]Sightline
	Highlight   Highlight
	Location    Location
}

// Star returns the star with the given id.
func (f Frame) Star(id StarID) Star { return f.Stars[id] }

// PointA is the orbit point at phase 0.
func (f Frame) PointA() r2.Vec { return r2.Vec{X: f.OrbitRadius} }

// PointB is the orbit point at phase π.
func (f Frame) PointB() r2.Vec { return r2.Vec{X: -f.OrbitRadius} }

// Observer receives every frame produced by Step.
type Observer interface {
	OnFrame(f Frame)
}

// Config holds the initial simulator settings.
type Config struct {
	OrbitRadius float64
	Speed       float64
	Playing     bool
	DistanceX   float64
	DistanceY   float64
	PositionX   r2.Vec
	PositionY   r2.Vec
}

// DefaultConfig places the Sun, X and Y on one vertical line, X closer.
func DefaultConfig() Config {
	return Config{
		OrbitRadius: DefaultOrbitRadius,
		Speed:       DefaultSpeed,
		Playing:     false,
		DistanceX:   DefaultDistanceX,
		DistanceY:   DefaultDistanceY,
		PositionX:   r2.Vec{X: 0, Y: -200},
		PositionY:   r2.Vec{X: 0, Y: -350},
	}
}

// Result collects the frames of a headless run.
type Result struct {
	Frames []Frame
	Errors []error
}
