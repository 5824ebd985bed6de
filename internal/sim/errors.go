package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulator operations.
var (
	// ErrParameterBounds indicates a speed or distance outside its slider range.
	ErrParameterBounds = errors.New("sim: parameter out of valid bounds")

	// ErrInvalidDistance indicates a non-positive or non-finite star distance.
	ErrInvalidDistance = errors.New("sim: star distance must be positive and finite")

	// ErrUnknownStar indicates a star id other than X or Y.
	ErrUnknownStar = errors.New("sim: unknown star")

	// ErrNoFrames indicates a headless run asked for zero frames.
	ErrNoFrames = errors.New("sim: frame count must be positive")
)

// FrameError wraps an error with the frame it happened on.
type FrameError struct {
	Frame   int
	Phase   float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (phase=%.4f): %v", e.Frame, e.Phase, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
