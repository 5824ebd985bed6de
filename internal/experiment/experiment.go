// Package experiment runs the simulator headless for a fixed number of
// frames and collects metrics along the way.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/parallax/internal/metrics"
	"github.com/san-kum/parallax/internal/sim"
)

type Config struct {
	Name   string
	Sim    sim.Config
	Frames int
	Seed   int64
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	recorder  *metrics.Recorder
}

// New builds the simulator for cfg with the default metrics attached.
func New(cfg Config) (*Experiment, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Name, sim.ErrNoFrames)
	}
	s, err := sim.New(cfg.Sim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	rec := metrics.Default()
	s.AddObserver(rec)
	return &Experiment{cfg: cfg, simulator: s, recorder: rec}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.cfg.Frames)
}

// Metrics returns the values collected so far.
func (e *Experiment) Metrics() map[string]float64 {
	return e.recorder.Values()
}
