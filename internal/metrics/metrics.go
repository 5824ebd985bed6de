// Package metrics summarises a run of frames into named scalar values.
package metrics

import (
	"github.com/san-kum/parallax/internal/sim"
)

// Metric observes frames and reports one value.
type Metric interface {
	Name() string
	Observe(f sim.Frame)
	Value() float64
	Reset()
}

// Recorder feeds every frame to a set of metrics. It satisfies sim.Observer.
type Recorder struct {
	metrics []Metric
}

func NewRecorder(ms ...Metric) *Recorder {
	return &Recorder{metrics: ms}
}

// Default returns the metrics saved with every run.
func Default() *Recorder {
	return NewRecorder(
		NewOffsetRange(sim.StarX),
		NewOffsetRange(sim.StarY),
		NewHighlightDuty(),
		NewOrbits(),
	)
}

func (r *Recorder) OnFrame(f sim.Frame) {
	for _, m := range r.metrics {
		m.Observe(f)
	}
}

// Values returns the current value of each metric by name.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
}
