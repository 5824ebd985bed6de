package metrics

import (
	"github.com/san-kum/parallax/internal/sim"
)

// HighlightDuty is the fraction of frames with the sightline highlight on.
type HighlightDuty struct {
	name    string
	active  int
	samples int
}

func NewHighlightDuty() *HighlightDuty {
	return &HighlightDuty{
		name: "highlight_duty",
	}
}

func (h *HighlightDuty) Name() string {
	return h.name
}

func (h *HighlightDuty) Observe(f sim.Frame) {
	h.samples++
	if f.Highlight.Active {
		h.active++
	}
}

func (h *HighlightDuty) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return float64(h.active) / float64(h.samples)
}

func (h *HighlightDuty) Reset() {
	h.active = 0
	h.samples = 0
}

// Orbits counts completed orbits, one per wrap of the phase.
type Orbits struct {
	name   string
	last   float64
	seen   bool
	orbits int
}

func NewOrbits() *Orbits {
	return &Orbits{
		name: "orbits",
	}
}

func (o *Orbits) Name() string {
	return o.name
}

func (o *Orbits) Observe(f sim.Frame) {
	if o.seen && f.Phase < o.last {
		o.orbits++
	}
	o.last = f.Phase
	o.seen = true
}

func (o *Orbits) Value() float64 {
	return float64(o.orbits)
}

func (o *Orbits) Reset() {
	o.last = 0
	o.seen = false
	o.orbits = 0
}
