package metrics

import (
	"math"
	"strings"

	"github.com/san-kum/parallax/internal/sim"
)

// OffsetRange is the peak-to-peak apparent shift of one star on the
// reference strip. A full orbit gives 2 x min(p x 50, clamp).
type OffsetRange struct {
	name     string
	id       sim.StarID
	min, max float64
	samples  int
}

func NewOffsetRange(id sim.StarID) *OffsetRange {
	return &OffsetRange{
		name: "offset_range_" + strings.ToLower(id.String()),
		id:   id,
	}
}

func (o *OffsetRange) Name() string {
	return o.name
}

func (o *OffsetRange) Observe(f sim.Frame) {
	v := sim.CelestialOffset(f, o.id, sim.ReferenceStripWidth)
	if o.samples == 0 {
		o.min, o.max = v, v
	}
	o.min = math.Min(o.min, v)
	o.max = math.Max(o.max, v)
	o.samples++
}

func (o *OffsetRange) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.max - o.min
}

func (o *OffsetRange) Reset() {
	o.min, o.max = 0, 0
	o.samples = 0
}
