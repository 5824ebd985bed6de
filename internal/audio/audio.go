// Package audio plays a short chime each time Earth reaches point A or B.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/parallax/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// Pitches for the two apsides. A is a fifth above B.
	PitchA = 660.0
	PitchB = 440.0

	chimeDecay = 4.0 // per second
	volume     = 0.25
)

// Chime is a sim.Observer that rings on every rising edge of the highlight.
// Samples are produced by Process, either from a portaudio stream or
// directly in tests.
type Chime struct {
	Stream *portaudio.Stream

	mu      sync.Mutex
	pitch   float64
	env     float64
	time    float64
	lit     bool
	filter  [2]float64
	delay   [2][]float64
	head    int
	started bool
}

func NewChime() *Chime {
	// 0.25 second echo
	delayLen := int(float64(SampleRate) * 0.25)
	return &Chime{
		delay: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens the default output device.
func (c *Chime) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, c.Process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	c.Stream = stream
	c.started = true
	return nil
}

func (c *Chime) Stop() {
	if !c.started {
		return
	}
	c.Stream.Stop()
	c.Stream.Close()
	portaudio.Terminate()
	c.started = false
}

// OnFrame rings when the highlight switches on. Holding at A while paused
// rings once.
func (c *Chime) OnFrame(f sim.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Highlight.Active && !c.lit {
		c.pitch = PitchB
		if f.Phase < math.Pi/2 || f.Phase > 3*math.Pi/2 {
			c.pitch = PitchA
		}
		c.env = 1
		c.time = 0
	}
	c.lit = f.Highlight.Active
}

// Ringing reports whether the envelope is still audible.
func (c *Chime) Ringing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env > 1e-3
}

// Pitch is the frequency of the last chime, or zero.
func (c *Chime) Pitch() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitch
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo output buffer.
func (c *Chime) Process(out [][]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	fall := math.Exp(-chimeDecay * dt)
	for i := range out[0] {
		tone := 0.0
		if c.env > 1e-4 {
			// Fundamental plus a soft octave.
			tone = c.env * (0.8*triangle(c.time*c.pitch) + 0.2*triangle(c.time*c.pitch*2))
			c.env *= fall
		} else {
			c.env = 0
		}

		c.filter[0] = lpf(tone, 1800, dt, c.filter[0])
		c.filter[1] = lpf(tone, 1600, dt, c.filter[1])

		echoL := c.delay[0][c.head]
		echoR := c.delay[1][c.head]
		mixL := c.filter[0] + echoR*0.25
		mixR := c.filter[1] + echoL*0.25
		c.delay[0][c.head] = mixL * 0.5
		c.delay[1][c.head] = mixR * 0.5
		c.head = (c.head + 1) % len(c.delay[0])

		out[0][i] = float32(mixL * volume)
		if len(out) > 1 {
			out[1][i] = float32(mixR * volume)
		}
		c.time += dt
	}
}
