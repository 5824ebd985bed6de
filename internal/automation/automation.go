package automation

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/parallax/internal/analysis"
	"github.com/san-kum/parallax/internal/experiment"
	"github.com/san-kum/parallax/internal/logging"
	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/storage"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Unset fields keep the value
// from the previous step.
type ScenarioStep struct {
	DistanceX *float64 `yaml:"distance_x"`
	DistanceY *float64 `yaml:"distance_y"`
	Speed     *float64 `yaml:"speed"`
	Frames    int      `yaml:"frames"`
	SaveAs    string   `yaml:"save_as"`
}

// StepResult summarises one executed step.
type StepResult struct {
	Step    int
	Name    string
	RunID   string
	Frames  int
	Config  sim.Config
	Metrics map[string]float64
}

// Options controls where scenario and sweep output goes. A nil Store skips
// saving.
type Options struct {
	Store  *storage.Store
	Seed   int64
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// OrbitFrames is the number of frames needed to complete one orbit.
func OrbitFrames(speed float64) int {
	return int(math.Ceil(analysis.OrbitPeriod(speed)))
}

// RunScenario executes all steps in order, starting from base. Each step
// runs with the orbit playing from point A.
func RunScenario(ctx context.Context, scenario *Scenario, base sim.Config, opts Options) ([]StepResult, error) {
	logger := opts.logger()
	results := make([]StepResult, 0, len(scenario.Steps))

	cfg := base
	cfg.Playing = true
	for i, step := range scenario.Steps {
		if step.DistanceX != nil {
			cfg.DistanceX = *step.DistanceX
		}
		if step.DistanceY != nil {
			cfg.DistanceY = *step.DistanceY
		}
		if step.Speed != nil {
			cfg.Speed = *step.Speed
		}
		frames := step.Frames
		if frames <= 0 {
			frames = OrbitFrames(cfg.Speed)
		}
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-step%d", scenario.Name, i+1)
		}

		logger.Info("running step", "step", i+1, "of", len(scenario.Steps),
			"name", name, "distance_x", cfg.DistanceX, "distance_y", cfg.DistanceY, "speed", cfg.Speed)

		exp, err := experiment.New(experiment.Config{Name: name, Sim: cfg, Frames: frames, Seed: opts.Seed})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{
			Step:    i + 1,
			Name:    name,
			Frames:  len(result.Frames),
			Config:  cfg,
			Metrics: exp.Metrics(),
		}
		if opts.Store != nil {
			sr.RunID, err = opts.Store.Save(name, opts.Seed, result, sr.Metrics)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			logger.Debug("saved step", "run", sr.RunID)
		}

		results = append(results, sr)
	}

	return results, nil
}

// DistanceSweep runs the simulator across a range of distances for one star
type DistanceSweep struct {
	Star     sim.StarID
	Min      float64
	Max      float64
	NumSteps int
	// Frames per run; zero means one orbit.
	Frames int
}

// SweepResult holds the measurements for one distance
type SweepResult struct {
	Distance float64
	Parallax float64 // arcseconds
	// OffsetRange is the peak-to-peak shift on the reference strip and
	// ShiftAngle the same shift in degrees of sky.
	OffsetRange float64
	ShiftAngle  float64
}

// RunSweep executes a distance sweep on top of base. The runs are
// independent and execute concurrently.
func RunSweep(ctx context.Context, sweep *DistanceSweep, base sim.Config, opts Options) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if sweep.Max < sweep.Min {
		return nil, fmt.Errorf("sweep range [%.2f, %.2f] is empty", sweep.Min, sweep.Max)
	}
	logger := opts.logger()
	results := make([]SweepResult, 0, sweep.NumSteps)

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	cfg := base
	cfg.Playing = true
	frames := sweep.Frames
	if frames <= 0 {
		frames = OrbitFrames(cfg.Speed)
	}

	cfgs := make([]experiment.Config, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		d := sweep.Min + float64(i)*step
		switch sweep.Star {
		case sim.StarX:
			cfg.DistanceX = d
		case sim.StarY:
			cfg.DistanceY = d
		default:
			return nil, fmt.Errorf("%w: %v", sim.ErrUnknownStar, sweep.Star)
		}
		cfgs = append(cfgs, experiment.Config{
			Name:   fmt.Sprintf("sweep-%v-%.2f", sweep.Star, d),
			Sim:    cfg,
			Frames: frames,
			Seed:   opts.Seed,
		})
	}

	logger.Debug("sweep", "star", sweep.Star, "steps", sweep.NumSteps, "frames", frames)
	outcomes, err := experiment.RunAll(ctx, cfgs, experiment.RunOptions{})
	if err != nil {
		return nil, err
	}

	key := "offset_range_" + strings.ToLower(sweep.Star.String())
	for _, o := range outcomes {
		rng := o.Metrics[key]
		star := o.Final.Star(sweep.Star)
		results = append(results, SweepResult{
			Distance:    star.Distance,
			Parallax:    star.Parallax,
			OffsetRange: rng,
			ShiftAngle:  rng / sim.ReferenceStripWidth * 360,
		})
	}

	return results, nil
}
