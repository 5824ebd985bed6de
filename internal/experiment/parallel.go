package experiment

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/parallax/internal/sim"
)

// Outcome is the result of one experiment in an ensemble. Result is only
// set when the frames were asked for.
type Outcome struct {
	Config  Config
	Final   sim.Frame
	Result  *sim.Result
	Metrics map[string]float64
}

type RunOptions struct {
	// Workers caps the experiments running at once. Zero means GOMAXPROCS.
	Workers    int
	KeepFrames bool
}

// RunAll runs the configs on a bounded set of goroutines and returns the
// outcomes in input order. The first failure cancels the rest and is
// returned.
func RunAll(ctx context.Context, cfgs []Config, opts RunOptions) ([]Outcome, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range cfgs {
		g.Go(func() error {
			exp, err := New(cfg)
			if err != nil {
				return err
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			o := Outcome{
				Config:  cfg,
				Final:   result.Frames[len(result.Frames)-1],
				Metrics: exp.Metrics(),
			}
			if opts.KeepFrames {
				o.Result = result
			}
			outcomes[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
