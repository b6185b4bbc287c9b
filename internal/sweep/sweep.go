// Package sweep runs batch experiments: a cartesian product of
// parameter axes, each point run for several replicate seeds, final
// outcomes handed to the caller. The sweep is a pure external consumer
// of the engine — it only calls NewSimulation and Step.
package sweep

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/contagion/internal/engine"
)

// Axis is one swept parameter: a name for reporting and an Apply hook
// that writes a value into a config copy.
type Axis struct {
	Name   string
	Values []float64
	Apply  func(cfg *engine.Config, v float64)
}

// Experiment declares a full sweep over a base configuration.
type Experiment struct {
	Name string
	Base engine.Config
	Axes []Axis

	// Replicates runs each parameter point this many times with
	// derived seeds (minimum 1).
	Replicates int
}

// Result is the outcome of one run at one parameter point.
type Result struct {
	RunID  string
	Point  map[string]float64
	Config engine.Config
	Out    engine.Outcome
}

// Run executes every point of the experiment and calls onResult for
// each finished run. The first error from a run or the callback stops
// the sweep.
func (e Experiment) Run(onResult func(Result) error) error {
	if len(e.Axes) == 0 {
		return fmt.Errorf("experiment %q has no axes", e.Name)
	}
	for _, ax := range e.Axes {
		if len(ax.Values) == 0 {
			return fmt.Errorf("axis %q of experiment %q has no values", ax.Name, e.Name)
		}
		if ax.Apply == nil {
			return fmt.Errorf("axis %q of experiment %q has no apply hook", ax.Name, e.Name)
		}
	}

	reps := e.Replicates
	if reps < 1 {
		reps = 1
	}

	points := e.enumerate()
	slog.Info("sweep starting",
		"experiment", e.Name,
		"points", len(points),
		"replicates", reps,
		"runs", len(points)*reps,
	)

	for pi, point := range points {
		for rep := 0; rep < reps; rep++ {
			cfg := e.Base
			for _, ax := range e.Axes {
				ax.Apply(&cfg, point[ax.Name])
			}
			// Seeds are derived, not drawn, so a sweep replays exactly.
			cfg.Seed = e.Base.Seed + int64(pi)*1_000_003 + int64(rep)

			sim, err := engine.NewSimulation(cfg)
			if err != nil {
				return fmt.Errorf("point %v replicate %d: %w", point, rep, err)
			}
			for sim.Step() {
			}

			res := Result{
				RunID:  uuid.NewString(),
				Point:  point,
				Config: cfg,
				Out:    sim.Outcome(),
			}
			if err := onResult(res); err != nil {
				return err
			}
		}
	}
	return nil
}

// enumerate builds the cartesian product of all axis values, in
// declaration order so sweeps are reproducible.
func (e Experiment) enumerate() []map[string]float64 {
	points := []map[string]float64{{}}
	for _, ax := range e.Axes {
		next := make([]map[string]float64, 0, len(points)*len(ax.Values))
		for _, p := range points {
			for _, v := range ax.Values {
				q := make(map[string]float64, len(p)+1)
				for k, pv := range p {
					q[k] = pv
				}
				q[ax.Name] = v
				next = append(next, q)
			}
		}
		points = next
	}
	return points
}
