// Driver: the run loop that steps a simulation to halt.
package engine

import (
	"log/slog"
	"time"
)

// Driver repeatedly steps a simulation until it halts, with optional
// pacing and a per-tick observer hook.
type Driver struct {
	Sim *Simulation

	// Interval paces the loop in wall time; zero runs flat out.
	Interval time.Duration

	// ReportEvery logs a progress line every N ticks; zero disables.
	ReportEvery int

	// OnTick, if set, runs after every committed tick. Observers must
	// copy what they need: the callback runs on the driver's goroutine
	// between phases, so reads are consistent.
	OnTick func(sim *Simulation)
}

// Run steps the simulation until it halts and returns the final
// outcome.
func (d *Driver) Run() Outcome {
	for d.Sim.Running() {
		start := time.Now()

		d.Sim.Step()

		if d.OnTick != nil {
			d.OnTick(d.Sim)
		}

		if d.ReportEvery > 0 && d.Sim.Tick()%d.ReportEvery == 0 {
			c := d.Sim.Counts()
			slog.Info("progress",
				"tick", d.Sim.Tick(),
				"susceptible", c.Susceptible,
				"infected", c.Infected,
				"removed", c.Removed,
				"dead", c.Dead,
			)
		}

		if d.Interval > 0 {
			if elapsed := time.Since(start); elapsed < d.Interval {
				time.Sleep(d.Interval - elapsed)
			}
		}
	}

	out := d.Sim.Outcome()
	slog.Info("simulation halted",
		"tick", out.FinalTick,
		"extinct", out.Extinct,
		"peak_infected", out.PeakInfected,
		"dead", out.Counts.Dead,
		"removed", out.Counts.Removed,
	)
	return out
}
