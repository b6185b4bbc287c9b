// Simulation state and setup. The per-tick phases live in
// behavior.go, contacts.go and transition.go; the run loop in
// driver.go.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/contagion/internal/agents"
	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/lattice"
)

// ContactTotals holds the six accumulated pairwise contact counters.
// Pure telemetry: the totals never feed back into the dynamics. Each
// accumulator holds an integral value (per-agent contributions are
// rounded before they are added).
type ContactTotals struct {
	SS float64 `json:"ss"`
	SI float64 `json:"si"`
	SR float64 `json:"sr"`
	II float64 `json:"ii"`
	IR float64 `json:"ir"`
	RR float64 `json:"rr"`
}

// AgentState is a value snapshot of one agent for external observers.
type AgentState struct {
	X           int                `json:"x"`
	Y           int                `json:"y"`
	Compartment agents.Compartment `json:"compartment"`
}

// TickPoint records the public state after one tick, for trajectory
// recording and reporting.
type TickPoint struct {
	Tick     int           `json:"tick"`
	Counts   agents.Counts `json:"counts"`
	Contacts ContactTotals `json:"contacts"`
}

// Outcome summarizes a finished (or in-progress) run.
type Outcome struct {
	FinalTick    int           `json:"final_tick"`
	Counts       agents.Counts `json:"counts"`
	Contacts     ContactTotals `json:"contacts"`
	PeakInfected int           `json:"peak_infected"`
	// AttackRate is the fraction of the population ever infected.
	AttackRate float64 `json:"attack_rate"`
	// Extinct is true when the run halted because no infected agents
	// remained (rather than hitting the tick limit).
	Extinct bool `json:"extinct"`
}

// Simulation owns the complete run state: population, lattice, random
// source, tick counter and the contact accumulators. All mutation goes
// through Step; queries return value types only.
type Simulation struct {
	cfg  Config
	grid lattice.Torus
	pop  *agents.Population
	rng  *entropy.Source

	tick         int
	running      bool
	contacts     ContactTotals
	peakInfected int
}

// NewSimulation validates the configuration and builds the initial
// population: susceptibles placed without replacement, then the
// configured number promoted to infected with randomized countdowns.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	grid, err := lattice.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	rng := entropy.NewSource(cfg.Seed)
	placement, _ := agents.ParsePlacement(cfg.Placement)

	spawner := agents.NewSpawner(rng.Derive(300))
	all, err := spawner.SpawnPopulation(grid, cfg.AgentTarget(), placement, cfg.ContactChance, cfg.InfectProbability)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	pop, err := agents.NewPopulation(grid, all)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	s := &Simulation{
		cfg:     cfg,
		grid:    grid,
		pop:     pop,
		rng:     rng,
		running: true,
	}

	// Seed the outbreak: a uniform subset of the spawned agents.
	for _, idx := range rng.Perm(len(all))[:cfg.InitialInfected] {
		s.promote(all[idx])
	}
	s.peakInfected = cfg.InitialInfected
	s.updateRunning()

	slog.Debug("simulation ready",
		"grid", grid.String(),
		"agents", len(all),
		"infected", cfg.InitialInfected,
		"seed", cfg.Seed,
	)
	return s, nil
}

// promote turns a susceptible into an infected with a fresh countdown.
// Used for both outbreak seeding and per-tick infections.
func (s *Simulation) promote(a *agents.Agent) {
	s.pop.Transition(a, agents.Infected)
	a.TicksRemaining = s.drawCountdown()
	a.InfectedBehaviorModified = false
}

// drawCountdown returns a randomized illness duration:
// countdown−2 plus a uniform integer below countdown/5.
func (s *Simulation) drawCountdown() int {
	span := s.cfg.Countdown / 5
	if span < 1 {
		span = 1
	}
	return s.cfg.Countdown - 2 + s.rng.Intn(span)
}

// Step executes exactly one tick in the fixed phase order and reports
// whether the simulation is still running. Calling Step on a halted
// simulation is a no-op.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}

	s.applyBehaviorChanges()
	s.accumulateContacts()
	s.decideInfections()
	s.decideRemovals()
	s.applyTransitions()

	s.tick++
	if inf := s.pop.Counts().Infected; inf > s.peakInfected {
		s.peakInfected = inf
	}
	s.updateRunning()
	return s.running
}

func (s *Simulation) updateRunning() {
	if s.tick >= s.cfg.MaxTicks || s.pop.Counts().Infected == 0 {
		s.running = false
	}
}

// everAffected is the number of agents that have ever left the
// susceptible compartment. Monotonic, since no compartment is
// re-entered.
func (s *Simulation) everAffected() int {
	c := s.pop.Counts()
	return c.Infected + c.Removed + c.Dead
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int {
	return s.tick
}

// Running reports whether the next Step will advance the simulation.
func (s *Simulation) Running() bool {
	return s.running
}

// Config returns a copy of the active configuration.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Counts returns the current per-compartment population counts.
func (s *Simulation) Counts() agents.Counts {
	return s.pop.Counts()
}

// Contacts returns the six accumulated contact totals.
func (s *Simulation) Contacts() ContactTotals {
	return s.contacts
}

// Point returns the trajectory record for the current tick.
func (s *Simulation) Point() TickPoint {
	return TickPoint{Tick: s.tick, Counts: s.Counts(), Contacts: s.contacts}
}

// Outcome summarizes the run so far.
func (s *Simulation) Outcome() Outcome {
	c := s.pop.Counts()
	affected := c.Infected + c.Removed + c.Dead
	rate := 0.0
	if total := c.Total(); total > 0 {
		rate = float64(affected) / float64(total)
	}
	return Outcome{
		FinalTick:    s.tick,
		Counts:       c,
		Contacts:     s.contacts,
		PeakInfected: s.peakInfected,
		AttackRate:   rate,
		Extinct:      c.Infected == 0,
	}
}

// Snapshot returns value copies of every agent's position and
// compartment, for grid observers and frame rendering.
func (s *Simulation) Snapshot() []AgentState {
	out := make([]AgentState, 0, len(s.pop.All))
	for _, a := range s.pop.All {
		out = append(out, AgentState{X: a.Position.X, Y: a.Position.Y, Compartment: a.Compartment})
	}
	return out
}

// Grid returns the lattice dimensions.
func (s *Simulation) Grid() lattice.Torus {
	return s.grid
}
