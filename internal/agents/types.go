// Package agents provides the agent data model and the spatially
// indexed population container.
package agents

import (
	"fmt"

	"github.com/talgya/contagion/internal/lattice"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Compartment is an agent's disease state. Transitions are monotonic
// along Susceptible → Infected → {Removed | Dead}; no state is ever
// re-entered.
type Compartment uint8

const (
	Susceptible Compartment = iota
	Infected
	Removed
	Dead

	numCompartments
)

// Valid reports whether c is a defined compartment.
func (c Compartment) Valid() bool {
	return c < numCompartments
}

// String returns the compartment name.
func (c Compartment) String() string {
	switch c {
	case Susceptible:
		return "susceptible"
	case Infected:
		return "infected"
	case Removed:
		return "removed"
	case Dead:
		return "dead"
	}
	return fmt.Sprintf("compartment(%d)", uint8(c))
}

// Agent is one individual fixed on a lattice cell. Position never
// changes after creation; only the compartment and contact behavior
// evolve.
type Agent struct {
	ID          AgentID       `json:"id"`
	Position    lattice.Coord `json:"position"`
	Compartment Compartment   `json:"compartment"`

	// ContactChance is the probability that a potential contact is
	// realized this tick. It starts at the configured default and may
	// be permanently reduced by each one-shot behavior switch.
	ContactChance float64 `json:"contact_chance"`

	// BehaviorModified gates the one-shot social-distancing switch.
	BehaviorModified bool `json:"behavior_modified"`

	// InfectProbability is meaningful only while Susceptible: the
	// per-contact transmission probability. Nothing modifies it after
	// creation in this version (the hook exists for a future
	// hygiene-style control).
	InfectProbability float64 `json:"infect_probability"`

	// Infected-only state. TicksRemaining counts down from the
	// randomized illness duration; InfectedBehaviorModified gates the
	// one-shot isolation switch.
	TicksRemaining           int  `json:"ticks_remaining"`
	InfectedBehaviorModified bool `json:"infected_behavior_modified"`

	// Pending transition markers. Set by a tick's decision passes and
	// cleared by the apply pass before the next tick begins.
	MarkedForInfection bool `json:"-"`
	MarkedForRemoval   bool `json:"-"`
	MarkedForDeath     bool `json:"-"`
}

// Marked reports whether any pending transition marker is set.
func (a *Agent) Marked() bool {
	return a.MarkedForInfection || a.MarkedForRemoval || a.MarkedForDeath
}
