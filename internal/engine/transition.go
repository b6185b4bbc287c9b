// Transition phases: infection and removal decisions, staged with
// mark-then-apply so every agent's decision sees the state as it
// existed when the phase began.
package engine

import (
	"fmt"
	"math"

	"github.com/talgya/contagion/internal/agents"
)

// decideInfections marks each susceptible for promotion with
// probability 1 − (1−p)^k, where p is the agent's own infection
// probability and k the infected neighbor count scaled by the agent's
// contact chance. k is real-valued; the fractional exponent is
// intentional, not an integer-contact approximation.
func (s *Simulation) decideInfections() {
	for _, a := range s.pop.All {
		if a.Compartment != agents.Susceptible {
			continue
		}
		n := s.pop.CountNeighbors(a, s.cfg.InfectionRadius, agents.Infected, true)
		if n == 0 {
			continue
		}
		k := float64(n) * a.ContactChance
		pInfect := 1 - math.Pow(1-a.InfectProbability, k)
		if s.rng.Bernoulli(pInfect) {
			a.MarkedForInfection = true
		}
	}
}

// decideRemovals gives each infected agent whose countdown has run out
// exactly one recovery trial: success marks removal, failure marks
// death.
func (s *Simulation) decideRemovals() {
	for _, a := range s.pop.All {
		if a.Compartment != agents.Infected || a.TicksRemaining != 0 {
			continue
		}
		if s.rng.Bernoulli(s.cfg.RecoverProbability) {
			a.MarkedForRemoval = true
		} else {
			a.MarkedForDeath = true
		}
	}
}

// applyTransitions commits the tick's staged decisions. Removal and
// death are applied first, then the countdown decrement for agents
// that stay infected, then the new infections — so a freshly drawn
// countdown is never decremented on its own tick. All markers are
// cleared here; a marker surviving into the next tick is a bug.
func (s *Simulation) applyTransitions() {
	for _, a := range s.pop.All {
		if a.Compartment != agents.Infected {
			continue
		}
		switch {
		case a.MarkedForRemoval:
			a.MarkedForRemoval = false
			s.pop.Transition(a, agents.Removed)
		case a.MarkedForDeath:
			a.MarkedForDeath = false
			s.pop.Transition(a, agents.Dead)
		default:
			a.TicksRemaining--
		}
	}

	for _, a := range s.pop.All {
		if !a.MarkedForInfection {
			continue
		}
		if a.Compartment != agents.Susceptible {
			panic(fmt.Sprintf("agent %d marked for infection while %s", a.ID, a.Compartment))
		}
		a.MarkedForInfection = false
		s.promote(a)
	}
}
