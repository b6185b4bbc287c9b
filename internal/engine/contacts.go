// Contact accounting: six symmetric pairwise totals accumulated every
// tick. Telemetry only — nothing here feeds back into the dynamics.
package engine

import (
	"fmt"
	"math"

	"github.com/talgya/contagion/internal/agents"
)

// accumulateContacts adds each agent's realized contact volume to the
// pairwise accumulators. Susceptible-centered totals carry the caution
// weight p/p_init (1.0 while nothing modifies per-agent infection
// probability). Same-compartment totals are halved so each unordered
// pair counts once — with independent weights per side that makes a
// pair's contribution the average of the two agents' weights. Each
// agent's contribution is rounded to the nearest integer before it is
// added; the rounding is deliberately per-agent, which matters for
// small populations.
func (s *Simulation) accumulateContacts() {
	r := s.cfg.InfectionRadius
	for _, a := range s.pop.All {
		switch a.Compartment {
		case agents.Susceptible:
			w := s.cautionWeight(a)
			nI := s.pop.CountNeighbors(a, r, agents.Infected, true)
			nR := s.pop.CountNeighbors(a, r, agents.Removed, true)
			nS := s.pop.CountNeighbors(a, r, agents.Susceptible, true)
			s.contacts.SI += math.Round(float64(nI) * w * a.ContactChance)
			s.contacts.SR += math.Round(float64(nR) * w * a.ContactChance)
			s.contacts.SS += math.Round(float64(nS) / 2 * w * a.ContactChance)
		case agents.Infected:
			nI := s.pop.CountNeighbors(a, r, agents.Infected, true)
			nR := s.pop.CountNeighbors(a, r, agents.Removed, true)
			s.contacts.II += math.Round(float64(nI) / 2 * a.ContactChance)
			s.contacts.IR += math.Round(float64(nR) * a.ContactChance)
		case agents.Removed:
			nR := s.pop.CountNeighbors(a, r, agents.Removed, true)
			s.contacts.RR += math.Round(float64(nR) / 2 * a.ContactChance)
		case agents.Dead:
			// The dead make no contacts.
		default:
			panic(fmt.Sprintf("agent %d in undefined compartment %d", a.ID, a.Compartment))
		}
	}
}

// cautionWeight normalizes a susceptible's infection probability
// against the configured initial value. A future control that lowers
// per-agent infection probability shrinks the accounted contact
// benefit through this weight.
func (s *Simulation) cautionWeight(a *agents.Agent) float64 {
	if s.cfg.InfectProbability == 0 {
		return 1
	}
	return a.InfectProbability / s.cfg.InfectProbability
}
