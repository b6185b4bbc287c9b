// Behavior-modification phase: two independent one-shot switches that
// permanently reduce an agent's contact chance.
package engine

import "github.com/talgya/contagion/internal/agents"

// applyBehaviorChanges runs the general social-distancing switch over
// every living agent, then the isolation switch over the infected.
// Both switches burn their eligibility flag whether or not the trial
// succeeds, so no agent is ever re-evaluated. An agent hit by both in
// the same tick ends up with the stricter isolation value: the
// isolation pass runs second and overwrites.
func (s *Simulation) applyBehaviorChanges() {
	if s.cfg.SocialDistancing && s.distancingTriggered() {
		for _, a := range s.pop.All {
			if a.Compartment == agents.Dead || a.BehaviorModified {
				continue
			}
			if s.rng.Bernoulli(s.cfg.DistancingChance) {
				spread := s.cfg.DistancingModifier - 0.05 + s.rng.Float()*0.1
				a.ContactChance = s.cfg.ContactChance * spread
			}
			a.BehaviorModified = true
		}
	}

	if s.cfg.InfectedIsolation {
		for _, a := range s.pop.All {
			if a.Compartment != agents.Infected || a.InfectedBehaviorModified {
				continue
			}
			if s.rng.Bernoulli(s.cfg.DistancingChance) {
				a.ContactChance = s.cfg.ContactChance * (s.rng.Float() * 0.05)
			}
			a.InfectedBehaviorModified = true
		}
	}
}

// distancingTriggered reports whether the ever-affected share of the
// population strictly exceeds the configured threshold.
func (s *Simulation) distancingTriggered() bool {
	total := s.pop.Counts().Total()
	if total == 0 {
		return false
	}
	return float64(s.everAffected()) > s.cfg.DistancingThreshold*float64(total)
}
