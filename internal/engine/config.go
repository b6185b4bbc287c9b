// Package engine provides the per-tick SIR simulation: behavior
// switches, contact accounting, infection and removal transitions, and
// the run loop that drives them in a fixed phase order.
package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/talgya/contagion/internal/agents"
)

// Config is the full configuration bundle for one run. It is a value
// type: the engine copies it at setup and never hands out references.
type Config struct {
	// Lattice dimensions in cells.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Density is the fraction of cells occupied by an agent.
	Density float64 `json:"density"`

	// InitialInfected agents are promoted from the spawned population.
	InitialInfected int `json:"initial_infected"`

	// InfectProbability is the initial per-contact transmission
	// probability given to every susceptible.
	InfectProbability float64 `json:"infect_probability"`

	// RecoverProbability decides recovery vs. death when an infection
	// runs out.
	RecoverProbability float64 `json:"recover_probability"`

	// Countdown is the base illness duration in ticks. The duration an
	// agent actually draws is countdown-2 plus a uniform integer below
	// countdown/5.
	Countdown int `json:"countdown"`

	// InfectionRadius bounds which neighbors count as contacts
	// (toroidal Euclidean distance).
	InfectionRadius float64 `json:"infection_radius"`

	// ContactChance is the default per-agent probability that a
	// potential contact is realized.
	ContactChance float64 `json:"contact_chance"`

	// Social distancing: once the ever-affected fraction of the
	// population exceeds DistancingThreshold, each agent gets one
	// Bernoulli(DistancingChance) trial to reduce its contact chance to
	// ContactChance × (DistancingModifier − 0.05 + U[0,0.1)).
	SocialDistancing    bool    `json:"social_distancing"`
	DistancingThreshold float64 `json:"distancing_threshold"`
	DistancingChance    float64 `json:"distancing_chance"`
	DistancingModifier  float64 `json:"distancing_modifier"`

	// InfectedIsolation gives each infected agent one trial (same
	// adoption chance) to reduce its contact chance to
	// ContactChance × U[0,0.05).
	InfectedIsolation bool `json:"infected_isolation"`

	// Placement is "uniform" or "clustered".
	Placement string `json:"placement"`

	// MaxTicks halts the run even if infections persist.
	MaxTicks int `json:"max_ticks"`

	// Seed drives every stochastic draw. Identical config and seed
	// replay identically.
	Seed int64 `json:"seed"`
}

// Default returns a reasonable mid-size configuration.
func Default() Config {
	return Config{
		Width:               40,
		Height:              40,
		Density:             0.6,
		InitialInfected:     3,
		InfectProbability:   0.05,
		RecoverProbability:  0.7,
		Countdown:           14,
		InfectionRadius:     1.5,
		ContactChance:       0.9,
		SocialDistancing:    false,
		DistancingThreshold: 0.1,
		DistancingChance:    0.8,
		DistancingModifier:  0.3,
		InfectedIsolation:   false,
		Placement:           "uniform",
		MaxTicks:            500,
		Seed:                42,
	}
}

// AgentTarget returns the number of agents the density implies.
func (c Config) AgentTarget() int {
	return int(math.Round(c.Density * float64(c.Width*c.Height)))
}

// Validate rejects any parameter outside its domain. The engine never
// clamps: a bad value fails setup with a descriptive error.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("lattice %dx%d invalid: dimensions must be >= 1", c.Width, c.Height)
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("density %g outside [0,1]", c.Density)
	}
	if c.InitialInfected < 0 {
		return fmt.Errorf("initial infected %d negative", c.InitialInfected)
	}
	if target := c.AgentTarget(); c.InitialInfected > target {
		return fmt.Errorf("initial infected %d exceeds population %d implied by density %g",
			c.InitialInfected, target, c.Density)
	}
	if c.InfectProbability < 0 || c.InfectProbability > 1 {
		return fmt.Errorf("infect probability %g outside [0,1]", c.InfectProbability)
	}
	if c.RecoverProbability < 0 || c.RecoverProbability > 1 {
		return fmt.Errorf("recover probability %g outside [0,1]", c.RecoverProbability)
	}
	if c.Countdown < 2 {
		return fmt.Errorf("countdown %d too short: must be >= 2 ticks", c.Countdown)
	}
	if c.InfectionRadius < 0 {
		return fmt.Errorf("infection radius %g negative", c.InfectionRadius)
	}
	if c.ContactChance < 0 || c.ContactChance > 1 {
		return fmt.Errorf("contact chance %g outside [0,1]", c.ContactChance)
	}
	if c.DistancingThreshold < 0 || c.DistancingThreshold > 1 {
		return fmt.Errorf("distancing threshold %g outside [0,1]", c.DistancingThreshold)
	}
	if c.DistancingChance < 0 || c.DistancingChance > 1 {
		return fmt.Errorf("distancing chance %g outside [0,1]", c.DistancingChance)
	}
	// The lower bound keeps the reduced contact chance non-negative
	// after the −0.05 spread.
	if c.DistancingModifier < 0.05 || c.DistancingModifier > 1 {
		return fmt.Errorf("distancing modifier %g outside [0.05,1]", c.DistancingModifier)
	}
	if _, err := agents.ParsePlacement(c.Placement); err != nil {
		return err
	}
	if c.MaxTicks < 1 {
		return fmt.Errorf("max ticks %d must be >= 1", c.MaxTicks)
	}
	return nil
}

// LoadConfig reads a JSON config file over the defaults, so partial
// files only override what they name.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
