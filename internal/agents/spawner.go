// Agent spawning — places the initial population on the lattice,
// choosing occupied cells without replacement.
package agents

import (
	"fmt"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/lattice"
)

// Placement selects how occupied cells are chosen.
type Placement uint8

const (
	// PlacementUniform picks cells uniformly at random.
	PlacementUniform Placement = iota
	// PlacementClustered weights cell choice by a smooth noise field,
	// giving the population neighborhood structure.
	PlacementClustered
)

// ParsePlacement maps a config string to a Placement.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "", "uniform":
		return PlacementUniform, nil
	case "clustered":
		return PlacementClustered, nil
	}
	return 0, fmt.Errorf("unknown placement %q (want uniform or clustered)", s)
}

// clusterFrequency controls the spatial scale of the clustered density
// field relative to cell size.
const clusterFrequency = 0.12

// Spawner creates the initial agent population.
type Spawner struct {
	rng    *entropy.Source
	nextID AgentID
}

// NewSpawner creates a spawner drawing from the given source.
func NewSpawner(rng *entropy.Source) *Spawner {
	return &Spawner{rng: rng, nextID: 1}
}

// SpawnPopulation creates count susceptible agents on distinct cells of
// the grid. Every agent starts with the default contact chance and the
// initial per-contact infection probability.
func (s *Spawner) SpawnPopulation(grid lattice.Torus, count int, placement Placement, contactChance, infectProbability float64) ([]*Agent, error) {
	if count > grid.CellCount() {
		return nil, fmt.Errorf("cannot place %d agents on %d cells", count, grid.CellCount())
	}

	cells := s.pickCells(grid, count, placement)
	all := make([]*Agent, 0, count)
	for _, c := range cells {
		all = append(all, &Agent{
			ID:                s.nextID,
			Position:          c,
			Compartment:       Susceptible,
			ContactChance:     contactChance,
			InfectProbability: infectProbability,
		})
		s.nextID++
	}
	return all, nil
}

func (s *Spawner) pickCells(grid lattice.Torus, count int, placement Placement) []lattice.Coord {
	switch placement {
	case PlacementClustered:
		return s.pickClustered(grid, count)
	default:
		return s.pickUniform(grid, count)
	}
}

// pickUniform takes the first count cells of a random permutation —
// sampling without replacement.
func (s *Spawner) pickUniform(grid lattice.Torus, count int) []lattice.Coord {
	perm := s.rng.Perm(grid.CellCount())
	cells := make([]lattice.Coord, count)
	for i := 0; i < count; i++ {
		cells[i] = grid.Coord(perm[i])
	}
	return cells
}

// pickClustered scores each cell with a simplex noise field plus a
// small random jitter and keeps the count highest-scoring cells. Still
// without replacement: each cell is scored once.
func (s *Spawner) pickClustered(grid lattice.Torus, count int) []lattice.Coord {
	noise := opensimplex.NewNormalized(s.rng.Seed())

	type scored struct {
		cell  lattice.Coord
		score float64
	}
	all := make([]scored, grid.CellCount())
	for i := range all {
		c := grid.Coord(i)
		v := noise.Eval2(float64(c.X)*clusterFrequency, float64(c.Y)*clusterFrequency)
		all[i] = scored{cell: c, score: v + s.rng.Float()*0.25}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return grid.Index(all[i].cell) < grid.Index(all[j].cell)
	})

	cells := make([]lattice.Coord, count)
	for i := 0; i < count; i++ {
		cells[i] = all[i].cell
	}
	return cells
}
