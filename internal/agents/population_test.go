package agents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/contagion/internal/agents"
	"github.com/talgya/contagion/internal/entropy"
	"github.com/talgya/contagion/internal/lattice"
)

func mustGrid(t *testing.T, w, h int) lattice.Torus {
	t.Helper()
	grid, err := lattice.New(w, h)
	require.NoError(t, err)
	return grid
}

// scatter places agents with rotating compartments on a deterministic
// random subset of cells.
func scatter(t *testing.T, grid lattice.Torus, n int, seed int64) *agents.Population {
	t.Helper()
	rng := entropy.NewSource(seed)
	perm := rng.Perm(grid.CellCount())
	comps := []agents.Compartment{agents.Susceptible, agents.Infected, agents.Removed, agents.Dead}

	all := make([]*agents.Agent, 0, n)
	for i := 0; i < n; i++ {
		all = append(all, &agents.Agent{
			ID:          agents.AgentID(i + 1),
			Position:    grid.Coord(perm[i]),
			Compartment: comps[i%len(comps)],
		})
	}
	pop, err := agents.NewPopulation(grid, all)
	require.NoError(t, err)
	return pop
}

func TestNewPopulation_rejectsDoubleOccupancy(t *testing.T) {
	grid := mustGrid(t, 5, 5)
	c := lattice.Coord{X: 2, Y: 2}
	_, err := agents.NewPopulation(grid, []*agents.Agent{
		{ID: 1, Position: c},
		{ID: 2, Position: c},
	})
	assert.Error(t, err)
}

func TestNewPopulation_rejectsOffGridPosition(t *testing.T) {
	grid := mustGrid(t, 5, 5)
	_, err := agents.NewPopulation(grid, []*agents.Agent{
		{ID: 1, Position: lattice.Coord{X: 5, Y: 0}},
	})
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	pop := scatter(t, mustGrid(t, 10, 10), 40, 1)
	c := pop.Counts()
	assert.Equal(t, 40, c.Total())
	assert.Equal(t, 10, c.Susceptible)
	assert.Equal(t, 10, c.Infected)
	assert.Equal(t, 10, c.Removed)
	assert.Equal(t, 10, c.Dead)
}

func TestTransition_updatesCounts(t *testing.T) {
	grid := mustGrid(t, 3, 3)
	a := &agents.Agent{ID: 1, Position: lattice.Coord{X: 0, Y: 0}, Compartment: agents.Susceptible}
	pop, err := agents.NewPopulation(grid, []*agents.Agent{a})
	require.NoError(t, err)

	pop.Transition(a, agents.Infected)
	assert.Equal(t, agents.Infected, a.Compartment)
	assert.Equal(t, 1, pop.Counts().Infected)

	pop.Transition(a, agents.Removed)
	assert.Equal(t, 1, pop.Counts().Removed)
	assert.Equal(t, 0, pop.Counts().Infected)
}

func TestTransition_panicsOnIllegalEdge(t *testing.T) {
	grid := mustGrid(t, 3, 3)
	a := &agents.Agent{ID: 1, Position: lattice.Coord{X: 0, Y: 0}, Compartment: agents.Removed}
	pop, err := agents.NewPopulation(grid, []*agents.Agent{a})
	require.NoError(t, err)

	assert.Panics(t, func() { pop.Transition(a, agents.Susceptible) })
	assert.Panics(t, func() { pop.Transition(a, agents.Infected) })
	assert.Panics(t, func() { pop.Transition(a, agents.Dead) })
}

// bruteCount is the obvious O(n) reference for neighbor counting.
func bruteCount(pop *agents.Population, a *agents.Agent, radius float64, c agents.Compartment, excludeSelf bool) int {
	n := 0
	for _, other := range pop.All {
		if other.Compartment != c {
			continue
		}
		if excludeSelf && other == a {
			continue
		}
		if pop.Grid.Dist(a.Position, other.Position) <= radius {
			n++
		}
	}
	return n
}

func TestCountNeighbors_matchesBruteForce(t *testing.T) {
	grid := mustGrid(t, 12, 9)
	pop := scatter(t, grid, 60, 2)

	radii := []float64{0, 1, 1.5, 2, 3.7, 5, grid.Diagonal()}
	comps := []agents.Compartment{agents.Susceptible, agents.Infected, agents.Removed, agents.Dead}

	for _, a := range pop.All {
		for _, r := range radii {
			for _, c := range comps {
				for _, excl := range []bool{true, false} {
					want := bruteCount(pop, a, r, c, excl)
					got := pop.CountNeighbors(a, r, c, excl)
					assert.Equal(t, want, got,
						"agent %d radius %g compartment %s excludeSelf %v", a.ID, r, c, excl)
				}
			}
		}
	}
}

func TestCountNeighbors_radiusZeroSeesOnlyOwnCell(t *testing.T) {
	grid := mustGrid(t, 6, 6)
	pop := scatter(t, grid, 20, 3)

	for _, a := range pop.All {
		assert.Equal(t, 0, pop.CountNeighbors(a, 0, a.Compartment, true))
		assert.Equal(t, 1, pop.CountNeighbors(a, 0, a.Compartment, false))
	}
}

func TestCountNeighbors_fullDiagonalSeesEveryone(t *testing.T) {
	grid := mustGrid(t, 8, 8)
	pop := scatter(t, grid, 30, 4)

	counts := pop.Counts()
	perComp := map[agents.Compartment]int{
		agents.Susceptible: counts.Susceptible,
		agents.Infected:    counts.Infected,
		agents.Removed:     counts.Removed,
		agents.Dead:        counts.Dead,
	}

	a := pop.All[0]
	for c, total := range perComp {
		want := total
		if a.Compartment == c {
			want--
		}
		assert.Equal(t, want, pop.CountNeighbors(a, grid.Diagonal(), c, true))
	}
}
