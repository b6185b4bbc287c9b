package agents

import (
	"fmt"

	"github.com/talgya/contagion/internal/lattice"
)

// Counts holds the number of agents in each compartment. A value type,
// safe to hand to external observers.
type Counts struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Removed     int `json:"removed"`
	Dead        int `json:"dead"`
}

// Total returns the population size.
func (c Counts) Total() int {
	return c.Susceptible + c.Infected + c.Removed + c.Dead
}

// Population holds every agent plus the per-cell occupancy index used
// for neighbor queries. Agents never move and are never deleted, so
// the index is built once.
type Population struct {
	Grid lattice.Torus
	All  []*Agent

	byCell map[lattice.Coord]*Agent
	counts [numCompartments]int
}

// NewPopulation indexes a freshly spawned agent list. It fails if two
// agents share a cell or a position is off-grid.
func NewPopulation(grid lattice.Torus, all []*Agent) (*Population, error) {
	p := &Population{
		Grid:   grid,
		All:    all,
		byCell: make(map[lattice.Coord]*Agent, len(all)),
	}
	for _, a := range all {
		if !grid.Contains(a.Position) {
			return nil, fmt.Errorf("agent %d at %v is outside %s", a.ID, a.Position, grid)
		}
		if other, taken := p.byCell[a.Position]; taken {
			return nil, fmt.Errorf("agents %d and %d both occupy cell %v", other.ID, a.ID, a.Position)
		}
		p.byCell[a.Position] = a
		if !a.Compartment.Valid() {
			return nil, fmt.Errorf("agent %d has undefined compartment %d", a.ID, a.Compartment)
		}
		p.counts[a.Compartment]++
	}
	return p, nil
}

// At returns the occupant of a canonical cell, or nil.
func (p *Population) At(c lattice.Coord) *Agent {
	return p.byCell[c]
}

// Counts returns the current per-compartment totals.
func (p *Population) Counts() Counts {
	return Counts{
		Susceptible: p.counts[Susceptible],
		Infected:    p.counts[Infected],
		Removed:     p.counts[Removed],
		Dead:        p.counts[Dead],
	}
}

// Transition moves an agent to a new compartment, keeping the counts
// current. Only the forward SIR edges are legal; anything else is a
// programming error and panics.
func (p *Population) Transition(a *Agent, to Compartment) {
	from := a.Compartment
	legal := (from == Susceptible && to == Infected) ||
		(from == Infected && (to == Removed || to == Dead))
	if !legal {
		panic(fmt.Sprintf("illegal compartment transition %s → %s for agent %d", from, to, a.ID))
	}
	p.counts[from]--
	p.counts[to]++
	a.Compartment = to
}

// CountNeighbors returns the exact number of agents in the given
// compartment whose toroidal distance from a's cell is <= radius.
// With excludeSelf the agent itself is not counted. Radius 0 sees only
// the agent's own cell; radii beyond the grid diagonal see everyone.
func (p *Population) CountNeighbors(a *Agent, radius float64, c Compartment, excludeSelf bool) int {
	if radius < 0 {
		return 0
	}
	xs := axisOffsets(radius, p.Grid.Width)
	ys := axisOffsets(radius, p.Grid.Height)

	n := 0
	for _, dy := range ys {
		for _, dx := range xs {
			cell := p.Grid.Wrap(lattice.Coord{X: a.Position.X + dx, Y: a.Position.Y + dy})
			occ := p.byCell[cell]
			if occ == nil || occ.Compartment != c {
				continue
			}
			if excludeSelf && occ == a {
				continue
			}
			if p.Grid.Dist(a.Position, cell) <= radius {
				n++
			}
		}
	}
	return n
}

// axisOffsets lists the cell offsets along one axis that could fall
// within radius. When the radius spans the whole axis each cell must
// appear exactly once, so the list collapses to one full pass.
func axisOffsets(radius float64, size int) []int {
	span := int(radius) + 1
	if 2*span+1 >= size {
		out := make([]int, size)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, 2*span+1)
	for d := -span; d <= span; d++ {
		out = append(out, d)
	}
	return out
}
