package lattice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/contagion/internal/lattice"
)

func TestNew_rejectsBadDimensions(t *testing.T) {
	_, err := lattice.New(0, 10)
	assert.Error(t, err)
	_, err = lattice.New(10, -1)
	assert.Error(t, err)
}

func TestWrap(t *testing.T) {
	grid, err := lattice.New(10, 8)
	require.NoError(t, err)

	assert.Equal(t, lattice.Coord{X: 0, Y: 0}, grid.Wrap(lattice.Coord{X: 10, Y: 8}))
	assert.Equal(t, lattice.Coord{X: 9, Y: 7}, grid.Wrap(lattice.Coord{X: -1, Y: -1}))
	assert.Equal(t, lattice.Coord{X: 3, Y: 5}, grid.Wrap(lattice.Coord{X: 3, Y: 5}))
	assert.Equal(t, lattice.Coord{X: 7, Y: 2}, grid.Wrap(lattice.Coord{X: -23, Y: 18}))
}

func TestIndexCoordRoundTrip(t *testing.T) {
	grid, err := lattice.New(7, 5)
	require.NoError(t, err)

	for i := 0; i < grid.CellCount(); i++ {
		c := grid.Coord(i)
		assert.True(t, grid.Contains(c))
		assert.Equal(t, i, grid.Index(c))
	}
}

func TestDist_wrapsAroundEdges(t *testing.T) {
	grid, err := lattice.New(10, 10)
	require.NoError(t, err)

	// Opposite corners are one diagonal step apart on a torus.
	d := grid.Dist(lattice.Coord{X: 0, Y: 0}, lattice.Coord{X: 9, Y: 9})
	assert.InDelta(t, math.Sqrt(2), d, 1e-12)

	// Straight wrap across one edge.
	d = grid.Dist(lattice.Coord{X: 0, Y: 5}, lattice.Coord{X: 9, Y: 5})
	assert.InDelta(t, 1.0, d, 1e-12)

	// Interior distance is plain Euclidean.
	d = grid.Dist(lattice.Coord{X: 2, Y: 2}, lattice.Coord{X: 5, Y: 6})
	assert.InDelta(t, 5.0, d, 1e-12)

	// Symmetry.
	a := lattice.Coord{X: 1, Y: 8}
	b := lattice.Coord{X: 7, Y: 0}
	assert.Equal(t, grid.Dist(a, b), grid.Dist(b, a))
}

func TestDiagonal_boundsAllDistances(t *testing.T) {
	grid, err := lattice.New(9, 6)
	require.NoError(t, err)

	diag := grid.Diagonal()
	for i := 0; i < grid.CellCount(); i++ {
		for j := 0; j < grid.CellCount(); j++ {
			d := grid.Dist(grid.Coord(i), grid.Coord(j))
			assert.LessOrEqual(t, d, diag)
		}
	}
}
