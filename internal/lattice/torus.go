// Package lattice provides the toroidal grid substrate the population
// lives on. Agents sit on integer cell centers; distance wraps across
// both edges.
package lattice

import (
	"fmt"
	"math"
)

// Coord is an integer cell position on the grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Torus is a finite 2-D grid with wrap-around topology.
type Torus struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// New creates a torus with the given dimensions.
func New(width, height int) (Torus, error) {
	if width < 1 || height < 1 {
		return Torus{}, fmt.Errorf("lattice dimensions %dx%d invalid: both must be >= 1", width, height)
	}
	return Torus{Width: width, Height: height}, nil
}

// CellCount returns the total number of cells.
func (t Torus) CellCount() int {
	return t.Width * t.Height
}

// Wrap maps an arbitrary coordinate onto the torus.
func (t Torus) Wrap(c Coord) Coord {
	x := c.X % t.Width
	if x < 0 {
		x += t.Width
	}
	y := c.Y % t.Height
	if y < 0 {
		y += t.Height
	}
	return Coord{X: x, Y: y}
}

// Contains reports whether the coordinate is already in canonical form.
func (t Torus) Contains(c Coord) bool {
	return c.X >= 0 && c.X < t.Width && c.Y >= 0 && c.Y < t.Height
}

// Index returns the row-major cell index of a canonical coordinate.
func (t Torus) Index(c Coord) int {
	return c.Y*t.Width + c.X
}

// Coord returns the canonical coordinate of the i-th cell in row-major
// order. Inverse of Index.
func (t Torus) Coord(i int) Coord {
	return Coord{X: i % t.Width, Y: i / t.Width}
}

// axisDelta returns the shortest separation along one wrapped axis.
func axisDelta(a, b, size int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if wrapped := size - d; wrapped < d {
		d = wrapped
	}
	return d
}

// Dist returns the toroidal Euclidean distance between two canonical
// coordinates.
func (t Torus) Dist(a, b Coord) float64 {
	dx := axisDelta(a.X, b.X, t.Width)
	dy := axisDelta(a.Y, b.Y, t.Height)
	return math.Sqrt(float64(dx*dx + dy*dy))
}

// Diagonal returns the largest possible toroidal distance on this grid.
func (t Torus) Diagonal() float64 {
	dx := t.Width / 2
	dy := t.Height / 2
	return math.Sqrt(float64(dx*dx + dy*dy))
}

// String returns a summary of the torus.
func (t Torus) String() string {
	return fmt.Sprintf("Torus(%dx%d, cells=%d)", t.Width, t.Height, t.CellCount())
}
