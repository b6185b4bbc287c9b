// Package report renders recorded trajectories for human consumption:
// an epidemic-curve PNG and an optional lattice movie. External to the
// engine — it only reads value snapshots.
package report

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/talgya/contagion/internal/engine"
)

// WriteCurve renders the four compartment series over time to a PNG
// file.
func WriteCurve(path string, points []engine.TickPoint) error {
	if len(points) < 2 {
		return fmt.Errorf("trajectory too short to chart: %d points", len(points))
	}

	ticks := make([]float64, len(points))
	susceptible := make([]float64, len(points))
	infected := make([]float64, len(points))
	removed := make([]float64, len(points))
	dead := make([]float64, len(points))
	for i, p := range points {
		ticks[i] = float64(p.Tick)
		susceptible[i] = float64(p.Counts.Susceptible)
		infected[i] = float64(p.Counts.Infected)
		removed[i] = float64(p.Counts.Removed)
		dead[i] = float64(p.Counts.Dead)
	}

	graph := chart.Chart{
		Width:  900,
		Height: 480,
		XAxis: chart.XAxis{
			Name: "Tick",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name: "Agents",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Susceptible",
				XValues: ticks,
				YValues: susceptible,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Infected",
				XValues: ticks,
				YValues: infected,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Removed",
				XValues: ticks,
				YValues: removed,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 128, G: 128, B: 128, A: 255}, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Dead",
				XValues: ticks,
				YValues: dead,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 20, G: 20, B: 20, A: 255}, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
