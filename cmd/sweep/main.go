// Command sweep runs a batch experiment over behavior parameters and
// records final outcomes to SQLite.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/persistence"
	"github.com/talgya/contagion/internal/sweep"
)

func main() {
	configPath := flag.String("config", "", "JSON base config file")
	dbPath := flag.String("db", "sweep.db", "SQLite file for recorded outcomes")
	replicates := flag.Int("replicates", 5, "runs per parameter point")
	name := flag.String("name", "behavior-sweep", "experiment name")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	base := engine.Default()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			slog.Error("config load failed", "error", err)
			os.Exit(1)
		}
		base = loaded
	}

	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// The canonical behavior experiment: distancing and isolation on
	// and off, across adoption thresholds.
	exp := sweep.Experiment{
		Name:       *name,
		Base:       base,
		Replicates: *replicates,
		Axes: []sweep.Axis{
			{
				Name:   "distancing",
				Values: []float64{0, 1},
				Apply: func(cfg *engine.Config, v float64) {
					cfg.SocialDistancing = v != 0
				},
			},
			{
				Name:   "isolation",
				Values: []float64{0, 1},
				Apply: func(cfg *engine.Config, v float64) {
					cfg.InfectedIsolation = v != 0
				},
			},
			{
				Name:   "threshold",
				Values: []float64{0.05, 0.1, 0.2},
				Apply: func(cfg *engine.Config, v float64) {
					cfg.DistancingThreshold = v
				},
			},
		},
	}

	type aggregate struct {
		runs    int
		dead    int
		removed int
		peak    int
	}
	agg := make(map[string]*aggregate)

	err = exp.Run(func(res sweep.Result) error {
		if err := db.SaveRun(res.RunID, exp.Name, res.Point, res.Config, res.Out); err != nil {
			return err
		}
		key := pointKey(res.Point)
		a := agg[key]
		if a == nil {
			a = &aggregate{}
			agg[key] = a
		}
		a.runs++
		a.dead += res.Out.Counts.Dead
		a.removed += res.Out.Counts.Removed
		if res.Out.PeakInfected > a.peak {
			a.peak = res.Out.PeakInfected
		}
		return nil
	})
	if err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	keys := make([]string, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%-50s %6s %10s %10s %6s\n", "point", "runs", "mean dead", "mean rmvd", "peak")
	for _, k := range keys {
		a := agg[k]
		fmt.Printf("%-50s %6d %10.1f %10.1f %6d\n",
			k, a.runs,
			float64(a.dead)/float64(a.runs),
			float64(a.removed)/float64(a.runs),
			a.peak,
		)
	}
	slog.Info("sweep recorded", "db", *dbPath, "experiment", exp.Name)
}

// pointKey renders a parameter point in stable axis order.
func pointKey(point map[string]float64) string {
	keys := make([]string, 0, len(point))
	for k := range point {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, point[k]))
	}
	return strings.Join(parts, " ")
}
