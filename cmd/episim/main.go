// Command episim runs one epidemic simulation to halt, optionally
// recording the trajectory to SQLite, rendering a curve chart and a
// lattice movie, and serving a read-only observer API while running.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/contagion/internal/api"
	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/persistence"
	"github.com/talgya/contagion/internal/report"
)

func main() {
	configPath := flag.String("config", "", "JSON config file (defaults apply to unset fields)")
	seed := flag.Int64("seed", -1, "override the config seed (-1 keeps it)")
	dbPath := flag.String("db", "", "SQLite file to record the run into")
	chartPath := flag.String("chart", "", "PNG file for the epidemic curve")
	videoPath := flag.String("video", "", "AVI file for the lattice movie")
	apiPort := flag.Int("api", 0, "serve the observer API on this port (0 = off)")
	interval := flag.Duration("interval", 0, "wall-time pacing per tick (0 = flat out)")
	reportEvery := flag.Int("report", 25, "log progress every N ticks (0 = off)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := engine.Default()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			slog.Error("config load failed", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}

	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		slog.Error("setup failed", "error", err)
		os.Exit(1)
	}

	counts := sim.Counts()
	slog.Info("population ready",
		"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"agents", humanize.Comma(int64(counts.Total())),
		"infected", counts.Infected,
		"seed", cfg.Seed,
	)

	var db *persistence.DB
	if *dbPath != "" {
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var video *report.VideoRecorder
	if *videoPath != "" {
		video, err = report.NewVideoRecorder(*videoPath, sim.Grid(), 6, 10)
		if err != nil {
			slog.Error("video setup failed", "error", err)
			os.Exit(1)
		}
		defer video.Close()
	}

	var observer *api.Server
	if *apiPort > 0 {
		observer = &api.Server{Port: *apiPort}
		observer.Publish(sim)
		observer.Start()
	}

	// Record the initial state as tick 0.
	trajectory := []engine.TickPoint{sim.Point()}

	driver := &engine.Driver{
		Sim:         sim,
		Interval:    *interval,
		ReportEvery: *reportEvery,
		OnTick: func(sim *engine.Simulation) {
			trajectory = append(trajectory, sim.Point())
			if observer != nil {
				observer.Publish(sim)
			}
			if video != nil {
				if err := video.AddFrame(sim.Snapshot()); err != nil {
					slog.Error("video frame failed", "error", err)
				}
			}
		},
	}

	start := time.Now()
	out := driver.Run()

	slog.Info("run complete",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"attack_rate", fmt.Sprintf("%.3f", out.AttackRate),
		"si_contacts", humanize.Commaf(out.Contacts.SI),
		"ss_contacts", humanize.Commaf(out.Contacts.SS),
	)

	if db != nil {
		runID := uuid.NewString()
		if err := db.SaveRun(runID, "", nil, cfg, out); err != nil {
			slog.Error("run save failed", "error", err)
			os.Exit(1)
		}
		if err := db.SaveTrajectory(runID, trajectory); err != nil {
			slog.Error("trajectory save failed", "error", err)
			os.Exit(1)
		}
		slog.Info("run recorded", "run_id", runID, "db", *dbPath)
	}

	if *chartPath != "" {
		if err := report.WriteCurve(*chartPath, trajectory); err != nil {
			slog.Error("chart failed", "error", err)
			os.Exit(1)
		}
		slog.Info("chart written", "path", *chartPath)
	}
}
