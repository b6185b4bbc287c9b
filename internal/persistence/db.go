// Package persistence provides SQLite-based storage for run records,
// per-tick trajectories and final outcomes.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/contagion/internal/engine"
)

// DB wraps a SQLite connection for experiment storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		experiment TEXT NOT NULL DEFAULT '',
		point_json TEXT NOT NULL DEFAULT '{}',
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		final_tick INTEGER NOT NULL,
		extinct INTEGER NOT NULL,
		peak_infected INTEGER NOT NULL,
		attack_rate REAL NOT NULL,
		susceptible INTEGER NOT NULL,
		infected INTEGER NOT NULL,
		removed INTEGER NOT NULL,
		dead INTEGER NOT NULL,
		ss REAL NOT NULL, si REAL NOT NULL, sr REAL NOT NULL,
		ii REAL NOT NULL, ir REAL NOT NULL, rr REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ticks (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		susceptible INTEGER NOT NULL,
		infected INTEGER NOT NULL,
		removed INTEGER NOT NULL,
		dead INTEGER NOT NULL,
		ss REAL NOT NULL, si REAL NOT NULL, sr REAL NOT NULL,
		ii REAL NOT NULL, ir REAL NOT NULL, rr REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_experiment ON runs(experiment);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun records a finished run's configuration and outcome. The
// experiment name and point describe the sweep position; both are
// empty for standalone runs.
func (db *DB) SaveRun(id, experiment string, point map[string]float64, cfg engine.Config, out engine.Outcome) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if point == nil {
		point = map[string]float64{}
	}
	pointJSON, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("encode point: %w", err)
	}

	extinct := 0
	if out.Extinct {
		extinct = 1
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO runs
		(id, created_at, experiment, point_json, seed, config_json,
		 final_tick, extinct, peak_infected, attack_rate,
		 susceptible, infected, removed, dead,
		 ss, si, sr, ii, ir, rr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), experiment, string(pointJSON),
		cfg.Seed, string(cfgJSON),
		out.FinalTick, extinct, out.PeakInfected, out.AttackRate,
		out.Counts.Susceptible, out.Counts.Infected, out.Counts.Removed, out.Counts.Dead,
		out.Contacts.SS, out.Contacts.SI, out.Contacts.SR,
		out.Contacts.II, out.Contacts.IR, out.Contacts.RR,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", id, err)
	}
	return nil
}

// SaveTrajectory writes a run's per-tick records in one transaction.
func (db *DB) SaveTrajectory(runID string, points []engine.TickPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO ticks
		(run_id, tick, susceptible, infected, removed, dead, ss, si, sr, ii, ir, rr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.Exec(
			runID, p.Tick,
			p.Counts.Susceptible, p.Counts.Infected, p.Counts.Removed, p.Counts.Dead,
			p.Contacts.SS, p.Contacts.SI, p.Contacts.SR,
			p.Contacts.II, p.Contacts.IR, p.Contacts.RR,
		)
		if err != nil {
			return fmt.Errorf("insert tick %d of run %s: %w", p.Tick, runID, err)
		}
	}

	return tx.Commit()
}

// LoadTrajectory reads a run's per-tick records back in tick order.
func (db *DB) LoadTrajectory(runID string) ([]engine.TickPoint, error) {
	rows, err := db.conn.Queryx(
		`SELECT tick, susceptible, infected, removed, dead, ss, si, sr, ii, ir, rr
		 FROM ticks WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("load trajectory %s: %w", runID, err)
	}
	defer rows.Close()

	var points []engine.TickPoint
	for rows.Next() {
		var p engine.TickPoint
		err := rows.Scan(
			&p.Tick,
			&p.Counts.Susceptible, &p.Counts.Infected, &p.Counts.Removed, &p.Counts.Dead,
			&p.Contacts.SS, &p.Contacts.SI, &p.Contacts.SR,
			&p.Contacts.II, &p.Contacts.IR, &p.Contacts.RR,
		)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RunSummary is one row of the runs table, as recorded.
type RunSummary struct {
	ID           string  `db:"id"`
	Experiment   string  `db:"experiment"`
	PointJSON    string  `db:"point_json"`
	Seed         int64   `db:"seed"`
	FinalTick    int     `db:"final_tick"`
	Extinct      bool    `db:"extinct"`
	PeakInfected int     `db:"peak_infected"`
	AttackRate   float64 `db:"attack_rate"`
	Dead         int     `db:"dead"`
	Removed      int     `db:"removed"`
}

// LoadRuns returns the recorded runs for an experiment (all runs when
// the name is empty).
func (db *DB) LoadRuns(experiment string) ([]RunSummary, error) {
	query := `SELECT id, experiment, point_json, seed, final_tick, extinct,
			 peak_infected, attack_rate, dead, removed FROM runs`
	args := []any{}
	if experiment != "" {
		query += ` WHERE experiment = ?`
		args = append(args, experiment)
	}
	query += ` ORDER BY created_at`

	var runs []RunSummary
	if err := db.conn.Select(&runs, query, args...); err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	return runs, nil
}
