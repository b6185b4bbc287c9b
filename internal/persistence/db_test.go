package persistence_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/contagion/internal/agents"
	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/persistence"
)

func openTestDB(t *testing.T) *persistence.DB {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleOutcome() engine.Outcome {
	return engine.Outcome{
		FinalTick:    42,
		Counts:       agents.Counts{Susceptible: 10, Infected: 0, Removed: 25, Dead: 5},
		Contacts:     engine.ContactTotals{SS: 100, SI: 50, SR: 30, II: 20, IR: 10, RR: 5},
		PeakInfected: 18,
		AttackRate:   0.75,
		Extinct:      true,
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	cfg := engine.Default()

	id := uuid.NewString()
	point := map[string]float64{"threshold": 0.1, "distancing": 1}
	require.NoError(t, db.SaveRun(id, "exp-a", point, cfg, sampleOutcome()))

	runs, err := db.LoadRuns("exp-a")
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "exp-a", r.Experiment)
	assert.Equal(t, cfg.Seed, r.Seed)
	assert.Equal(t, 42, r.FinalTick)
	assert.True(t, r.Extinct)
	assert.Equal(t, 18, r.PeakInfected)
	assert.Equal(t, 5, r.Dead)
	assert.Equal(t, 25, r.Removed)
	assert.InDelta(t, 0.75, r.AttackRate, 1e-12)
	assert.Contains(t, r.PointJSON, "threshold")
}

func TestLoadRuns_filtersByExperiment(t *testing.T) {
	db := openTestDB(t)
	cfg := engine.Default()

	require.NoError(t, db.SaveRun(uuid.NewString(), "exp-a", nil, cfg, sampleOutcome()))
	require.NoError(t, db.SaveRun(uuid.NewString(), "exp-b", nil, cfg, sampleOutcome()))

	runs, err := db.LoadRuns("exp-b")
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	all, err := db.LoadRuns("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTrajectoryRoundTrip(t *testing.T) {
	db := openTestDB(t)

	id := uuid.NewString()
	points := []engine.TickPoint{
		{Tick: 0, Counts: agents.Counts{Susceptible: 39, Infected: 1}},
		{Tick: 1, Counts: agents.Counts{Susceptible: 36, Infected: 4},
			Contacts: engine.ContactTotals{SS: 12, SI: 3}},
		{Tick: 2, Counts: agents.Counts{Susceptible: 30, Infected: 9, Removed: 1},
			Contacts: engine.ContactTotals{SS: 25, SI: 9, II: 2}},
	}
	require.NoError(t, db.SaveTrajectory(id, points))

	loaded, err := db.LoadTrajectory(id)
	require.NoError(t, err)
	assert.Equal(t, points, loaded)
}

func TestLoadTrajectory_unknownRunIsEmpty(t *testing.T) {
	db := openTestDB(t)
	loaded, err := db.LoadTrajectory("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
