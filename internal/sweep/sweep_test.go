package sweep_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/sweep"
)

func sweepBase() engine.Config {
	cfg := engine.Default()
	cfg.Width = 12
	cfg.Height = 12
	cfg.Density = 0.6
	cfg.InitialInfected = 2
	cfg.MaxTicks = 30
	return cfg
}

func testExperiment(reps int) sweep.Experiment {
	return sweep.Experiment{
		Name:       "test",
		Base:       sweepBase(),
		Replicates: reps,
		Axes: []sweep.Axis{
			{
				Name:   "distancing",
				Values: []float64{0, 1},
				Apply: func(cfg *engine.Config, v float64) {
					cfg.SocialDistancing = v != 0
				},
			},
			{
				Name:   "recover",
				Values: []float64{0.5, 0.9},
				Apply: func(cfg *engine.Config, v float64) {
					cfg.RecoverProbability = v
				},
			},
		},
	}
}

func TestRun_coversCartesianProduct(t *testing.T) {
	exp := testExperiment(3)

	var results []sweep.Result
	err := exp.Run(func(r sweep.Result) error {
		results = append(results, r)
		return nil
	})
	require.NoError(t, err)

	// 2 × 2 points × 3 replicates.
	require.Len(t, results, 12)

	ids := make(map[string]bool)
	seedsPerPoint := make(map[string]map[int64]bool)
	for _, r := range results {
		assert.False(t, ids[r.RunID])
		ids[r.RunID] = true

		assert.Contains(t, r.Point, "distancing")
		assert.Contains(t, r.Point, "recover")
		assert.Equal(t, r.Point["recover"], r.Config.RecoverProbability)
		assert.Equal(t, r.Point["distancing"] != 0, r.Config.SocialDistancing)

		key := pointID(r.Point)
		if seedsPerPoint[key] == nil {
			seedsPerPoint[key] = make(map[int64]bool)
		}
		assert.False(t, seedsPerPoint[key][r.Config.Seed], "seed reused within a point")
		seedsPerPoint[key][r.Config.Seed] = true
	}
}

func pointID(p map[string]float64) string {
	return fmt.Sprintf("d=%g r=%g", p["distancing"], p["recover"])
}

func TestRun_deterministicAcrossInvocations(t *testing.T) {
	collect := func() []sweep.Result {
		var out []sweep.Result
		err := testExperiment(2).Run(func(r sweep.Result) error {
			out = append(out, r)
			return nil
		})
		require.NoError(t, err)
		return out
	}

	first := collect()
	second := collect()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Point, second[i].Point)
		assert.Equal(t, first[i].Config.Seed, second[i].Config.Seed)
		assert.Equal(t, first[i].Out, second[i].Out)
	}
}

func TestRun_rejectsEmptyDeclarations(t *testing.T) {
	exp := sweep.Experiment{Name: "empty", Base: sweepBase()}
	assert.Error(t, exp.Run(func(sweep.Result) error { return nil }))

	exp = testExperiment(1)
	exp.Axes[0].Values = nil
	assert.Error(t, exp.Run(func(sweep.Result) error { return nil }))

	exp = testExperiment(1)
	exp.Axes[1].Apply = nil
	assert.Error(t, exp.Run(func(sweep.Result) error { return nil }))
}

func TestRun_stopsOnCallbackError(t *testing.T) {
	exp := testExperiment(1)
	calls := 0
	err := exp.Run(func(sweep.Result) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
