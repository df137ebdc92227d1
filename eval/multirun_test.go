package eval

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luowanxu/Level-4-Project/schedule"
)

func TestRunMultiple(t *testing.T) {
	if testing.Short() {
		t.Skip("full matrix run")
	}

	ctx := context.Background()
	outDir := t.TempDir()
	opts := Options{NumRandomSolutions: 2, Workers: 4, Seed: 31}

	summary, err := RunMultiple(ctx, schedule.NewService(64), opts, 1, outDir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.NumRuns)
	require.Len(t, summary.IndividualRuns, 1)

	run := summary.IndividualRuns[0]
	assert.Equal(t, 1, run.RunID)
	// Only oversized short trips can fail the capacity check, so the vast
	// majority of the 108 scenarios must complete.
	assert.GreaterOrEqual(t, run.TotalScenarios, 90)
	assert.LessOrEqual(t, run.TotalScenarios, 108)
	assert.GreaterOrEqual(t, run.SuccessRate, 0.0)
	assert.LessOrEqual(t, run.SuccessRate, 100.0)
	assert.GreaterOrEqual(t, run.SignificantRate, 0.0)
	assert.LessOrEqual(t, run.SignificantRate, 100.0)

	// With a single run the aggregate collapses onto that run's rates.
	assert.InDelta(t, run.SuccessRate, summary.SuccessRate.Mean, 1e-9)
	assert.InDelta(t, run.SuccessRate, summary.SuccessRate.Median, 1e-9)
	assert.Zero(t, summary.SuccessRate.StdDev)

	assert.FileExists(t, filepath.Join(outDir, "multi_run_summary.json"))
	assert.FileExists(t, filepath.Join(outDir, "run_1", "summary_report.json"))
	assert.FileExists(t, filepath.Join(outDir, "run_1", "scenario_results.csv"))
}

func TestRunMultipleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunMultiple(ctx, schedule.NewService(0), Options{Seed: 1}, 2, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
