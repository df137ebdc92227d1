package eval

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/schedule"
)

// runSeedStride keeps per-run seed ranges disjoint; each run burns one seed
// per scenario baseline, so the stride just has to stay comfortably ahead.
const runSeedStride = 1_000_003

// RunOutcome captures the headline rates of one full matrix run.
type RunOutcome struct {
	RunID           int     `json:"run_id"`
	TotalScenarios  int     `json:"total_scenarios"`
	SuccessRate     float64 `json:"success_rate"`
	SignificantRate float64 `json:"significant_rate"`
}

// RateStats aggregates a percentage rate across runs.
type RateStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// MultiRunSummary aggregates repeated matrix runs into stability
// statistics for the success and significance rates.
type MultiRunSummary struct {
	NumRuns         int          `json:"num_runs"`
	SuccessRate     RateStats    `json:"success_rate"`
	SignificantRate RateStats    `json:"significant_rate"`
	IndividualRuns  []RunOutcome `json:"individual_runs"`
}

// RunMultiple repeats the whole scenario matrix with freshly generated
// test data per run, each run writing under outputDir/run_<i>, and
// aggregates the run-level rates into outputDir/multi_run_summary.json.
func RunMultiple(ctx context.Context, service *schedule.Service, opts Options, runs int, outputDir string) (*MultiRunSummary, error) {
	if runs < 1 {
		runs = 1
	}
	opts = opts.withDefaults()

	summary := &MultiRunSummary{NumRuns: runs}
	var successRates, significantRates []float64

	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runOpts := opts
		runOpts.Seed = opts.Seed + int64(i)*runSeedStride

		gen := NewGenerator(rand.New(rand.NewSource(runOpts.Seed)))
		scenarios := gen.Suite(time.Now())
		runner := NewSuiteRunner(
			NewPipeline(service, runOpts),
			filepath.Join(outputDir, fmt.Sprintf("run_%d", i+1)),
			runOpts.Workers,
		)
		runSummary, err := runner.Run(ctx, scenarios)
		if err != nil {
			return nil, err
		}

		total := runSummary.Overview.TotalScenarios
		outcome := RunOutcome{RunID: i + 1, TotalScenarios: total}
		if total > 0 {
			outcome.SuccessRate = 100 * float64(runSummary.Overview.BetterThanRandom) / float64(total)
			outcome.SignificantRate = 100 * float64(runSummary.Overview.SignificantlyBetter) / float64(total)
		}
		summary.IndividualRuns = append(summary.IndividualRuns, outcome)
		successRates = append(successRates, outcome.SuccessRate)
		significantRates = append(significantRates, outcome.SignificantRate)

		log.Infof(ctx, "RunMultiple: run %d/%d success %.1f%%, significant %.1f%%",
			i+1, runs, outcome.SuccessRate, outcome.SignificantRate)
	}

	summary.SuccessRate = rateStats(successRates)
	summary.SignificantRate = rateStats(significantRates)

	if err := writeJSON(filepath.Join(outputDir, "multi_run_summary.json"), summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func rateStats(rates []float64) RateStats {
	if len(rates) == 0 {
		return RateStats{}
	}
	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)
	rs := RateStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(rates, nil),
		Median: quantile(sorted, 0.5),
	}
	if len(rates) > 1 {
		rs.StdDev = stat.PopStdDev(rates, nil)
	}
	return rs
}
