package eval

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/luowanxu/Level-4-Project/log"
)

// Percentile thresholds for calling a scenario a win.
const (
	successPercentile     = 50
	significantPercentile = 90
)

// SuiteRunner executes a scenario matrix and aggregates the outcomes.
type SuiteRunner struct {
	pipeline  *Pipeline
	outputDir string
	workers   int
}

// NewSuiteRunner wires a matrix runner. Reports land under outputDir.
func NewSuiteRunner(pipeline *Pipeline, outputDir string, workers int) *SuiteRunner {
	if workers <= 0 {
		workers = 4
	}
	return &SuiteRunner{pipeline: pipeline, outputDir: outputDir, workers: workers}
}

// MissingScenarios breaks unfinished scenarios down by matrix dimension.
type MissingScenarios struct {
	Count      int            `json:"count"`
	ByCity     map[string]int `json:"by_city"`
	BySize     map[string]int `json:"by_size"`
	ByDuration map[string]int `json:"by_duration"`
	ByMode     map[string]int `json:"by_mode"`
	FullList   []string       `json:"full_list"`
}

// Overview is the headline section of the aggregate report.
type Overview struct {
	TotalScenarios      int              `json:"total_scenarios"`
	ExpectedScenarios   int              `json:"expected_scenarios"`
	Missing             MissingScenarios `json:"missing_scenarios"`
	BetterThanRandom    int              `json:"better_than_random"`
	SignificantlyBetter int              `json:"significantly_better"`
	AverageScore        float64          `json:"average_score"`
}

// GroupStats aggregates ranking percentiles over one matrix dimension.
type GroupStats struct {
	Count         int     `json:"count"`
	AvgPercentile float64 `json:"avg_percentile"`
	SuccessRate   float64 `json:"success_rate"`
}

// FailedCase records a scenario where the planner did not beat the median
// baseline.
type FailedCase struct {
	Scenario    string             `json:"scenario"`
	Config      FailedConfig       `json:"config"`
	Scores      map[string]float64 `json:"scores"`
	Percentiles map[string]float64 `json:"percentiles"`
}

// FailedConfig echoes the failing scenario's parameters.
type FailedConfig struct {
	NumPlaces     int    `json:"num_places"`
	DurationDays  int    `json:"duration_days"`
	TransportMode string `json:"transport_mode"`
}

// Summary is the aggregate report for one full matrix run.
type Summary struct {
	GeneratedAt           string                `json:"generated_at"`
	Overview              Overview              `json:"overview"`
	TransportModeAnalysis map[string]GroupStats `json:"transport_mode_analysis"`
	SizeAnalysis          map[string]GroupStats `json:"size_analysis"`
	FailedCases           []FailedCase          `json:"failed_cases"`
}

// summaryRow is one line of the CSV digest.
type summaryRow struct {
	Scenario          string  `csv:"scenario"`
	NumPlaces         int     `csv:"num_places"`
	DurationDays      int     `csv:"duration_days"`
	TransportMode     string  `csv:"transport_mode"`
	DistanceScore     float64 `csv:"distance_score"`
	TimeWindowScore   float64 `csv:"time_window_score"`
	DistributionScore float64 `csv:"distribution_score"`
	ClusteringScore   float64 `csv:"clustering_score"`
	TotalScore        float64 `csv:"total_score"`
	TotalPercentile   float64 `csv:"total_percentile"`
}

// Run evaluates every scenario concurrently, writes one detailed JSON per
// scenario plus the aggregate summary and CSV digest, and returns the
// summary.
func (r *SuiteRunner) Run(ctx context.Context, scenarios []Scenario) (*Summary, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", r.outputDir)
	}
	log.Infof(ctx, "SuiteRunner: evaluating %d scenarios into %s", len(scenarios), r.outputDir)

	type item struct {
		name   string
		result *Result
		err    error
	}
	results := make(chan item, len(scenarios))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for _, scn := range scenarios {
		wg.Add(1)
		go func(scn Scenario) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := r.pipeline.Evaluate(ctx, scn)
			results <- item{name: scn.Name, result: res, err: err}
		}(scn)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	byName := make(map[string]item, len(scenarios))
	for it := range results {
		byName[it.name] = it
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		GeneratedAt:           time.Now().Format(evalTimeLayout),
		TransportModeAnalysis: map[string]GroupStats{},
		SizeAnalysis:          map[string]GroupStats{},
		FailedCases:           []FailedCase{},
	}
	missing := MissingScenarios{
		ByCity:     map[string]int{},
		BySize:     map[string]int{},
		ByDuration: map[string]int{},
		ByMode:     map[string]int{},
		FullList:   []string{},
	}

	var rows []summaryRow
	var totalScores []float64
	modePercentiles := map[string][]float64{}
	sizePercentiles := map[string][]float64{}

	for _, scn := range scenarios {
		it := byName[scn.Name]
		if it.err != nil || it.result == nil || !it.result.Success {
			if it.err != nil {
				log.Errorf(ctx, "SuiteRunner: scenario %q: %v", scn.Name, it.err)
			} else if it.result != nil {
				log.Warnf(ctx, "SuiteRunner: scenario %q failed: %s", scn.Name, it.result.Error)
			}
			recordMissing(&missing, scn.Name)
			continue
		}
		res := it.result

		if err := writeJSON(filepath.Join(r.outputDir, scn.Name+"_detailed.json"), res); err != nil {
			log.Errorf(ctx, "SuiteRunner: %v", err)
		}

		totalScore := res.Algorithm.Scores["total"]
		totalPercentile := res.Comparative.RankingPercentile["total"]
		totalScores = append(totalScores, totalScore)

		_, size, _, mode, ok := splitScenarioName(scn.Name)
		if !ok {
			size, mode = "unknown", scn.TransportMode
		}
		modePercentiles[mode] = append(modePercentiles[mode], totalPercentile)
		sizePercentiles[size] = append(sizePercentiles[size], totalPercentile)

		summary.Overview.TotalScenarios++
		if totalPercentile > successPercentile {
			summary.Overview.BetterThanRandom++
		} else {
			summary.FailedCases = append(summary.FailedCases, FailedCase{
				Scenario: scn.Name,
				Config: FailedConfig{
					NumPlaces:     len(scn.Places),
					DurationDays:  scn.DurationDays,
					TransportMode: scn.TransportMode,
				},
				Scores:      res.Algorithm.Scores,
				Percentiles: res.Comparative.RankingPercentile,
			})
		}
		if totalPercentile > significantPercentile {
			summary.Overview.SignificantlyBetter++
		}

		rows = append(rows, summaryRow{
			Scenario:          scn.Name,
			NumPlaces:         len(scn.Places),
			DurationDays:      scn.DurationDays,
			TransportMode:     scn.TransportMode,
			DistanceScore:     res.Algorithm.Scores["distance"],
			TimeWindowScore:   res.Algorithm.Scores["time_window"],
			DistributionScore: res.Algorithm.Scores["distribution"],
			ClusteringScore:   res.Algorithm.Scores["clustering"],
			TotalScore:        totalScore,
			TotalPercentile:   totalPercentile,
		})
	}

	summary.Overview.ExpectedScenarios = len(scenarios)
	sort.Strings(missing.FullList)
	missing.Count = len(missing.FullList)
	summary.Overview.Missing = missing
	if len(totalScores) > 0 {
		summary.Overview.AverageScore = stat.Mean(totalScores, nil)
	}
	summary.TransportModeAnalysis = groupStats(modePercentiles)
	summary.SizeAnalysis = groupStats(sizePercentiles)

	if err := writeJSON(filepath.Join(r.outputDir, "summary_report.json"), summary); err != nil {
		return nil, err
	}
	if err := writeCSV(filepath.Join(r.outputDir, "scenario_results.csv"), rows); err != nil {
		return nil, err
	}

	log.Infof(ctx, "SuiteRunner: %d/%d scenarios completed, %d better than random",
		summary.Overview.TotalScenarios, len(scenarios), summary.Overview.BetterThanRandom)
	return summary, nil
}

// splitScenarioName decomposes "{city}_{size}_{duration}_{mode}" from the
// right, so multi-word cities like new_york keep their underscore.
func splitScenarioName(name string) (city, size, duration, mode string, ok bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 4 {
		return "", "", "", "", false
	}
	n := len(parts)
	return strings.Join(parts[:n-3], "_"), parts[n-3], parts[n-2], parts[n-1], true
}

func recordMissing(m *MissingScenarios, name string) {
	m.FullList = append(m.FullList, name)
	city, size, duration, mode, ok := splitScenarioName(name)
	if !ok {
		return
	}
	m.ByCity[city]++
	m.BySize[size]++
	m.ByDuration[duration]++
	m.ByMode[mode]++
}

func groupStats(percentiles map[string][]float64) map[string]GroupStats {
	out := make(map[string]GroupStats, len(percentiles))
	for key, values := range percentiles {
		wins := 0
		for _, p := range values {
			if p > successPercentile {
				wins++
			}
		}
		out[key] = GroupStats{
			Count:         len(values),
			AvgPercentile: stat.Mean(values, nil),
			SuccessRate:   100 * float64(wins) / float64(len(values)),
		}
	}
	return out
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	return nil
}

func writeCSV(path string, rows []summaryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", filepath.Base(path))
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	return nil
}
