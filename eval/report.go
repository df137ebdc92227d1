package eval

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// PrintReport writes a human-readable single-scenario evaluation report,
// coloring each metric by its ranking percentile band.
func PrintReport(w io.Writer, res *Result) {
	color.New(color.FgBlue, color.Bold).Fprintln(w, "=== Schedule Evaluation Report ===")
	fmt.Fprintf(w, "Evaluated at: %s\n", res.EvaluationTime)
	fmt.Fprintf(w, "Places: %d  Dates: %s to %s  Mode: %s  Baselines: %d\n",
		res.Parameters.NumPlaces, res.Parameters.StartDate, res.Parameters.EndDate,
		res.Parameters.TransportMode, res.Parameters.NumRandomSolutions)

	if !res.Success {
		color.New(color.FgRed).Fprintf(w, "Evaluation failed: %s\n", res.Error)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-14s %10s %12s %11s %8s\n", "metric", "algorithm", "random mean", "percentile", "z-score")
	for _, name := range MetricNames {
		var z float64
		if sig, ok := res.Comparative.StatisticalSignificance[name]; ok {
			z = sig.ZScore
		}
		pct := res.Comparative.RankingPercentile[name]
		percentileColor(pct).Fprintf(w, "%-14s %10.2f %12.2f %10.1f%% %8.2f\n",
			name, res.Algorithm.Scores[name], res.Random.Statistics[name].Mean, pct, z)
	}
}

// PrintSummary writes the aggregate matrix report.
func PrintSummary(w io.Writer, s *Summary) {
	color.New(color.FgBlue, color.Bold).Fprintln(w, "=== Evaluation Matrix Summary ===")
	o := s.Overview
	fmt.Fprintf(w, "Generated at: %s\n", s.GeneratedAt)
	fmt.Fprintf(w, "Scenarios completed: %d/%d", o.TotalScenarios, o.ExpectedScenarios)
	if o.Missing.Count > 0 {
		color.New(color.FgRed).Fprintf(w, "  (%d missing)", o.Missing.Count)
	}
	fmt.Fprintln(w)

	if o.TotalScenarios > 0 {
		successRate := 100 * float64(o.BetterThanRandom) / float64(o.TotalScenarios)
		significantRate := 100 * float64(o.SignificantlyBetter) / float64(o.TotalScenarios)
		rateColor(successRate).Fprintf(w, "Better than random: %d (%.1f%%)\n", o.BetterThanRandom, successRate)
		rateColor(significantRate).Fprintf(w, "Significantly better: %d (%.1f%%)\n", o.SignificantlyBetter, significantRate)
		fmt.Fprintf(w, "Average total score: %.2f\n", o.AverageScore)
	}

	printGroup(w, "By transport mode", s.TransportModeAnalysis)
	printGroup(w, "By scenario size", s.SizeAnalysis)

	if len(s.FailedCases) > 0 {
		fmt.Fprintln(w)
		color.New(color.FgRed).Fprintf(w, "Failed cases (%d):\n", len(s.FailedCases))
		for _, fc := range s.FailedCases {
			fmt.Fprintf(w, "  %-40s total percentile %.1f%%\n", fc.Scenario, fc.Percentiles["total"])
		}
	}
}

// PrintMultiRun writes the stability report for repeated matrix runs.
func PrintMultiRun(w io.Writer, s *MultiRunSummary) {
	color.New(color.FgBlue, color.Bold).Fprintln(w, "=== Multi-Run Stability Report ===")
	fmt.Fprintf(w, "Runs: %d\n", s.NumRuns)
	printRate(w, "Success rate", s.SuccessRate)
	printRate(w, "Significant rate", s.SignificantRate)
	for _, run := range s.IndividualRuns {
		fmt.Fprintf(w, "  run %d: %d scenarios, success %.1f%%, significant %.1f%%\n",
			run.RunID, run.TotalScenarios, run.SuccessRate, run.SignificantRate)
	}
}

func printRate(w io.Writer, label string, rs RateStats) {
	rateColor(rs.Mean).Fprintf(w, "%s: mean %.1f%% (min %.1f%%, median %.1f%%, max %.1f%%, std %.1f)\n",
		label, rs.Mean, rs.Min, rs.Median, rs.Max, rs.StdDev)
}

func printGroup(w io.Writer, label string, groups map[string]GroupStats) {
	if len(groups) == 0 {
		return
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", label)
	for _, k := range keys {
		g := groups[k]
		rateColor(g.SuccessRate).Fprintf(w, "  %-10s %3d scenarios, avg percentile %.1f%%, success %.1f%%\n",
			k, g.Count, g.AvgPercentile, g.SuccessRate)
	}
}

// percentileColor bands a ranking percentile: green above the significance
// threshold, yellow above the success threshold, red otherwise.
func percentileColor(pct float64) *color.Color {
	switch {
	case pct > significantPercentile:
		return color.New(color.FgGreen)
	case pct > successPercentile:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func rateColor(rate float64) *color.Color {
	switch {
	case rate >= 90:
		return color.New(color.FgGreen)
	case rate >= 50:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
