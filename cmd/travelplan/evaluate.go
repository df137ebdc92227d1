package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	logcontext "github.com/luowanxu/Level-4-Project/context"
	"github.com/luowanxu/Level-4-Project/eval"
	"github.com/luowanxu/Level-4-Project/schedule"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Benchmark the planner against random baselines on one scenario",
	RunE:  evaluate,
}

var (
	evalCity    string
	evalSize    string
	evalDays    int
	evalMode    string
	evalSamples int
	evalWorkers int
	evalSeed    int64
	evalOut     string
)

func init() {
	evaluateCmd.Flags().StringVar(&evalCity, "city", "paris", "Scenario city (paris, london, tokyo, new_york)")
	evaluateCmd.Flags().StringVar(&evalSize, "size", "medium", "Scenario size (small, medium, large)")
	evaluateCmd.Flags().IntVar(&evalDays, "days", 3, "Trip length in days")
	evaluateCmd.Flags().StringVarP(&evalMode, "mode", "m", "walking", "Transport mode (walking, transit, driving)")
	evaluateCmd.Flags().IntVar(&evalSamples, "samples", 0, "Random baselines to draw (0 uses the configured default)")
	evaluateCmd.Flags().IntVar(&evalWorkers, "workers", 0, "Concurrent baseline workers (0 uses the configured default)")
	evaluateCmd.Flags().Int64Var(&evalSeed, "seed", 0, "Random seed (0 uses the configured default, then the clock)")
	evaluateCmd.Flags().StringVarP(&evalOut, "out", "o", "", "Write the detailed report JSON to a file")
	rootCmd.AddCommand(evaluateCmd)
}

func evaluate(cmd *cobra.Command, args []string) error {
	if evalDays < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	ctx := logcontext.New(context.Background())
	opts := evalOptions(evalSamples, evalWorkers, evalSeed, cfg.Evaluation.NumRandomSolutions)

	attractions, restaurants, err := eval.SizeCounts(evalSize)
	if err != nil {
		return err
	}
	gen := eval.NewGenerator(rand.New(rand.NewSource(opts.Seed)))
	places, err := gen.ScenarioPlaces(evalCity, attractions, restaurants)
	if err != nil {
		return err
	}

	start := time.Now()
	scn := eval.Scenario{
		Name:          fmt.Sprintf("%s_%s_%dd_%s", evalCity, evalSize, evalDays, evalMode),
		Type:          "single",
		Places:        places,
		StartDate:     start.Format("2006-01-02"),
		EndDate:       start.AddDate(0, 0, evalDays-1).Format("2006-01-02"),
		TransportMode: evalMode,
		DurationDays:  evalDays,
	}

	pipe := eval.NewPipeline(schedule.NewService(cfg.Planner.MatrixCacheSize), opts)
	res, err := pipe.Evaluate(ctx, scn)
	if err != nil {
		return err
	}

	eval.PrintReport(os.Stdout, res)

	if evalOut != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(evalOut, data, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", evalOut)
		}
	}
	if !res.Success {
		return fmt.Errorf("evaluation failed: %s", res.Error)
	}
	return nil
}
