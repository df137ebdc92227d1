package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	logcontext "github.com/luowanxu/Level-4-Project/context"
	"github.com/luowanxu/Level-4-Project/eval"
	"github.com/luowanxu/Level-4-Project/schedule"
)

var multirunCmd = &cobra.Command{
	Use:   "multirun",
	Short: "Repeat the scenario matrix to measure result stability",
	RunE:  multirun,
}

var (
	multirunRuns    int
	multirunOut     string
	multirunSamples int
	multirunWorkers int
	multirunSeed    int64
)

func init() {
	multirunCmd.Flags().IntVarP(&multirunRuns, "runs", "n", 3, "Number of matrix runs")
	multirunCmd.Flags().StringVarP(&multirunOut, "out", "o", "", "Output directory (defaults to the configured directory)")
	multirunCmd.Flags().IntVar(&multirunSamples, "samples", 0, "Random baselines per scenario (0 uses the configured default)")
	multirunCmd.Flags().IntVar(&multirunWorkers, "workers", 0, "Concurrent workers (0 uses the configured default)")
	multirunCmd.Flags().Int64Var(&multirunSeed, "seed", 0, "Random seed (0 uses the configured default, then the clock)")
	rootCmd.AddCommand(multirunCmd)
}

func multirun(cmd *cobra.Command, args []string) error {
	ctx := logcontext.New(context.Background())
	opts := evalOptions(multirunSamples, multirunWorkers, multirunSeed, cfg.Evaluation.MatrixSamples)
	outDir := multirunOut
	if outDir == "" {
		outDir = cfg.Evaluation.OutputDir
	}

	summary, err := eval.RunMultiple(ctx, schedule.NewService(cfg.Planner.MatrixCacheSize), opts, multirunRuns, outDir)
	if err != nil {
		return err
	}

	eval.PrintMultiRun(os.Stdout, summary)
	return nil
}
