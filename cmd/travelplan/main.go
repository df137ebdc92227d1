package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luowanxu/Level-4-Project/config"
	"github.com/luowanxu/Level-4-Project/eval"
	"github.com/luowanxu/Level-4-Project/log"
)

var rootCmd = &cobra.Command{
	Use:          "travelplan",
	Short:        "Travel schedule planner",
	Long:         "Plans day-by-day travel schedules and benchmarks them against random baselines",
	SilenceUsage: true,
}

var cfg *config.Config

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		log.Init()
		log.SetLevelFromString(c.Log.Level)
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// evalOptions resolves evaluation settings from flags with config
// fallbacks. A zero seed falls back to the configured seed, then to the
// clock.
func evalOptions(samples, workers int, seed int64, defaultSamples int) eval.Options {
	if samples <= 0 {
		samples = defaultSamples
	}
	if workers <= 0 {
		workers = cfg.Evaluation.Workers
	}
	if seed == 0 {
		seed = cfg.Evaluation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return eval.Options{NumRandomSolutions: samples, Workers: workers, Seed: seed}
}
