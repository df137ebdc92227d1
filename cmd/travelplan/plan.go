package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	logcontext "github.com/luowanxu/Level-4-Project/context"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/schedule"
)

var planCmd = &cobra.Command{
	Use:   "plan <places.json>",
	Short: "Generate a day-by-day schedule for a set of places",
	Args:  cobra.ExactArgs(1),
	RunE:  plan,
}

var (
	planStart string
	planEnd   string
	planMode  string
	planSeed  int64
	planOut   string
)

func init() {
	planCmd.Flags().StringVarP(&planStart, "start", "s", "", "Trip start date (YYYY-MM-DD)")
	planCmd.Flags().StringVarP(&planEnd, "end", "e", "", "Trip end date (YYYY-MM-DD)")
	planCmd.Flags().StringVarP(&planMode, "mode", "m", "walking", "Transport mode (walking, transit, driving)")
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "Random seed (0 seeds from the clock)")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "Write the schedule JSON to a file instead of stdout")
	rootCmd.AddCommand(planCmd)
}

func plan(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "read places file %s", args[0])
	}
	var places []place.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return errors.Wrapf(err, "parse places file %s", args[0])
	}

	ctx := logcontext.New(context.Background())
	svc := schedule.NewService(cfg.Planner.MatrixCacheSize)

	var rng *rand.Rand
	if planSeed != 0 {
		rng = rand.New(rand.NewSource(planSeed))
	}

	resp, planErr := svc.GenerateSchedule(ctx, schedule.Request{
		Places:        places,
		StartDate:     planStart,
		EndDate:       planEnd,
		TransportMode: planMode,
	}, rng)

	// A failed plan still yields a response with status details, so print
	// it either way.
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if planOut != "" {
		if err := os.WriteFile(planOut, out, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", planOut)
		}
		fmt.Printf("schedule written to %s\n", planOut)
	} else {
		fmt.Println(string(out))
	}
	return planErr
}
