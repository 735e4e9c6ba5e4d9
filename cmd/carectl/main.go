// carectl runs the care engine over an events file and prints the result as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	events   string
	schedule string
	now      string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "carectl",
		Short:         "Inspect a puppy's care history offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.events, "events", "", "YAML file with the profile and its events")
	root.PersistentFlags().StringVar(&flags.schedule, "schedule", "", "YAML walk schedule overriding the one in --events")
	root.PersistentFlags().StringVar(&flags.now, "now", "", "evaluation instant (RFC3339), default the current time")

	root.AddCommand(newStatusCmd(&flags))
	root.AddCommand(newTimelineCmd(&flags))
	root.AddCommand(newWalksCmd(&flags))
	root.AddCommand(newStatsCmd(&flags))
	return root
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Sleep state, potty prediction and next walk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := loadInput(flags.events, flags.schedule, flags.now)
			if err != nil {
				return err
			}
			// Same history as the API: yesterday and today.
			today, _ := service.ParseDay("", in.now)
			from, to := today.AddDate(0, 0, -1), today.AddDate(0, 0, 1)
			return printJSON(cmd, service.BuildStatus(&in.puppy, in.between(from, to), in.gapsBetween(from, to), in.now))
		},
	}
}

func newTimelineCmd(flags *globalFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Activity blocks of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := loadInput(flags.events, flags.schedule, flags.now)
			if err != nil {
				return err
			}
			day, err := service.ParseDay(date, in.now)
			if err != nil {
				return err
			}
			events := in.between(day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
			return printJSON(cmd, service.BuildTimeline(events, day, in.now))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD), default today")
	return cmd
}

func newWalksCmd(flags *globalFlags) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "walks",
		Short: "Next and remaining walks of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := loadInput(flags.events, flags.schedule, flags.now)
			if err != nil {
				return err
			}
			day, err := service.ParseDay(date, in.now)
			if err != nil {
				return err
			}
			events := in.between(day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
			return printJSON(cmd, service.BuildWalks(events, in.puppy.Walks, day, in.now))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD), default today")
	return cmd
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var windowDays int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Potty gaps, streaks and trigger patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if windowDays < 1 || windowDays > service.MaxStatsWindowDays {
				return fmt.Errorf("--window-days must be between 1 and %d", service.MaxStatsWindowDays)
			}
			in, err := loadInput(flags.events, flags.schedule, flags.now)
			if err != nil {
				return err
			}
			today, _ := service.ParseDay("", in.now)
			from, to := today.AddDate(0, 0, -(windowDays-1)), today.AddDate(0, 0, 1)
			return printJSON(cmd, service.BuildStats(in.between(from, to), in.gapsBetween(from, to), windowDays, in.now))
		},
	}
	cmd.Flags().IntVar(&windowDays, "window-days", service.DefaultStatsWindowDays, "number of days to analyze")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
