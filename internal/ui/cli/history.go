package cli

import (
	"slices"
	"time"

	"github.com/spf13/cobra"

	"pygrade/internal/data/history"
)

var (
	flagHistoryUI   bool
	flagTrendWindow time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded analyses and lifetime stats.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, stats, err := loadHistory(rt)
		if err != nil {
			return err
		}

		if flagHistoryUI {
			return runHistoryUI(entries, stats)
		}
		return rt.renderer.History(entries, stats)
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show score deltas and a moving average over the history log.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, _, err := loadHistory(rt)
		if err != nil {
			return err
		}

		trend, err := history.BuildTrendReport(entries, flagTrendWindow)
		if err != nil {
			return err
		}
		return rt.renderer.Trend(trend)
	},
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryUI, "ui", false, "Browse history in an interactive terminal UI")
	trendsCmd.Flags().DurationVar(&flagTrendWindow, "window", 24*time.Hour, "Moving-average window")
}

func loadHistory(rt *runtime) ([]history.Entry, history.Stats, error) {
	seq, err := rt.store.Entries()
	if err != nil {
		return nil, history.Stats{}, err
	}
	entries := slices.Collect(seq)

	stats, err := rt.store.Stats()
	if err != nil {
		return nil, history.Stats{}, err
	}
	return entries, stats, nil
}
