package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.py>",
	Short: "Analyze one Python file and record its score.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		outcome, analyzeErr := rt.service.Analyze(cmd.Context(), args[0])
		if outcome != nil {
			// A persistence failure still yields a scored outcome; render it
			// so the run is not silently lost, then propagate the error.
			if err := rt.renderer.Outcome(outcome); err != nil {
				slog.Warn("failed to render outcome", "error", err)
			}
		}
		return analyzeErr
	},
}
