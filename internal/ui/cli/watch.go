package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pygrade/internal/core/app"
	"pygrade/internal/core/watcher"
	"pygrade/internal/shared/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-analyze Python files as they change.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Burst of 1 keeps editor save storms from flooding the analyzer.
		limiter := util.NewLimiter(rt.cfg.Watch.MaxRunsPerSecond, 1)

		onChange := func(paths []string) {
			for _, path := range paths {
				if err := limiter.Wait(ctx, 1); err != nil {
					return
				}
				outcome, err := rt.service.Analyze(ctx, path)
				if err != nil {
					slog.Warn("analysis failed", "path", path, "error", err)
					if outcome == nil {
						continue
					}
				}
				if err := rt.renderer.Outcome(outcome); err != nil {
					slog.Warn("failed to render outcome", "path", path, "error", err)
				}
			}
		}

		w, err := watcher.NewWatcher(rt.cfg.Watch.Debounce, rt.cfg.Exclude.Dirs, rt.cfg.Exclude.Files, onChange)
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Watch([]string{root}); err != nil {
			return err
		}

		var obs *ObservabilityServer
		if addr := rt.cfg.Observability.Address; addr != "" {
			obs = NewObservabilityServer(addr, app.NewHealthService(rt.service))
			if err := obs.Start(ctx); err != nil {
				return err
			}
		}

		slog.Info("watching for changes", "root", root, "debounce", rt.cfg.Watch.Debounce)
		<-ctx.Done()

		if obs != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obs.Stop(shutdownCtx); err != nil {
				slog.Warn("observability server shutdown failed", "error", err)
			}
		}
		return nil
	},
}
