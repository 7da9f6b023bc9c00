package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/scan2pdf/internal/console"
	"github.com/joseph-ayodele/scan2pdf/internal/lister"
)

type watchFlags struct {
	dir             string
	debounce        time.Duration
	includeExisting bool
}

func newWatchCommand(g *globalFlags, d *deps) *cobra.Command {
	f := &watchFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert JPEG files as they appear in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g, d)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("debounce") {
				f.debounce = a.cfg.Watch.Debounce
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, a, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.dir, "dir", "d", "", "directory to watch (required)")
	fl.DurationVar(&f.debounce, "debounce", 2*time.Second, "quiet period before new files are converted (env SCAN2PDF_WATCH_DEBOUNCE)")
	fl.BoolVar(&f.includeExisting, "include-existing", false, "convert the files already in the directory first")
	fl.StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

// runWatch feeds debounced groups of new files to the worker, one batch at a
// time. On cancellation the batch in flight is allowed to finish.
func runWatch(ctx context.Context, a *app, f *watchFlags) error {
	view := console.NewView(a.out, nil)
	existing, err := a.scan(view, f.dir)
	if err != nil {
		return err
	}

	groups, errs, err := lister.Watch(ctx, lister.WatchConfig{Dir: f.dir, Debounce: f.debounce, Logger: a.logger})
	if err != nil {
		return err
	}
	a.serveMetrics(ctx)

	// Batches run detached from ctx so an interrupt never kills ocrmypdf mid-file.
	runCtx := context.WithoutCancel(ctx)

	if f.includeExisting && len(existing) > 0 {
		if _, err := a.runBatch(runCtx, view, existing); err != nil {
			return err
		}
	}
	a.logger.Info("watching for new images", "dir", f.dir, "debounce", f.debounce)

	for {
		select {
		case <-ctx.Done():
			a.worker.Wait()
			view.RenderTable()
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("watch error", "error", err)
		case group, ok := <-groups:
			if !ok {
				a.worker.Wait()
				view.RenderTable()
				return nil
			}
			batch := lister.NewBatch(group)
			view.Add(batch)
			if _, err := a.runBatch(runCtx, view, batch); err != nil {
				a.logger.Error("batch rejected", "error", err)
			}
		}
	}
}
