package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
	"github.com/joseph-ayodele/scan2pdf/internal/console"
	"github.com/joseph-ayodele/scan2pdf/internal/convert"
	"github.com/joseph-ayodele/scan2pdf/internal/core"
	"github.com/joseph-ayodele/scan2pdf/internal/entity"
	"github.com/joseph-ayodele/scan2pdf/internal/export"
	"github.com/joseph-ayodele/scan2pdf/internal/lister"
	"github.com/joseph-ayodele/scan2pdf/internal/metrics"
	"github.com/joseph-ayodele/scan2pdf/internal/ocr"
)

// app is the wiring shared by the commands.
type app struct {
	cfg     *common.Config
	logger  *slog.Logger
	out     io.Writer
	metrics *metrics.Recorder
	worker  *core.Worker
}

func newApp(cmd *cobra.Command, g *globalFlags, d *deps) (*app, error) {
	cfg := common.LoadConfig()
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.tempDir != "" {
		cfg.Runner.TempDir = g.tempDir
	}
	if g.ocrBinary != "" {
		cfg.OCR.Binary = g.ocrBinary
	}
	if g.language != "" {
		cfg.OCR.Language = g.language
	}
	if g.metricsAddr != "" {
		cfg.Metrics.Addr = g.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	converter := d.converter
	if converter == nil {
		converter = convert.NewPDFConverter(logger)
	}
	tool := ocr.NewTool(ocr.Config{
		Binary:   cfg.OCR.Binary,
		Language: cfg.OCR.Language,
		Timeout:  cfg.OCR.Timeout,
	}, d.ocrRunner, logger)

	rec := metrics.New()
	runner := core.NewRunner(converter, tool, logger,
		core.WithTempDir(cfg.Runner.TempDir),
		core.WithMetrics(rec),
	)
	worker := core.NewWorker(runner, logger, core.WithEventBuffer(cfg.Runner.EventBuffer))

	return &app{
		cfg:     cfg,
		logger:  logger,
		out:     cmd.OutOrStdout(),
		metrics: rec,
		worker:  worker,
	}, nil
}

// scan lists dir into a fresh batch, printing the user-facing warning when the
// directory cannot be read.
func (a *app) scan(view *console.View, dir string) (entity.Batch, error) {
	paths, err := lister.ListImages(dir)
	if err != nil {
		view.Warn("Directory not found: " + dir)
		a.logger.Error("list directory", "dir", dir, "error", err)
		return nil, err
	}
	batch := lister.NewBatch(paths)
	view.Reset(batch)
	return batch, nil
}

// runBatch submits batch and renders its events until the run finishes.
func (a *app) runBatch(ctx context.Context, view *console.View, batch entity.Batch) (entity.Summary, error) {
	events, err := a.worker.Start(ctx, batch)
	if err != nil {
		return entity.Summary{}, err
	}
	return view.Consume(events), nil
}

// serveMetrics exposes /metrics in the background when an address is configured.
func (a *app) serveMetrics(ctx context.Context) {
	if a.cfg.Metrics.Addr == "" {
		return
	}
	go func() {
		if err := a.metrics.Serve(ctx, a.cfg.Metrics.Addr, a.logger); err != nil {
			a.logger.Error("metrics server", "addr", a.cfg.Metrics.Addr, "error", err)
		}
	}()
}

func (a *app) writeReport(path string, summary entity.Summary) error {
	data, err := export.NewReporter(a.logger).RunReportXLSX(summary)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return common.WrapError(err, "write report")
	}
	a.logger.Info("wrote run report", "path", path)
	return nil
}
