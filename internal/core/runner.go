package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scan2pdf/constants"
	"github.com/joseph-ayodele/scan2pdf/internal/common"
	"github.com/joseph-ayodele/scan2pdf/internal/convert"
	"github.com/joseph-ayodele/scan2pdf/internal/entity"
	"github.com/joseph-ayodele/scan2pdf/internal/metrics"
)

// TextLayerAdder is the OCR backend: rewrite in as out with a text layer.
type TextLayerAdder interface {
	AddTextLayer(ctx context.Context, in, out string) error
}

// Runner converts each item of a batch to PDF, then adds the OCR text layer.
// Items are processed serially in submission order; a failed item never stops the batch.
type Runner struct {
	converter convert.Converter
	ocr       TextLayerAdder
	logger    *slog.Logger
	tempDir   string
	metrics   *metrics.Recorder
}

type RunnerOption func(*Runner)

// WithTempDir sets where intermediate PDFs are written. Empty means os.TempDir().
func WithTempDir(dir string) RunnerOption {
	return func(r *Runner) {
		if dir != "" {
			r.tempDir = dir
		}
	}
}

func WithMetrics(m *metrics.Recorder) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

func NewRunner(converter convert.Converter, ocr TextLayerAdder, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		converter: converter,
		ocr:       ocr,
		logger:    logger,
		tempDir:   os.TempDir(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run processes batch and sends every status change, a progress update after
// each item, and a final DoneEvent to events (which may be nil). Sends block, so
// the receiver must keep draining until DoneEvent.
func (r *Runner) Run(ctx context.Context, batch entity.Batch, events chan<- entity.Event) (entity.Summary, error) {
	if err := checkSubmittable(batch); err != nil {
		return entity.Summary{}, err
	}

	start := time.Now()
	runID := uuid.NewString()
	ctx = common.WithRunID(ctx, runID)
	logger := common.LoggerFromContext(ctx, r.logger)

	emit := func(ev entity.Event) {
		if events != nil {
			events <- ev
		}
	}

	items := batch.Clone()
	summary := entity.Summary{
		RunID:   runID,
		Total:   len(items),
		Results: make([]entity.ItemResult, 0, len(items)),
	}

	r.metrics.BatchStarted()
	logger.Info("batch started", "items", summary.Total)
	r.metrics.Progress(0)
	emit(entity.ProgressEvent{Processed: 0, Total: summary.Total})

	for i := range items {
		res := r.ProcessItem(ctx, &items[i], emit)
		summary.Results = append(summary.Results, res)
		if res.OK() {
			summary.Completed++
		} else {
			summary.Failed++
		}

		progress := entity.ProgressEvent{Processed: i + 1, Total: summary.Total}
		r.metrics.Progress(progress.Fraction())
		emit(progress)
	}

	summary.Duration = time.Since(start)
	logger.Info("batch finished",
		"total", summary.Total,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	emit(entity.DoneEvent{Summary: summary})
	return summary, nil
}

// ProcessItem runs both pipeline steps for one item, mutating item.Status and
// emitting a StatusEvent for each transition. It never returns an error: the
// outcome is carried by the result.
func (r *Runner) ProcessItem(ctx context.Context, item *entity.JobItem, emit func(entity.Event)) entity.ItemResult {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, r.logger).With("item_id", item.ID, "source_path", item.SourcePath)
	if emit == nil {
		emit = func(entity.Event) {}
	}

	setStatus := func(next constants.ItemStatus, detail string) {
		if !item.Status.CanTransition(next) {
			logger.Warn("ignoring non-monotonic status change", "from", item.Status, "to", next)
			return
		}
		item.Status = next
		emit(entity.StatusEvent{ItemID: item.ID, Status: next, Detail: detail})
	}

	result := entity.ItemResult{ItemID: item.ID, SourcePath: item.SourcePath}
	if !item.Status.CanTransition(constants.StatusConverting) {
		result.Kind = CodeInvalidState
		result.Detail = fmt.Sprintf("item is %q, want %q", item.Status, constants.StatusPending)
		logger.Error("refusing to process item", "status", item.Status)
		return result
	}

	fail := func(kind string, err error) entity.ItemResult {
		result.Kind = kind
		result.Detail = err.Error()
		result.Duration = time.Since(start)
		setStatus(constants.StatusFailed, result.Detail)
		r.metrics.ItemFinished(string(constants.StatusFailed))
		logger.Error("item failed", "kind", kind, "error", err, "duration_ms", result.Duration.Milliseconds())
		return result
	}

	// 1) JPEG -> intermediate PDF in temp storage
	setStatus(constants.StatusConverting, "")
	convStart := time.Now()
	pdf, err := r.converter.Convert(ctx, item.SourcePath)
	if err != nil {
		return fail(common.CodeConversionFailed, err)
	}
	tmp, err := r.writeTemp(item.SourcePath, pdf)
	if err != nil {
		return fail(common.CodeConversionFailed, common.ConversionFailed(item.SourcePath, err))
	}
	tmpRemoved := false
	defer func() {
		if !tmpRemoved {
			r.removeBestEffort(logger, tmp)
		}
	}()
	r.metrics.ObserveStage("convert", time.Since(convStart))

	// 2) OCR text layer -> <dir>/<base>_ocr_txt.pdf
	setStatus(constants.StatusAddingOCR, "")
	ocrStart := time.Now()
	out := constants.OutputPathFor(item.SourcePath)
	if err := r.addTextLayer(ctx, logger, tmp, out); err != nil {
		return fail(common.CodeOCRFailed, err)
	}
	r.metrics.ObserveStage("ocr", time.Since(ocrStart))

	// 3) drop the intermediate, then done
	r.removeBestEffort(logger, tmp)
	tmpRemoved = true
	result.OutputPath = out
	result.Duration = time.Since(start)
	setStatus(constants.StatusCompleted, "")
	r.metrics.ItemFinished(string(constants.StatusCompleted))
	logger.Info("item completed", "output_path", out, "duration_ms", result.Duration.Milliseconds())
	return result
}

// CodeInvalidState marks an item that was not Pending when processing began.
const CodeInvalidState = "INVALID_STATE"

// checkSubmittable rejects empty batches and batches holding items that are
// not Pending, since a status never leaves a terminal state.
func checkSubmittable(batch entity.Batch) error {
	if len(batch) == 0 {
		return common.NewAppError(common.CodeEmptyBatch, "nothing to convert", common.ErrEmptyBatch)
	}
	for _, it := range batch {
		if it.Status != constants.StatusPending {
			return common.NewAppError(common.CodeInvalidBatch,
				fmt.Sprintf("%s is %q, only Pending items can be submitted", it.Name(), it.Status),
				common.ErrInvalidInput)
		}
	}
	return nil
}

// writeTemp stores the intermediate PDF under a unique name so concurrent
// runs on files sharing a base name never collide.
func (r *Runner) writeTemp(src string, pdf []byte) (string, error) {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	f, err := os.CreateTemp(r.tempDir, base+"_temp-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	if _, err := f.Write(pdf); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp pdf: %w", err)
	}
	return f.Name(), nil
}

// addTextLayer has the OCR backend write a hidden partial file next to out and
// renames it into place on success, so a failed run leaves no output behind and
// a rerun replaces the previous output under the same name.
func (r *Runner) addTextLayer(ctx context.Context, logger *slog.Logger, in, out string) error {
	dir := filepath.Dir(out)
	partial, err := os.CreateTemp(dir, "."+strings.TrimSuffix(filepath.Base(out), ".pdf")+"-*.pdf")
	if err != nil {
		return fmt.Errorf("create output in %s: %w", dir, err)
	}
	partialPath := partial.Name()
	_ = partial.Chmod(0o644)
	if err := partial.Close(); err != nil {
		r.removeBestEffort(logger, partialPath)
		return err
	}

	if err := r.ocr.AddTextLayer(ctx, in, partialPath); err != nil {
		r.removeBestEffort(logger, partialPath)
		return err
	}
	if err := os.Rename(partialPath, out); err != nil {
		r.removeBestEffort(logger, partialPath)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}

func (r *Runner) removeBestEffort(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}
