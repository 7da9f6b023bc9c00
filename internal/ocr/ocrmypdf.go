package ocr

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

type Config struct {
	Binary   string        // binary name or absolute path; if empty -> "ocrmypdf"
	Language string        // default "eng"
	Timeout  time.Duration // 0 = no limit
}

// Tool adds a text layer to a PDF by running ocrmypdf.
type Tool struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTool(cfg Config, runner Runner, logger *slog.Logger) *Tool {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Binary == "" {
		cfg.Binary = "ocrmypdf"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Tool{cfg: cfg, runner: runner, logger: logger}
}

// Args returns the fixed ocrmypdf argument list for in -> out.
func (t *Tool) Args(in, out string) []string {
	return []string{
		"--skip-text", // keep pages that already carry text
		"--deskew",
		"--clean",
		"--language", t.cfg.Language,
		in,
		out,
	}
}

// AddTextLayer runs ocrmypdf on in and writes the searchable PDF to out.
// A nonzero exit is returned as *common.OCRError carrying the captured stderr.
func (t *Tool) AddTextLayer(ctx context.Context, in, out string) error {
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	_, errb, err := t.runner.Run(ctx, t.cfg.Binary, t.logger, t.Args(in, out)...)
	if err == nil {
		return nil
	}

	// *exec.ExitError satisfies this; -1 means the process never ran to exit.
	code := -1
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		code = coded.ExitCode()
	}
	return &common.OCRError{
		ExitCode: code,
		Stderr:   strings.TrimSpace(string(errb)),
		Cause:    err,
	}
}
