package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/scan2pdf/internal/entity"
)

const sheet = "Run"

var headers = []string{
	"Filename",
	"Status",
	"Output",
	"Error",
	"Duration (ms)",
}

// Reporter renders run summaries as XLSX workbooks.
type Reporter struct {
	logger *slog.Logger
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// RunReportXLSX returns an XLSX workbook (as bytes) with one row per item and a totals row.
func (r *Reporter) RunReportXLSX(summary entity.Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("close workbook", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for _, res := range summary.Results {
		write(1, filepath.Base(res.SourcePath))
		write(2, string(res.Status()))
		write(3, res.OutputPath)
		write(4, truncate(res.Detail, 500))
		write(5, res.Duration.Milliseconds())
		row++
	}

	write(1, "Total")
	write(2, fmt.Sprintf("%d/%d completed", summary.Completed, summary.Total))
	write(4, fmt.Sprintf("%d failed", summary.Failed))
	write(5, summary.Duration.Milliseconds())

	_ = f.SetColWidth(sheet, "A", "A", 28) // filename
	_ = f.SetColWidth(sheet, "B", "B", 18) // status
	_ = f.SetColWidth(sheet, "C", "C", 60) // output
	_ = f.SetColWidth(sheet, "D", "D", 60) // error
	_ = f.SetColWidth(sheet, "E", "E", 14) // duration

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	r.logger.Info("export.xlsx.ok",
		"run_id", summary.RunID,
		"rows", len(summary.Results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate keeps at most n-1 bytes of s, cut on a rune boundary, and marks the cut with "…".
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	limit := n - 1
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "…"
}
