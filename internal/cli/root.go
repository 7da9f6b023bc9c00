// Package cli holds the scan2pdf commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/scan2pdf/internal/convert"
	"github.com/joseph-ayodele/scan2pdf/internal/ocr"
)

// Option overrides a collaborator, mainly so tests can stub external tools.
type Option func(*deps)

type deps struct {
	ocrRunner ocr.Runner
	converter convert.Converter
}

func WithOCRRunner(r ocr.Runner) Option {
	return func(d *deps) { d.ocrRunner = r }
}

func WithConverter(c convert.Converter) Option {
	return func(d *deps) { d.converter = c }
}

type globalFlags struct {
	logLevel  string
	tempDir   string
	ocrBinary string
	language  string

	metricsAddr string // convert and watch only
}

// NewRootCmd creates the root command
func NewRootCmd(opts ...Option) *cobra.Command {
	d := &deps{}
	for _, o := range opts {
		o(d)
	}
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "scan2pdf",
		Short:         "Convert JPEG scans into searchable PDFs with ocrmypdf",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (env SCAN2PDF_LOG_LEVEL)")
	pf.StringVar(&g.tempDir, "temp-dir", "", "directory for intermediate PDFs (env SCAN2PDF_TEMP_DIR)")
	pf.StringVar(&g.ocrBinary, "ocr-binary", "", "ocrmypdf executable (env SCAN2PDF_OCR_BINARY)")
	pf.StringVar(&g.language, "language", "", "OCR language (env SCAN2PDF_OCR_LANGUAGE)")

	// Add subcommands
	rootCmd.AddCommand(
		newListCommand(g, d),
		newConvertCommand(g, d),
		newWatchCommand(g, d),
	)

	return rootCmd
}
