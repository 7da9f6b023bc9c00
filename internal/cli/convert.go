package cli

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
	"github.com/joseph-ayodele/scan2pdf/internal/console"
	"github.com/joseph-ayodele/scan2pdf/internal/lister"
	"github.com/joseph-ayodele/scan2pdf/internal/selection"
)

type convertFlags struct {
	dir      string
	all      bool
	selected []string
	manifest string
	report   string
}

func newConvertCommand(g *globalFlags, d *deps) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert all or selected JPEG files of a directory",
		Long: "Converts each selected JPEG to a one-page PDF, then runs ocrmypdf to add a text layer.\n" +
			"Outputs are written next to the sources as <name>_ocr_txt.pdf.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g, d)
			if err != nil {
				return err
			}
			return runConvert(cmd, a, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.dir, "dir", "d", "", "directory to convert (or the manifest's directory)")
	fl.BoolVar(&f.all, "all", false, "convert every listed file (default when nothing is selected)")
	fl.StringSliceVarP(&f.selected, "select", "s", nil, "file names to convert, comma separated")
	fl.StringVar(&f.manifest, "manifest", "", "JSON file listing the files to convert")
	fl.StringVar(&f.report, "report", "", "write an XLSX run report to this path")
	fl.StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.MarkFlagsMutuallyExclusive("all", "select", "manifest")
	return cmd
}

func runConvert(cmd *cobra.Command, a *app, f *convertFlags) error {
	ctx := cmd.Context()
	view := console.NewView(a.out, nil)

	names := f.selected
	selecting := len(f.selected) > 0
	if f.manifest != "" {
		m, err := selection.Load(f.manifest)
		if err != nil {
			return err
		}
		if f.dir == "" {
			f.dir = m.Directory
		}
		names = m.Files
		selecting = true
	}
	if f.dir == "" {
		return common.NewAppError(common.CodeDirectoryNotFound, "--dir is required", common.ErrInvalidInput)
	}

	all, err := a.scan(view, f.dir)
	if err != nil {
		return err
	}

	batch := all
	if selecting {
		var missing []string
		batch, missing = lister.SelectByName(all, names)
		for _, n := range missing {
			view.Warn("not in directory: " + n)
		}
		if len(batch) == 0 {
			view.Warn(console.WarnNoSelection)
			return common.NewAppError(common.CodeEmptyBatch, console.WarnNoSelection, common.ErrEmptyBatch)
		}
		view.Reset(batch)
	} else if len(batch) == 0 {
		view.Warn(console.WarnNoFiles)
		return common.NewAppError(common.CodeEmptyBatch, console.WarnNoFiles, common.ErrEmptyBatch)
	}

	a.serveMetrics(ctx)

	summary, err := a.runBatch(ctx, view, batch)
	if err != nil {
		return err
	}
	view.RenderTable()

	if f.report != "" {
		if err := a.writeReport(f.report, summary); err != nil {
			return err
		}
	}
	return nil
}
