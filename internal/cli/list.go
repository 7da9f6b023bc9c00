package cli

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/scan2pdf/internal/console"
)

func newListCommand(g *globalFlags, d *deps) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the JPEG files of a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g, d)
			if err != nil {
				return err
			}
			view := console.NewView(a.out, nil)
			if _, err := a.scan(view, dir); err != nil {
				return err
			}
			view.RenderTable()
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory to scan (required)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
