package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joseph-ayodele/scan2pdf/internal/cli"
)

func main() {
	// Execute the root command
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
