package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/esimov/carve/utils"
)

const helpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐
│  ├─┤├┬┘└┐┌┘├┤
└─┘┴ ┴┴└─ └┘ └─┘

Seam carving image reduction.
    Version: %s
`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "carve",
		Short:        "Content aware image reduction by seam carving",
		Long:         fmt.Sprintf(helpBanner, Version),
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))

			// Drop the ANSI colors when stderr is redirected.
			utils.NoColor = !term.IsTerminal(int(os.Stderr.Fd()))
		},
	}
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCarveCmd())
	root.AddCommand(newEnergyCmd())

	return root
}
