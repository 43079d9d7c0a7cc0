package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/hatchet-dev/console/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cerrors.PrintError(os.Stderr, cerrors.FromError(err))
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "The Hatchet console server",
		Long: `console serves the Hatchet dashboard.

Every navigation is matched against the nested route table, page
modules are loaded on demand, route loaders run root to leaf and
may redirect, and the matched chain renders leaf first.

Configuration comes from console.json, CONSOLE_* environment
variables, and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				cerrors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default ./console.json if present)")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		serveCmd(&g),
		routesCmd(&g),
		resolveCmd(&g),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
