package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hatchet-dev/console/app/routes"
	"github.com/hatchet-dev/console/internal/config"
	"github.com/hatchet-dev/console/pkg/router"
)

func routesCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Print the console route table in declaration order.

Each row shows the full path, the route ID, whether the route has a
loader or a component, and whether it is a layout. With --check, every
page module is imported from the configured module source first.

Examples:
  console routes
  console routes --format=yaml
  console routes --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := routes.Tree(nil)
			if err != nil {
				return err
			}
			if check {
				cfg, err := loadConfig(g)
				if err != nil {
					return err
				}
				if err := checkModules(cmd, cfg); err != nil {
					return err
				}
			}
			return printRoutes(cmd.OutOrStdout(), tree.Table(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&check, "check", false, "Import every page module before printing")

	return cmd
}

func checkModules(cmd *cobra.Command, cfg *config.Config) error {
	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.check(cmd.Context()); err != nil {
		return err
	}
	success(cmd.ErrOrStderr(), "%d page modules available", len(routes.Modules()))
	return nil
}

func printRoutes(w io.Writer, rows []router.TableRow, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tID\tLOADER\tCOMPONENT\tLAYOUT")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("  ", r.Depth), r.Path, r.ID, mark(r.Loader), mark(r.Renders), mark(r.Layout))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("%w: unknown format %q (want text, json or yaml)", config.ErrInvalidValue, format)
	}
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
