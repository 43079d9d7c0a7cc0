package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/internal/config"
	"github.com/hatchet-dev/console/pkg/router"
	"github.com/hatchet-dev/console/pkg/view"
)

// resolveOutput is the machine-readable result of console resolve.
type resolveOutput struct {
	Navigation string            `json:"navigation"`
	Requested  string            `json:"requested"`
	Href       string            `json:"href"`
	Status     string            `json:"status"`
	Routes     []string          `json:"routes"`
	Params     map[string]string `json:"params,omitempty"`
	Redirects  []string          `json:"redirects,omitempty"`
	HTML       string            `json:"html,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func resolveCmd(g *globalFlags) *cobra.Command {
	var (
		format   string
		cookie   string
		fixture  string
		showHTML bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path without starting the server",
		Long: `Resolve a path the way a navigation would: match, load page modules,
run loaders (following redirects) and render.

Prints the final location, the matched route chain, bound params and
the redirects followed. Route errors are printed with their code and
exit non-zero; NotFound is a result, not an error.

Examples:
  console resolve /
  console resolve /workflows/123 --fixture=fixture.yaml --html
  console resolve /events --format=json --cookie="hatchet=..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if fixture != "" {
				cfg.API.Fixture = fixture
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("%w: unknown format %q (want text or json)", config.ErrInvalidValue, format)
			}

			a, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx := api.WithCookie(cmd.Context(), cookie)
			res, rerr := a.resolver.Resolve(ctx, args[0])
			if res == nil {
				return rerr
			}
			out, err := newResolveOutput(res, rerr, showHTML)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				printResolution(cmd.OutOrStdout(), out)
			}
			return rerr
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&cookie, "cookie", "", "Cookie header passed to the API client")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML API fixture (overrides api.fixture)")
	cmd.Flags().BoolVar(&showHTML, "html", false, "Include the rendered HTML")

	return cmd
}

func newResolveOutput(res *router.Resolution, rerr error, withHTML bool) (resolveOutput, error) {
	out := resolveOutput{
		Navigation: res.ID,
		Requested:  res.Requested,
		Href:       res.Href,
		Status:     res.Status.String(),
		Routes:     res.RouteIDs(),
		Params:     res.Params,
		Redirects:  res.Redirects,
	}
	if len(out.Params) == 0 {
		out.Params = nil
	}
	if rerr != nil {
		out.Error = rerr.Error()
	}
	if withHTML && res.View != nil {
		html, err := view.RenderString(res.View)
		if err != nil {
			return out, err
		}
		out.HTML = html
	}
	return out, nil
}

func printResolution(w io.Writer, out resolveOutput) {
	fmt.Fprintf(w, "  Location:   %s\n", out.Href)
	fmt.Fprintf(w, "  Status:     %s\n", out.Status)
	if len(out.Redirects) > 0 {
		fmt.Fprintf(w, "  Redirects:  %s -> %s\n", out.Requested, strings.Join(out.Redirects, " -> "))
	}
	if len(out.Routes) > 0 {
		fmt.Fprintf(w, "  Routes:     %s\n", strings.Join(out.Routes, " > "))
	}
	if len(out.Params) > 0 {
		keys := make([]string, 0, len(out.Params))
		for k := range out.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + out.Params[k]
		}
		fmt.Fprintf(w, "  Params:     %s\n", strings.Join(pairs, " "))
	}
	if out.HTML != "" {
		fmt.Fprintf(w, "\n%s\n", out.HTML)
	}
}
