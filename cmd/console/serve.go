package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hatchet-dev/console/internal/config"
	"github.com/hatchet-dev/console/pkg/middleware"
	"github.com/hatchet-dev/console/pkg/server"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr     string
		basename string
		debug    bool
		dev      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the console server",
		Long: `Start the console HTTP server.

Pages are resolved on the server for the first request; the browser
then navigates over the WebSocket channel at /ws. The server checks
that every page module in the route table is available before it
starts listening.

Examples:
  console serve
  console serve --addr=:3000 --basename=/console
  CONSOLE_API_FIXTURE=fixture.yaml console serve --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if basename != "" {
				cfg.Basename = basename
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, debug, dev)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&basename, "basename", "", "URL prefix the console is mounted under")
	cmd.Flags().BoolVar(&debug, "debug", false, "Show error details in the error boundary")
	cmd.Flags().BoolVar(&dev, "dev", false, "Disable client script caching")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, debug, dev bool) error {
	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.check(ctx); err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithConfig(&server.Config{
			Addr:        cfg.Addr,
			MetricsPath: cfg.Metrics.Path,
			Debug:       debug,
			DevMode:     dev,
		}),
		server.WithTracing(
			middleware.WithTracerName("console"),
			middleware.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != cfg.Metrics.Path
			}),
		),
	}
	if a.metrics != nil {
		opts = append(opts,
			server.WithHTTPMetrics(middleware.NewHTTPMetrics(
				middleware.WithNamespace(cfg.Metrics.Namespace),
				middleware.WithRegistry(a.metrics),
			)),
			server.WithGatherer(a.metrics),
		)
	}

	srv := server.New(a.resolver, opts...)
	return srv.Run(ctx)
}
