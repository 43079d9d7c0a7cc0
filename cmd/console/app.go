package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hatchet-dev/console/app/pages"
	"github.com/hatchet-dev/console/app/routes"
	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/internal/config"
	"github.com/hatchet-dev/console/pkg/modules"
	"github.com/hatchet-dev/console/pkg/router"
	"github.com/hatchet-dev/console/pkg/view"
)

// app is the wired console: config, API client, page modules, route tree
// and resolver.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   api.Client
	registry *modules.Registry
	importer *modules.Importer
	tree     *router.Tree
	resolver *router.Resolver

	// metrics is nil when metrics are disabled.
	metrics *prometheus.Registry
}

// loadConfig loads the config file and environment.
func loadConfig(g *globalFlags) (*config.Config, error) {
	return config.Load(g.configPath)
}

// newApp wires everything the resolver needs. logs receives the slog output.
func newApp(cfg *config.Config, logs io.Writer) (*app, error) {
	a := &app{cfg: cfg, logger: cfg.Log.NewLogger(logs)}

	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	a.client = client

	a.registry = modules.NewRegistry()
	if err := pages.Register(a.registry, client); err != nil {
		return nil, err
	}
	a.importer = modules.NewImporter(a.registry, a.newSource(), modules.WithImporterLogger(a.logger))

	a.tree, err = routes.Tree(a.importer, router.WithLazyLogger(a.logger))
	if err != nil {
		return nil, err
	}

	opts := []router.Option{
		router.WithLogger(a.logger),
		router.WithMaxRedirects(cfg.MaxRedirects),
		router.WithBasename(cfg.Basename),
		router.WithNotFound(view.ComponentFunc(pages.NotFound)),
	}
	if !cfg.Metrics.Disabled {
		a.metrics = prometheus.NewRegistry()
		a.metrics.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, router.WithMetrics(router.NewMetrics(
			router.WithMetricsNamespace(cfg.Metrics.Namespace),
			router.WithMetricsRegistry(a.metrics),
		)))
	}
	a.resolver = router.NewResolver(a.tree, opts...)
	return a, nil
}

// newClient picks the fixture client when a fixture is configured, the
// HTTP client otherwise.
func (a *app) newClient() (api.Client, error) {
	switch {
	case a.cfg.API.Fixture != "":
		c, err := api.LoadFixture(a.resolvePath(a.cfg.API.Fixture))
		if err != nil {
			return nil, fmt.Errorf("%w: api.fixture: %v", config.ErrInvalidValue, err)
		}
		a.logger.Debug("using API fixture", "path", a.cfg.API.Fixture)
		return c, nil
	case a.cfg.API.BaseURL != "":
		c, err := api.NewHTTPClient(a.cfg.API.BaseURL, api.WithHTTPLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("%w: api.baseURL: %v", config.ErrInvalidValue, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: api.baseURL or api.fixture is required", config.ErrInvalidValue)
	}
}

func (a *app) newSource() modules.Source {
	m := a.cfg.Modules
	switch m.Source {
	case config.SourceFS:
		return modules.NewFSSource(os.DirFS(a.resolvePath(m.Dir)), m.Manifest)
	case config.SourceS3:
		client := modules.NewS3Client(modules.S3Config{
			Region:          m.Region,
			Endpoint:        m.Endpoint,
			AccessKeyID:     m.AccessKeyID,
			SecretAccessKey: m.SecretAccessKey,
		})
		return modules.NewS3Source(client, m.Bucket, m.Manifest)
	default:
		return modules.NewBuiltinSource(a.registry, version)
	}
}

// resolvePath makes p relative to the config file's directory.
func (a *app) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.cfg.Dir(), p)
}

// check verifies the manifest provides every module the route table names,
// with the exports each route declares.
func (a *app) check(ctx context.Context) error {
	return a.importer.Check(ctx, routes.Requirements())
}
