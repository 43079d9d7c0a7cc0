package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hatchet-dev/console/pkg/router"
)

// Module is an imported page module.
type Module struct {
	Name string

	// File is the built asset named by the manifest, if any.
	File string

	exports Exports
}

// Export implements router.Exports.
func (m *Module) Export(name string) (any, bool) {
	v, ok := m.exports[name]
	return v, ok
}

// ExportNames returns the module's export names, sorted.
func (m *Module) ExportNames() []string {
	return m.exports.names()
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImporterLogger sets the importer's logger.
func WithImporterLogger(l *slog.Logger) ImporterOption {
	return func(i *Importer) {
		i.logger = l
	}
}

// Importer links a manifest with registered exports.
type Importer struct {
	registry *Registry
	source   Source
	logger   *slog.Logger

	mu       sync.Mutex
	manifest *Manifest
}

var _ router.ModuleImporter = (*Importer)(nil)

// NewImporter creates an importer. The manifest is read on first use.
func NewImporter(r *Registry, src Source, opts ...ImporterOption) *Importer {
	i := &Importer{registry: r, source: src, logger: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import implements router.ModuleImporter.
func (i *Importer) Import(ctx context.Context, name string) (router.Exports, error) {
	m, err := i.Module(ctx, name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Module returns the named module, restricted to the exports the manifest
// lists for it.
func (i *Importer) Module(ctx context.Context, name string) (*Module, error) {
	m, err := i.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := m.Modules[name]
	if !ok {
		return nil, fmt.Errorf("import %q: not in manifest %s: %w", name, i.source, ErrModuleNotFound)
	}
	registered, ok := i.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("import %q: not registered: %w", name, ErrModuleNotFound)
	}

	exports := make(Exports, len(entry.Exports))
	for _, x := range entry.Exports {
		v, ok := registered[x]
		if !ok {
			return nil, fmt.Errorf("import %q: %q: %w", name, x, ErrExportNotFound)
		}
		exports[x] = v
	}
	i.logger.Debug("module imported", "module", name, "exports", entry.Exports, "file", entry.File)
	return &Module{Name: name, File: entry.File, exports: exports}, nil
}

// Manifest returns the source's manifest, reading it on first use. A failed
// read is not kept.
func (i *Importer) Manifest(ctx context.Context) (*Manifest, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.manifest != nil {
		return i.manifest, nil
	}
	m, err := i.source.Manifest(ctx)
	if err != nil {
		i.logger.Warn("manifest read failed", "source", i.source.String(), "error", err)
		return nil, err
	}
	i.logger.Info("manifest loaded", "source", i.source.String(), "version", m.Version, "modules", len(m.Modules))
	i.manifest = m
	return m, nil
}

// Check imports every module in want and verifies that the manifest exposes
// the exports listed for it. All failures are returned joined.
func (i *Importer) Check(ctx context.Context, want map[string][]string) error {
	names := make([]string, 0, len(want))
	for n := range want {
		names = append(names, n)
	}
	sort.Strings(names)

	var errs []error
	for _, n := range names {
		m, err := i.Module(ctx, n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, x := range want[n] {
			if _, ok := m.Export(x); !ok {
				errs = append(errs, fmt.Errorf("module %q: export %q not in manifest %s: %w",
					n, x, i.source, router.ErrMissingCapability))
			}
		}
	}
	return errors.Join(errs...)
}
