package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hatchet-dev/console/pkg/view"
)

// Export names a page module is expected to use.
const (
	ExportDefault = "default"
	ExportLoader  = "loader"
)

// Exports is the surface of an imported page module.
type Exports interface {
	// Export returns a named export, or false when the module does not have it.
	Export(name string) (any, bool)
}

// ModuleImporter fetches page modules by name.
type ModuleImporter interface {
	Import(ctx context.Context, module string) (Exports, error)
}

// LazyOption configures Lazy.
type LazyOption func(*lazyConfig)

type lazyConfig struct {
	logger *slog.Logger
}

// WithLazyLogger sets the logger that reports undeclared exports.
func WithLazyLogger(l *slog.Logger) LazyOption {
	return func(c *lazyConfig) {
		c.logger = l
	}
}

// Lazy adapts a page module to a LazyFunc. The module's "default" export
// becomes the component and its "loader" export the loader, restricted to
// the capabilities in pick. A capability in pick that the module does not
// export, an export of the wrong type, and an import failure are reported
// as *ModuleLoadError. Exports outside pick are ignored with a warning.
func Lazy(imp ModuleImporter, module string, pick Capability, opts ...LazyOption) LazyFunc {
	cfg := lazyConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx context.Context) (Segment, error) {
		exports, err := imp.Import(ctx, module)
		if err != nil {
			return Segment{}, &ModuleLoadError{Module: module, Err: err}
		}

		var seg Segment
		var extra Capability
		if v, ok := exports.Export(ExportDefault); ok && v != nil {
			if !pick.Has(CapComponent) {
				extra |= CapComponent
			} else {
				c, err := asComponent(v)
				if err != nil {
					return Segment{}, &ModuleLoadError{Module: module, Err: err}
				}
				seg.Component = c
			}
		}
		if v, ok := exports.Export(ExportLoader); ok && v != nil {
			if !pick.Has(CapLoader) {
				extra |= CapLoader
			} else {
				l, err := asLoader(v)
				if err != nil {
					return Segment{}, &ModuleLoadError{Module: module, Err: err}
				}
				seg.Loader = l
			}
		}

		if missing := pick &^ seg.Capabilities(); missing != CapNone {
			return Segment{}, &ModuleLoadError{Module: module, Err: fmt.Errorf("%w: %s", ErrMissingCapability, missing)}
		}
		if extra != CapNone {
			cfg.logger.Warn("module exports undeclared capabilities",
				"module", module, "ignored", extra.String())
		}
		return seg, nil
	}
}

// Static returns a LazyFunc for a segment declared inline.
func Static(seg Segment) LazyFunc {
	return func(context.Context) (Segment, error) {
		return seg, nil
	}
}

// RedirectRoute returns a LazyFunc whose loader unconditionally redirects.
func RedirectRoute(to string) LazyFunc {
	return Static(Segment{
		Loader: func(context.Context, LoaderArgs) (any, error) {
			return RedirectTo(to), nil
		},
	})
}

func asComponent(v any) (view.Component, error) {
	switch c := v.(type) {
	case view.Component:
		return c, nil
	case func(*view.Context) *view.VNode:
		return view.ComponentFunc(c), nil
	default:
		return nil, fmt.Errorf("export %q is %T, not a component", ExportDefault, v)
	}
}

func asLoader(v any) (LoaderFunc, error) {
	switch l := v.(type) {
	case LoaderFunc:
		return l, nil
	case func(context.Context, LoaderArgs) (any, error):
		return l, nil
	default:
		return nil, fmt.Errorf("export %q is %T, not a loader", ExportLoader, v)
	}
}
