package errors

import (
	stderrors "errors"
	"strings"

	"github.com/hatchet-dev/console/internal/config"
	"github.com/hatchet-dev/console/pkg/modules"
	"github.com/hatchet-dev/console/pkg/routepath"
	"github.com/hatchet-dev/console/pkg/router"
)

// FromError maps router, module, path and config errors to coded errors.
// Errors it does not recognize are wrapped uncoded. nil maps to nil.
func FromError(err error) *ConsoleError {
	if err == nil {
		return nil
	}

	var (
		ce   *ConsoleError
		mle  *router.ModuleLoadError
		le   *router.LoaderError
		re   *router.RenderError
		loop *router.RedirectLoopError
		nm   *router.NoMatchError
	)
	switch {
	case stderrors.As(err, &ce):
		return ce
	case stderrors.As(err, &loop):
		return New("R002").Wrap(err).
			WithLocation("", loop.Path).
			WithDetail("Followed " + strings.Join(loop.Hops, " -> ") + " without reaching a page.")
	case stderrors.As(err, &mle):
		e := New("R003").Wrap(err).WithLocation(mle.RouteID, "")
		return refineModule(e, err)
	case stderrors.As(err, &le):
		return New("R004").Wrap(err).WithLocation(le.RouteID, le.Path)
	case stderrors.As(err, &re):
		return New("R005").Wrap(err).WithLocation(re.RouteID, "")
	case stderrors.As(err, &nm):
		return New("R001").WithLocation("", nm.Path)
	case stderrors.Is(err, routepath.ErrOutsideBase):
		return New("R007").Wrap(err)
	case isPathError(err):
		return New("R006").Wrap(err)
	case stderrors.Is(err, router.ErrDuplicateSibling):
		return New("R010").Wrap(err)
	case stderrors.Is(err, router.ErrPathOutsideParent):
		return New("R011").Wrap(err)
	case stderrors.Is(err, router.ErrEmptyRoute):
		return New("R012").Wrap(err)
	case stderrors.Is(err, router.ErrInvalidPattern):
		return New("R013").Wrap(err)
	case stderrors.Is(err, router.ErrMissingLazy):
		return New("R014").Wrap(err)
	case stderrors.Is(err, router.ErrDuplicateID):
		return New("R015").Wrap(err)
	case stderrors.Is(err, modules.ErrManifestNotFound),
		stderrors.Is(err, modules.ErrModuleNotFound),
		stderrors.Is(err, modules.ErrExportNotFound),
		stderrors.Is(err, router.ErrMissingCapability):
		return refineModule(nil, err)
	case stderrors.Is(err, config.ErrInvalidFile):
		return New("C001").Wrap(err)
	case stderrors.Is(err, config.ErrInvalidValue):
		return New("C002").Wrap(err)
	case stderrors.Is(err, config.ErrInvalidEnv):
		return New("C003").Wrap(err)
	}
	return &ConsoleError{Category: CategoryCLI, Message: err.Error()}
}

// refineModule replaces the generic module code with a manifest, module or
// export code when err says which. The location is kept.
func refineModule(e *ConsoleError, err error) *ConsoleError {
	var code string
	switch {
	case stderrors.Is(err, modules.ErrManifestNotFound):
		code = "M001"
	case stderrors.Is(err, modules.ErrModuleNotFound):
		code = "M002"
	case stderrors.Is(err, modules.ErrExportNotFound):
		code = "M003"
	case stderrors.Is(err, router.ErrMissingCapability):
		code = "M004"
	default:
		return e
	}
	refined := New(code).Wrap(err)
	if e != nil {
		refined.Location = e.Location
	}
	return refined
}

func isPathError(err error) bool {
	for _, target := range []error{
		routepath.ErrInvalidPath,
		routepath.ErrBackslashInPath,
		routepath.ErrNullByteInPath,
		routepath.ErrInvalidPercentEscape,
		routepath.ErrPathEscapesRoot,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}
