// Package router resolves console URLs against a statically declared,
// nested route tree.
//
// A tree is a list of Route declarations. Each route names a path pattern,
// the capabilities its page module provides (a loader, a component or both)
// and a LazyFunc that materializes those capabilities on first use:
//
//	tree, err := router.NewTree(&router.Route{
//	    Path:     "/",
//	    Provides: router.CapComponent,
//	    Lazy:     router.Lazy(importer, "pages/root", router.CapComponent),
//	    Children: []*router.Route{
//	        {Path: "/workflows/:workflow", Provides: router.CapLoader | router.CapComponent, Lazy: ...},
//	    },
//	})
//
// # Matching
//
// Children are tried in declaration order and the first child whose subtree
// consumes the whole path wins. There is no specificity scoring: static
// routes must be declared before parameterized siblings that could shadow
// them. Static segments compare case-insensitively, ":name" binds exactly one
// non-empty segment and a trailing "*" binds the remainder.
//
// # Resolution
//
// Resolver.Resolve matches the path, loads every segment in the matched
// chain root to leaf through a SegmentCache, runs loaders root to leaf and
// renders leaf first so every component wraps its descendants through
// view.Context.Outlet. A loader that returns a *Redirect restarts resolution
// at the target and turns the navigation into a history replace.
//
// Navigator layers browser-like history on top of a Resolver. A navigation
// started while another is in flight cancels it; the superseded call returns
// ErrSuperseded and never touches history.
package router
