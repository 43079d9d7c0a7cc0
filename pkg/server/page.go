package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/pkg/render"
	"github.com/hatchet-dev/console/pkg/routepath"
	"github.com/hatchet-dev/console/pkg/router"
	"github.com/hatchet-dev/console/pkg/view"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	target := r.URL.RequestURI()
	ctx := api.WithCookie(r.Context(), r.Header.Get("Cookie"))

	res, err := s.resolver.Resolve(ctx, target)
	if res == nil {
		switch {
		case err == nil:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		case ctx.Err() != nil:
			// Client went away.
		case errors.Is(err, routepath.ErrOutsideBase):
			http.NotFound(w, r)
		default:
			http.Error(w, "Invalid path", http.StatusBadRequest)
		}
		return
	}

	if err == nil && len(res.Redirects) > 0 {
		http.Redirect(w, r, res.Href, http.StatusFound)
		return
	}
	if err == nil && res.Location.Changed {
		http.Redirect(w, r, res.Href, http.StatusPermanentRedirect)
		return
	}

	status := http.StatusOK
	body := res.View
	switch {
	case err != nil:
		status = statusForError(err)
		body = s.errorView(res, err)
	case res.Status == router.StatusNotFound:
		status = http.StatusNotFound
	}

	page := render.Page{
		Title: s.title(res),
		Body:  body,
		Boot: &render.Boot{
			Navigation: res.ID,
			Href:       res.Href,
			Basename:   s.resolver.Basename(),
			Socket:     s.config.WebSocketPath,
			Status:     res.Status.String(),
		},
	}

	// Render before writing the header so a render failure can still 500.
	var buf bytes.Buffer
	if err := render.WritePage(&buf, page); err != nil {
		s.logger.Error("page render failed", "path", target, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}
}

// statusForError maps a route error to an HTTP status.
func statusForError(err error) int {
	var loop *router.RedirectLoopError
	if errors.As(err, &loop) {
		return http.StatusLoopDetected
	}
	return http.StatusInternalServerError
}

// title names the document after the leaf route.
func (s *Server) title(res *router.Resolution) string {
	if res.Status == router.StatusNotFound {
		return s.config.Title + " | Not found"
	}
	leaf := res.Leaf()
	if leaf == nil {
		return s.config.Title
	}
	name := strings.ReplaceAll(leaf.Route.ID(), "-", " ")
	if name == "" {
		return s.config.Title
	}
	return s.config.Title + " | " + strings.ToUpper(name[:1]) + name[1:]
}

// errorView is the error boundary. It renders in place of the whole chain.
func (s *Server) errorView(res *router.Resolution, err error) *view.VNode {
	msg := "The page could not be loaded. Reload to try again."
	var loop *router.RedirectLoopError
	if errors.As(err, &loop) {
		msg = "The page redirected too many times."
	}
	children := []*view.VNode{
		view.H1(nil, view.Text("Something went wrong")),
		view.P(nil, view.Text(msg)),
	}
	if s.config.Debug {
		children = append(children, view.El("pre", nil, view.Text(err.Error())))
	}
	children = append(children, view.A(s.homeHref(), view.Text("Back to the console")))
	return view.Div(view.Attrs{"class": "error-boundary", "data-navigation": res.ID}, children...)
}

func (s *Server) homeHref() string {
	return routepath.JoinBase("/", s.resolver.Basename())
}
