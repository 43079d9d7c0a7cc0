// Package render writes the HTML document shell around a rendered route view.
//
// The resolver produces a *view.VNode for the matched chain; the server wraps
// it in a complete document with head tags, the navigation bootstrap and the
// client script:
//
//	err := render.WritePage(w, render.Page{
//	    Title: "Events",
//	    Body:  res.View,
//	    Boot:  &render.Boot{Navigation: res.ID, Href: res.Href, Socket: "/ws"},
//	})
//
// Text and attribute values are escaped; Body is rendered by package view.
package render
