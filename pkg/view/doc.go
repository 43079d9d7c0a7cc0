// Package view is the small virtual node tree page components render into.
//
// Components receive a *Context carrying the matched route's parameters,
// its loader data and the already rendered output of the nested route. A
// layout places that output with ctx.Outlet():
//
//	func Shell(ctx *view.Context) *view.VNode {
//	    return view.Div(view.Attrs{"class": "shell"},
//	        view.Nav(nil, view.A("/events", view.Text("Events"))),
//	        view.Main(nil, ctx.Outlet()),
//	    )
//	}
//
// Trees are written to HTML with Render or RenderString.
package view
