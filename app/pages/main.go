package pages

import (
	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/pkg/view"
)

// page renders a titled section; list pages fetch their rows from the
// browser.
func page(title, resource string, children ...*view.VNode) *view.VNode {
	body := append([]*view.VNode{view.H1(nil, view.Text(title))}, children...)
	return view.Section(view.Attrs{"class": "page", "data-resource": resource}, body...)
}

// Events lists recent events.
func Events(ctx *view.Context) *view.VNode {
	return page("Events", "events",
		ctx.Link("/events/metrics", view.Text("Metrics")),
	)
}

// EventMetrics shows event throughput.
func EventMetrics(ctx *view.Context) *view.VNode {
	return page("Event Metrics", "events/metrics")
}

// Workflows lists workflows.
func Workflows(ctx *view.Context) *view.VNode {
	return page("Workflows", "workflows")
}

// Workflow shows one workflow and its versions.
func Workflow(ctx *view.Context) *view.VNode {
	w, ok := ctx.Data.(*api.Workflow)
	if !ok || w == nil {
		return page("Workflow", "workflows/"+ctx.Param("workflow"))
	}
	versions := make([]*view.VNode, len(w.Versions))
	for i, v := range w.Versions {
		versions[i] = view.Li(nil, view.Text("v"+v.Version+" "+v.CreatedAt.Format("2006-01-02")))
	}
	return page(w.Name, "workflows/"+w.ID,
		view.P(nil, view.Text(w.Description)),
		view.H2(nil, view.Text("Versions")),
		view.Ul(nil, versions...),
	)
}

// WorkflowRuns lists workflow runs.
func WorkflowRuns(ctx *view.Context) *view.VNode {
	return page("Workflow Runs", "workflow-runs")
}

// WorkflowRun shows one run.
func WorkflowRun(ctx *view.Context) *view.VNode {
	return page("Run "+ctx.Param("run"), "workflow-runs/"+ctx.Param("run"))
}

// Workers lists workers.
func Workers(ctx *view.Context) *view.VNode {
	return page("Workers", "workers")
}

// Worker shows one worker.
func Worker(ctx *view.Context) *view.VNode {
	return page("Worker "+ctx.Param("worker"), "workers/"+ctx.Param("worker"))
}

// TenantSettings shows tenant settings.
func TenantSettings(ctx *view.Context) *view.VNode {
	return page("Settings", "tenant-settings")
}

// NotFound renders unmatched paths inside the root layout.
func NotFound(ctx *view.Context) *view.VNode {
	return page("Page not found", "not-found",
		view.P(nil, view.Text("Nothing lives at "+ctx.Path+".")),
		ctx.Link("/", view.Text("Go to the console")),
	)
}
