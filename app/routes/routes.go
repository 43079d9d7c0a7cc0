// Package routes declares the console route table.
package routes

import (
	"github.com/hatchet-dev/console/pkg/router"
)

// Route IDs. Loaders use them to read ancestor data through
// router.LoaderArgs.Parent.
const (
	IDRoot           = "root"
	IDNoAuth         = "no-auth"
	IDLogin          = "login"
	IDRegister       = "register"
	IDVerifyEmail    = "verify-email"
	IDAuthenticated  = "authenticated"
	IDIndex          = "index"
	IDCreateTenant   = "create-tenant"
	IDInvites        = "invites"
	IDMain           = "main"
	IDEvents         = "events"
	IDEventMetrics   = "event-metrics"
	IDWorkflows      = "workflows"
	IDWorkflow       = "workflow"
	IDWorkflowRuns   = "workflow-runs"
	IDWorkflowRun    = "workflow-run"
	IDWorkers        = "workers"
	IDWorker         = "worker"
	IDTenantSettings = "tenant-settings"
)

// Page module names.
const (
	ModuleRoot           = "pages/root"
	ModuleNoAuth         = "pages/auth/no-auth"
	ModuleLogin          = "pages/auth/login"
	ModuleRegister       = "pages/auth/register"
	ModuleVerifyEmail    = "pages/onboarding/verify-email"
	ModuleAuthenticated  = "pages/authenticated"
	ModuleCreateTenant   = "pages/onboarding/create-tenant"
	ModuleInvites        = "pages/onboarding/invites"
	ModuleMain           = "pages/main"
	ModuleEvents         = "pages/main/events"
	ModuleEventMetrics   = "pages/main/events/metrics"
	ModuleWorkflows      = "pages/main/workflows"
	ModuleWorkflow       = "pages/main/workflows/$workflow"
	ModuleWorkflowRuns   = "pages/main/workflow-runs"
	ModuleWorkflowRun    = "pages/main/workflow-runs/$run"
	ModuleWorkers        = "pages/main/workers"
	ModuleWorker         = "pages/main/workers/$worker"
	ModuleTenantSettings = "pages/main/tenant-settings"
)

// DefaultPath is where the authenticated index redirects.
const DefaultPath = "/events"

const (
	loader    = router.CapLoader
	component = router.CapComponent
	both      = router.CapLoader | router.CapComponent
)

// Routes returns the console route declarations. Every page is imported
// through imp on first use.
func Routes(imp router.ModuleImporter, opts ...router.LazyOption) []*router.Route {
	return declare(func(module string, provides router.Capability) router.LazyFunc {
		return router.Lazy(imp, module, provides, opts...)
	})
}

// Requirements maps every page module to the exports its route declares.
func Requirements() map[string][]string {
	want := make(map[string][]string)
	declare(func(module string, provides router.Capability) router.LazyFunc {
		want[module] = provides.Exports()
		return nil
	})
	return want
}

func declare(lazy func(module string, provides router.Capability) router.LazyFunc) []*router.Route {
	page := func(id, path, module string, provides router.Capability, children ...*router.Route) *router.Route {
		return &router.Route{
			ID:       id,
			Path:     path,
			Provides: provides,
			Lazy:     lazy(module, provides),
			Children: children,
		}
	}

	return []*router.Route{
		page(IDRoot, "/", ModuleRoot, component,
			page(IDNoAuth, "/auth", ModuleNoAuth, loader,
				page(IDLogin, "/auth/login", ModuleLogin, component),
				page(IDRegister, "/auth/register", ModuleRegister, component),
			),
			page(IDVerifyEmail, "/onboarding/verify-email", ModuleVerifyEmail, both),
			page(IDAuthenticated, "/", ModuleAuthenticated, both,
				&router.Route{
					ID:       IDIndex,
					Path:     "/",
					Provides: loader,
					Lazy:     router.RedirectRoute(DefaultPath),
				},
				page(IDCreateTenant, "/onboarding/create-tenant", ModuleCreateTenant, component),
				page(IDInvites, "/onboarding/invites", ModuleInvites, both),
				page(IDMain, "/", ModuleMain, component,
					page(IDEvents, "/events", ModuleEvents, component),
					page(IDEventMetrics, "/events/metrics", ModuleEventMetrics, component),
					page(IDWorkflows, "/workflows", ModuleWorkflows, component),
					page(IDWorkflow, "/workflows/:workflow", ModuleWorkflow, both),
					page(IDWorkflowRuns, "/workflow-runs", ModuleWorkflowRuns, component),
					page(IDWorkflowRun, "/workflow-runs/:run", ModuleWorkflowRun, component),
					page(IDWorkers, "/workers", ModuleWorkers, component),
					page(IDWorker, "/workers/:worker", ModuleWorker, component),
					page(IDTenantSettings, "/tenant-settings", ModuleTenantSettings, component),
				),
			),
		),
	}
}

// Tree compiles Routes(imp, opts...).
func Tree(imp router.ModuleImporter, opts ...router.LazyOption) (*router.Tree, error) {
	return router.NewTree(Routes(imp, opts...)...)
}

// Modules lists every page module the table imports, in declaration order.
func Modules() []string {
	return []string{
		ModuleRoot, ModuleNoAuth, ModuleLogin, ModuleRegister, ModuleVerifyEmail,
		ModuleAuthenticated, ModuleCreateTenant, ModuleInvites, ModuleMain,
		ModuleEvents, ModuleEventMetrics, ModuleWorkflows, ModuleWorkflow,
		ModuleWorkflowRuns, ModuleWorkflowRun, ModuleWorkers, ModuleWorker,
		ModuleTenantSettings,
	}
}
