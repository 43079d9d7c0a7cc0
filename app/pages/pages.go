// Package pages holds the console's page modules. Each module exports a
// "default" component, a "loader", or both, and is registered under the
// module name the route table imports.
package pages

import (
	"github.com/hatchet-dev/console/app/routes"
	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/pkg/modules"
	"github.com/hatchet-dev/console/pkg/router"
	"github.com/hatchet-dev/console/pkg/view"
)

// Register adds every page module to reg. Loaders consult client.
func Register(reg *modules.Registry, client api.Client) error {
	l := &loaders{api: client}
	for _, m := range []struct {
		name      string
		component view.Component
		loader    router.LoaderFunc
	}{
		{routes.ModuleRoot, view.ComponentFunc(Root), nil},
		{routes.ModuleNoAuth, nil, l.noAuth},
		{routes.ModuleLogin, view.ComponentFunc(Login), nil},
		{routes.ModuleRegister, view.ComponentFunc(SignUp), nil},
		{routes.ModuleVerifyEmail, view.ComponentFunc(VerifyEmail), l.verifyEmail},
		{routes.ModuleAuthenticated, view.ComponentFunc(Authenticated), l.authenticated},
		{routes.ModuleCreateTenant, view.ComponentFunc(CreateTenant), nil},
		{routes.ModuleInvites, view.ComponentFunc(Invites), l.invites},
		{routes.ModuleMain, view.ComponentFunc(MainLayout), nil},
		{routes.ModuleEvents, view.ComponentFunc(Events), nil},
		{routes.ModuleEventMetrics, view.ComponentFunc(EventMetrics), nil},
		{routes.ModuleWorkflows, view.ComponentFunc(Workflows), nil},
		{routes.ModuleWorkflow, view.ComponentFunc(Workflow), l.workflow},
		{routes.ModuleWorkflowRuns, view.ComponentFunc(WorkflowRuns), nil},
		{routes.ModuleWorkflowRun, view.ComponentFunc(WorkflowRun), nil},
		{routes.ModuleWorkers, view.ComponentFunc(Workers), nil},
		{routes.ModuleWorker, view.ComponentFunc(Worker), nil},
		{routes.ModuleTenantSettings, view.ComponentFunc(TenantSettings), nil},
	} {
		exports := modules.Exports{}
		if m.component != nil {
			exports[router.ExportDefault] = m.component
		}
		if m.loader != nil {
			exports[router.ExportLoader] = m.loader
		}
		if err := reg.Register(m.name, exports); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(reg *modules.Registry, client api.Client) {
	if err := Register(reg, client); err != nil {
		panic(err)
	}
}
