// Package modules supplies page modules to the router's lazy adapter.
//
// A page module is a named set of exports. The Go values behind the exports
// are compiled in and registered in a Registry; which modules and exports a
// deployment actually serves is described by a Manifest read from a Source:
// the registry itself, a directory, or an S3 bucket. The Importer links the
// two and implements router.ModuleImporter:
//
//	reg := modules.NewRegistry()
//	pages.Register(reg)
//	imp := modules.NewImporter(reg, modules.NewFSSource(os.DirFS("dist"), "manifest.json"))
//	tree := routes.MustTree(imp)
//
// An import fails when the manifest cannot be read, when it does not list the
// module, or when it lists an export the registry does not have. Failures are
// not cached, so a later import retries the manifest read.
package modules
