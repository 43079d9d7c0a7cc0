package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Resolution (R001-R009)

	"R001": {
		Category:   CategoryRouting,
		Message:    "No route matches the path",
		Detail:     "No chain of routes in the table consumes every segment of the path.",
		Suggestion: "Run `console routes` to list the declared paths.",
	},
	"R002": {
		Category:   CategoryRouting,
		Message:    "Redirect loop",
		Detail:     "Loaders kept redirecting past the configured limit.",
		Suggestion: "Check the redirect targets listed above; raise max_redirects only if the chain is intentional.",
	},
	"R003": {
		Category:   CategoryModule,
		Message:    "Page module failed to load",
		Detail:     "The route's lazy supplier could not provide its segment. The failure is not cached; navigating again retries it.",
		Suggestion: "Check that the module is registered and listed in the manifest.",
	},
	"R004": {
		Category:   CategoryRouting,
		Message:    "Route loader failed",
		Detail:     "A loader returned an error before the page could render.",
		Suggestion: "Check the API the loader calls; the error is not retried.",
	},
	"R005": {
		Category: CategoryRouting,
		Message:  "Component render failed",
		Detail:   "A route component panicked while rendering.",
	},
	"R006": {
		Category:   CategoryRouting,
		Message:    "Invalid path",
		Detail:     "The path contains a backslash, a NUL byte, a bad percent escape, or climbs above the root.",
		Suggestion: "Pass an absolute path such as /workflows/abc.",
	},
	"R007": {
		Category:   CategoryRouting,
		Message:    "Path is outside the basename",
		Detail:     "The console is mounted under a basename and the path does not start with it.",
		Suggestion: "Prefix the path with the configured basename, or drop --basename.",
	},

	// Route table (R010-R019)

	"R010": {
		Category: CategoryTable,
		Message:  "Duplicate sibling route",
		Detail:   "Two children of the same route declare the same path. Only the first could ever match.",
	},
	"R011": {
		Category: CategoryTable,
		Message:  "Child path outside its parent",
		Detail:   "An absolute child path must start with its parent's full path.",
	},
	"R012": {
		Category: CategoryTable,
		Message:  "Route provides nothing",
		Detail:   "A route must declare a loader, a component, or have children.",
	},
	"R013": {
		Category: CategoryTable,
		Message:  "Invalid route pattern",
		Detail:   "Params need a name, a splat must be the last segment, and a name may be bound only once per chain.",
	},
	"R014": {
		Category: CategoryTable,
		Message:  "Route has no lazy supplier",
		Detail:   "A route that declares capabilities needs a Lazy function to provide them.",
	},
	"R015": {
		Category: CategoryTable,
		Message:  "Duplicate route ID",
		Detail:   "Route IDs must be unique across the whole table.",
	},

	// Modules (M001-M009)

	"M001": {
		Category:   CategoryModule,
		Message:    "Module manifest not found",
		Suggestion: "Check modules.source and its dir, bucket or key settings.",
	},
	"M002": {
		Category:   CategoryModule,
		Message:    "Module not found",
		Detail:     "The module is missing from the manifest or was never registered.",
		Suggestion: "Rebuild the manifest, or register the page in app/pages.",
	},
	"M003": {
		Category: CategoryModule,
		Message:  "Export not found",
		Detail:   "The manifest lists an export the registered module does not provide.",
	},
	"M004": {
		Category:   CategoryModule,
		Message:    "Declared capability missing",
		Detail:     "A route declares a loader or component its page module does not export.",
		Suggestion: "Add the export to the module's manifest entry, or drop it from the route's Provides.",
	},

	// Configuration (C001-C009)

	"C001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "console.json must be valid JSON; see `console serve --help` for keys.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A CONSOLE_* environment variable could not be parsed.",
	},

	// CLI (X001-X009)

	"X001": {
		Category: CategoryCLI,
		Message:  "Server failed",
	},
}

// Codes returns all registered error codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
