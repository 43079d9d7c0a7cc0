package modules

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrModuleNotFound is returned when a module is neither registered nor
	// listed in the manifest.
	ErrModuleNotFound = errors.New("module not found")

	// ErrExportNotFound is returned when the manifest lists an export the
	// registered module does not have.
	ErrExportNotFound = errors.New("export not found")

	// ErrManifestNotFound is returned when a source has no manifest.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrDuplicateModule is returned when a module name is registered twice.
	ErrDuplicateModule = errors.New("module already registered")
)

// Exports maps export names to values.
type Exports map[string]any

// Registry holds the compiled-in exports of every page module.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Exports
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Exports)}
}

// Register adds a module. The exports map is copied.
func (r *Registry) Register(name string, exports Exports) error {
	if name == "" {
		return fmt.Errorf("register: empty module name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateModule)
	}
	cp := make(Exports, len(exports))
	for k, v := range exports {
		if v == nil {
			continue
		}
		cp[k] = v
	}
	r.modules[name] = cp
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, exports Exports) {
	if err := r.Register(name, exports); err != nil {
		panic(err)
	}
}

// Lookup returns the exports of a module.
func (r *Registry) Lookup(name string) (Exports, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.modules[name]
	return e, ok
}

// Names returns the registered module names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for n := range r.modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

// names returns the sorted export names.
func (e Exports) names() []string {
	names := make([]string, 0, len(e))
	for n := range e {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
