package modules

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes the modules a deployment serves.
type Manifest struct {
	// Version identifies the build that produced the manifest.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	Modules map[string]ManifestEntry `json:"modules" yaml:"modules"`
}

// ManifestEntry is one module of a manifest.
type ManifestEntry struct {
	// Exports lists the export names the module provides.
	Exports []string `json:"exports" yaml:"exports"`

	// File is the asset the module was built into, if any.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ParseManifest decodes a manifest. name selects the format by extension:
// ".yaml" and ".yml" are YAML, anything else is JSON.
func ParseManifest(name string, data []byte) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", name, err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", name, err)
	}
	return &m, nil
}

// Validate checks that module names are set and exports are not repeated.
func (m *Manifest) Validate() error {
	for name, e := range m.Modules {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("module with empty name")
		}
		seen := make(map[string]bool, len(e.Exports))
		for _, x := range e.Exports {
			if x == "" {
				return fmt.Errorf("module %q: empty export name", name)
			}
			if seen[x] {
				return fmt.Errorf("module %q: export %q listed twice", name, x)
			}
			seen[x] = true
		}
	}
	return nil
}

// Names returns the module names, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Modules))
	for n := range m.Modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ManifestFromRegistry lists every registered module with all its exports.
func ManifestFromRegistry(r *Registry, version string) *Manifest {
	m := &Manifest{Version: version, Modules: make(map[string]ManifestEntry)}
	for _, name := range r.Names() {
		e, _ := r.Lookup(name)
		m.Modules[name] = ManifestEntry{Exports: e.names()}
	}
	return m
}
