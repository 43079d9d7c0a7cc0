package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Source reads a manifest.
type Source interface {
	Manifest(ctx context.Context) (*Manifest, error)
	String() string
}

// BuiltinSource serves every registered module.
type BuiltinSource struct {
	registry *Registry
	version  string
}

// NewBuiltinSource creates a source backed by the registry itself.
func NewBuiltinSource(r *Registry, version string) *BuiltinSource {
	return &BuiltinSource{registry: r, version: version}
}

// Manifest implements Source.
func (s *BuiltinSource) Manifest(ctx context.Context) (*Manifest, error) {
	return ManifestFromRegistry(s.registry, s.version), nil
}

func (s *BuiltinSource) String() string { return "builtin" }

// FSSource reads a manifest file from a filesystem.
type FSSource struct {
	fsys fs.FS
	name string
}

// NewFSSource creates a source reading name from fsys.
func NewFSSource(fsys fs.FS, name string) *FSSource {
	return &FSSource{fsys: fsys, name: name}
}

// Manifest implements Source.
func (s *FSSource) Manifest(ctx context.Context) (*Manifest, error) {
	data, err := fs.ReadFile(s.fsys, s.name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read manifest %s: %w", s.name, ErrManifestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", s.name, err)
	}
	return ParseManifest(s.name, data)
}

func (s *FSSource) String() string { return "fs:" + s.name }
