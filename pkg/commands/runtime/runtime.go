// Package runtime wires the shared dependencies every command needs:
// paths, configuration, registry, manifest store, filesystem, and the
// desktop integration runner. Commands accept a Runtime so tests can
// substitute fakes.
package runtime

import (
	"github.com/pwa-forge/pwa-forge/pkg/config"
	"github.com/pwa-forge/pwa-forge/pkg/filesystem"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
	"github.com/pwa-forge/pwa-forge/pkg/system"
)

// Runtime bundles the dependencies shared by all commands
type Runtime struct {
	Paths    *paths.Paths
	Config   *config.Config
	Registry *registry.Registry
	Store    *manifest.Store
	FS       filesystem.FS
	Runner   system.Runner
}

// New builds a production Runtime from the ambient environment
func New() (*Runtime, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Paths:    p,
		Config:   cfg,
		Registry: registry.New(p.RegistryPath()),
		Store:    manifest.NewStore(p),
		FS:       filesystem.NewOS(),
		Runner:   system.NewRunner(),
	}, nil
}

// NewWith builds a Runtime with explicit dependencies, filling in
// production defaults for nil fields. Tests use it to inject fakes.
func NewWith(p *paths.Paths, cfg *config.Config, fsys filesystem.FS, runner system.Runner) *Runtime {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	if runner == nil {
		runner = system.NewRunner()
	}
	return &Runtime{
		Paths:    p,
		Config:   cfg,
		Registry: registry.New(p.RegistryPath()),
		Store:    manifest.NewStore(p),
		FS:       fsys,
		Runner:   runner,
	}
}
