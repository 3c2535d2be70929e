// Package testutil builds isolated pwa-forge environments for tests:
// temporary XDG directories, a fake browser executable, and seeded
// config and manifests. Nothing here touches the real home directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/config"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
)

// Env is an isolated pwa-forge installation rooted in a temp dir
type Env struct {
	t *testing.T

	Root        string
	Paths       *paths.Paths
	Config      *config.Config
	Registry    *registry.Registry
	BrowserExec string
}

// NewEnv creates an isolated environment. Data and config dirs point
// into a temp root via the override env vars, HOME is redirected, and
// a fake chrome executable is installed and configured.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	root := t.TempDir()

	dataDir := filepath.Join(root, "data")
	configDir := filepath.Join(root, "config")
	home := filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.MkdirAll(home, 0o755))

	t.Setenv("HOME", home)
	t.Setenv(paths.EnvDataDir, dataDir)
	t.Setenv(paths.EnvConfigDir, configDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	browserExec := filepath.Join(root, "bin", "fake-chrome")
	require.NoError(t, os.MkdirAll(filepath.Dir(browserExec), 0o755))
	require.NoError(t, os.WriteFile(browserExec, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	e := &Env{t: t, Root: root, BrowserExec: browserExec}
	e.WriteConfig("[browsers]\nchrome = \"" + browserExec + "\"\nfirefox = \"" + browserExec + "\"\n")
	return e
}

// WriteConfig replaces the user config file with the given TOML and
// reloads.
func (e *Env) WriteConfig(toml string) {
	e.t.Helper()
	p, err := paths.New()
	require.NoError(e.t, err)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(p.ConfigFilePath()), 0o755))
	require.NoError(e.t, os.WriteFile(p.ConfigFilePath(), []byte(toml), 0o644))

	cfg, err := config.Load(p)
	require.NoError(e.t, err)

	e.Paths = p
	e.Config = cfg
	e.Registry = registry.New(p.RegistryPath())
}

// Manifest returns a valid manifest for id, pointing at the
// environment's profile directory.
func (e *Env) Manifest(id string) *manifest.Manifest {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &manifest.Manifest{
		ID:         id,
		Name:       manifest.GenerateWMClass(id),
		URL:        "https://" + id + ".example.com/app",
		Browser:    manifest.BrowserChrome,
		Profile:    e.Paths.ProfileDir(id),
		WMClass:    manifest.GenerateWMClass(id),
		OutOfScope: manifest.OutOfScopeOpenInDefault,
		Created:    now,
		Modified:   now,
		Version:    manifest.SchemaVersion,
	}
}

// SaveManifest writes a manifest through the store
func (e *Env) SaveManifest(m *manifest.Manifest) {
	e.t.Helper()
	require.NoError(e.t, manifest.NewStore(e.Paths).Save(m, false))
}

// ReadFile reads a file and fails the test on error
func (e *Env) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}

// FileExists reports whether path exists
func (e *Env) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
