// Package handler installs and removes custom URL scheme handlers.
// A handler is a shell script plus a hidden desktop entry registered
// with xdg-mime, so links rewritten to the custom scheme reopen in the
// system browser.
package handler

import (
	"context"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/browser"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
	"github.com/pwa-forge/pwa-forge/pkg/render"
)

// InstallOptions holds options for handler installation
type InstallOptions struct {
	Scheme string
	// Browser opens rewritten links; empty uses the configured default
	Browser string
	// Force reinstalls over an existing handler
	Force bool
	// DryRun reports planned changes without touching anything
	DryRun bool
}

// InstallResult is the outcome of a handler installation
type InstallResult struct {
	Entry     registry.HandlerEntry
	Artifacts []artifact.WriteResult
	DryRun    bool
}

// Install writes the handler script and desktop entry for a scheme and
// registers it as the x-scheme-handler default.
func Install(ctx context.Context, rt *runtime.Runtime, opts InstallOptions) (*InstallResult, error) {
	logger := logging.GetLogger("commands.handler")

	if err := manifest.ValidateScheme(opts.Scheme); err != nil {
		return nil, err
	}
	browserName := opts.Browser
	if browserName == "" {
		browserName = rt.Config.DefaultBrowser
	}
	browserExec, err := browser.Resolve(browserName, rt.Config)
	if err != nil {
		return nil, err
	}

	state, err := rt.Registry.Read()
	if err != nil {
		return nil, err
	}
	if existing := state.FindHandler(opts.Scheme); existing != nil && !opts.Force {
		return nil, errors.Newf(errors.ErrHandlerExists,
			"scheme %q already has a handler; use --force to replace it", opts.Scheme)
	}

	entry := registry.HandlerEntry{
		Scheme:      opts.Scheme,
		Browser:     browserName,
		DesktopFile: rt.Paths.HandlerDesktopFilePath(opts.Scheme),
		Script:      rt.Paths.HandlerScriptPath(opts.Scheme),
	}
	result := &InstallResult{Entry: entry, DryRun: opts.DryRun}

	writer := artifact.NewWriter(rt.FS, opts.DryRun)
	script, err := writer.Write(entry.Script,
		[]byte(render.HandlerScript(entry.Scheme, entry.Browser, browserExec)), 0o755)
	if err != nil {
		return nil, err
	}
	desktop, err := writer.Write(entry.DesktopFile,
		[]byte(render.HandlerDesktopEntry(entry.Scheme, entry.Browser, entry.Script)), 0o644)
	if err != nil {
		return nil, err
	}
	result.Artifacts = append(result.Artifacts, script, desktop)

	if opts.DryRun {
		return result, nil
	}

	if _, err := rt.Registry.Modify(func(s registry.State) (registry.State, error) {
		return s.WithHandler(entry), nil
	}); err != nil {
		return nil, err
	}

	if err := rt.Runner.UpdateDesktopDatabase(ctx, rt.Paths.DesktopDir()); err != nil {
		logger.Warn().Err(err).Msg("desktop database refresh failed")
	}
	if err := rt.Runner.XdgMimeDefault(ctx,
		paths.HandlerDesktopFileName(entry.Scheme), "x-scheme-handler/"+entry.Scheme); err != nil {
		return nil, err
	}

	logger.Info().Str("scheme", entry.Scheme).Str("browser", entry.Browser).Msg("handler installed")
	return result, nil
}

// RemoveOptions holds options for handler removal
type RemoveOptions struct {
	Scheme string
	DryRun bool
}

// Remove deletes a handler's artifacts and registry entry
func Remove(ctx context.Context, rt *runtime.Runtime, opts RemoveOptions) error {
	logger := logging.GetLogger("commands.handler")

	state, err := rt.Registry.Read()
	if err != nil {
		return err
	}
	entry := state.FindHandler(opts.Scheme)
	if entry == nil {
		return errors.Newf(errors.ErrHandlerNotFound, "no handler registered for scheme %q", opts.Scheme)
	}

	writer := artifact.NewWriter(rt.FS, opts.DryRun)
	if _, err := writer.Remove(entry.Script); err != nil {
		return err
	}
	if _, err := writer.Remove(entry.DesktopFile); err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}

	if _, err := rt.Registry.Modify(func(s registry.State) (registry.State, error) {
		return s.WithoutHandler(opts.Scheme), nil
	}); err != nil {
		return err
	}
	if err := rt.Runner.UpdateDesktopDatabase(ctx, rt.Paths.DesktopDir()); err != nil {
		logger.Warn().Err(err).Msg("desktop database refresh failed")
	}

	logger.Info().Str("scheme", opts.Scheme).Msg("handler removed")
	return nil
}

// List returns the installed handlers
func List(rt *runtime.Runtime) ([]registry.HandlerEntry, error) {
	state, err := rt.Registry.Read()
	if err != nil {
		return nil, err
	}
	return state.Handlers, nil
}
