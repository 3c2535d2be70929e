// Package sync regenerates every artifact an application's manifest
// calls for. The operation is a convergence: manifests are the single
// source of truth, rendering is deterministic, and files that already
// match are left untouched, so running it twice changes nothing.
package sync

import (
	"context"
	"io/fs"
	"time"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/browser"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
	"github.com/pwa-forge/pwa-forge/pkg/render"
)

// Options holds options for the sync command
type Options struct {
	// AppID limits the sync to one application; empty means all
	AppID string
	// DryRun reports planned changes without touching anything
	DryRun bool
}

// AppResult describes the sync outcome for one application
type AppResult struct {
	ID        string
	Artifacts []artifact.WriteResult
	Warnings  []string
	Err       error
}

// Changed reports whether any artifact was (or would be) written
func (r AppResult) Changed() bool {
	for _, a := range r.Artifacts {
		if a.Action == artifact.ActionCreate || a.Action == artifact.ActionUpdate {
			return true
		}
	}
	return false
}

// Result is the outcome of a sync run
type Result struct {
	Apps   []AppResult
	DryRun bool
}

// Failed reports whether any application failed to sync
func (r *Result) Failed() bool {
	for _, app := range r.Apps {
		if app.Err != nil {
			return true
		}
	}
	return false
}

// Sync regenerates artifacts for one application or all of them. A
// failing application does not abort the rest; its error is carried in
// the per-app result.
func Sync(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.sync")

	ids := []string{opts.AppID}
	if opts.AppID == "" {
		var err error
		ids, err = rt.Store.ListIDs()
		if err != nil {
			return nil, err
		}
	}

	result := &Result{DryRun: opts.DryRun}
	desktopChanged := false
	for _, id := range ids {
		appResult := syncApp(rt, id, opts.DryRun)
		result.Apps = append(result.Apps, appResult)
		if appResult.Err == nil && appResult.Changed() {
			desktopChanged = true
		}
	}

	if desktopChanged && !opts.DryRun {
		if err := rt.Runner.UpdateDesktopDatabase(ctx, rt.Paths.DesktopDir()); err != nil {
			logger.Warn().Err(err).Msg("desktop database refresh failed")
		}
	}

	logger.Info().
		Str("command", "sync").
		Int("apps", len(result.Apps)).
		Bool("dry_run", opts.DryRun).
		Bool("failed", result.Failed()).
		Msg("Sync completed")
	return result, nil
}

func syncApp(rt *runtime.Runtime, id string, dryRun bool) AppResult {
	m, err := rt.Store.Load(id)
	if err != nil {
		return AppResult{ID: id, Err: err}
	}
	return syncManifest(rt, m, dryRun)
}

// Preview reports what a sync of m would write, without requiring the
// manifest to be saved and without touching anything.
func Preview(rt *runtime.Runtime, m *manifest.Manifest) AppResult {
	return syncManifest(rt, m, true)
}

func syncManifest(rt *runtime.Runtime, m *manifest.Manifest, dryRun bool) AppResult {
	id := m.ID
	result := AppResult{ID: id}

	browserExec, err := browser.Resolve(m.Browser.String(), rt.Config)
	if err != nil {
		result.Err = err
		return result
	}

	result.Warnings = driftWarnings(rt, m)

	writer := artifact.NewWriter(rt.FS, dryRun)
	wrapperPath := rt.Paths.WrapperPath(id)
	desktopPath := rt.Paths.DesktopFilePath(id)

	rendered := render.AppArtifacts(render.AppInputs{
		Manifest:    m,
		BrowserExec: browserExec,
		WrapperPath: wrapperPath,
		IconPath:    m.Icon,
	}, rt.Config)

	writes := []struct {
		path    string
		content string
		mode    fs.FileMode
	}{
		{wrapperPath, rendered[render.KindWrapper], 0o755},
		{desktopPath, rendered[render.KindDesktop], 0o644},
	}
	if m.Inject != nil {
		writes = append(writes, struct {
			path    string
			content string
			mode    fs.FileMode
		}{m.Inject.Userscript, userscriptContent(rt, m), 0o644})
	}

	for _, w := range writes {
		res, err := writer.Write(w.path, []byte(w.content), w.mode)
		if err != nil {
			result.Err = err
			return result
		}
		result.Artifacts = append(result.Artifacts, res)
	}

	if dryRun {
		return result
	}

	if result.Changed() {
		m.Modified = time.Now().UTC()
		if err := rt.Store.Save(m, false); err != nil {
			result.Err = err
			return result
		}
	}

	_, err = rt.Registry.Modify(func(s registry.State) (registry.State, error) {
		return s.WithApp(registry.AppEntry{
			ID:            m.ID,
			Name:          m.Name,
			URL:           m.URL,
			ManifestPath:  rt.Store.Path(m.ID),
			DesktopFile:   desktopPath,
			WrapperScript: wrapperPath,
			Status:        registry.StatusActive,
		}), nil
	})
	if err != nil {
		result.Err = err
	}
	return result
}

// UserscriptFor renders the link-rewriting userscript for a manifest.
// The scheme falls back to the configured external link scheme and the
// in-scope host is taken from the manifest URL.
func UserscriptFor(rt *runtime.Runtime, m *manifest.Manifest) (string, error) {
	if m.Inject == nil {
		return "", errors.Newf(errors.ErrInvalidInput,
			"application %s has no userscript injection configured", m.ID)
	}
	return userscriptContent(rt, m), nil
}

func userscriptContent(rt *runtime.Runtime, m *manifest.Manifest) string {
	scheme := m.Inject.UserscriptScheme
	if scheme == "" {
		scheme = rt.Config.ExternalLinkScheme
	}
	return render.Userscript(render.UserscriptInputs{
		Scheme:       scheme,
		InScopeHosts: m.InScopeHosts(),
	})
}

// driftWarnings flags artifacts modified more recently than the
// manifest. Hand edits are legal but will be overwritten, so the
// warning is informational and never blocks the sync.
func driftWarnings(rt *runtime.Runtime, m *manifest.Manifest) []string {
	manifestInfo, err := rt.FS.Stat(rt.Store.Path(m.ID))
	if err != nil {
		return nil
	}
	var warnings []string
	for _, path := range []string{rt.Paths.WrapperPath(m.ID), rt.Paths.DesktopFilePath(m.ID)} {
		info, err := rt.FS.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(manifestInfo.ModTime()) {
			warnings = append(warnings, path+" was modified after the manifest; local edits will be overwritten")
		}
	}
	return warnings
}
