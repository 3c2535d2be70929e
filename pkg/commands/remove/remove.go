// Package remove deletes an application: its generated artifacts, its
// manifest, and its registry entry. The browser profile survives unless
// explicitly purged, so a re-add keeps logins intact.
package remove

import (
	"context"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
)

// Options holds options for the remove command
type Options struct {
	ID string
	// PurgeProfile also deletes the browser profile directory
	PurgeProfile bool
	// DryRun reports what would be removed without touching anything
	DryRun bool
}

// Result is the outcome of the remove command
type Result struct {
	ID      string
	Removed []artifact.WriteResult
	DryRun  bool
}

// Remove deletes an application. The id must be known, either as a
// manifest or as a registry entry; removing handles half-removed state
// so a failed earlier attempt can be cleaned up.
func Remove(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.remove")

	m, manifestErr := rt.Store.Load(opts.ID)
	state, err := rt.Registry.Read()
	if err != nil {
		return nil, err
	}
	entry := state.FindApp(opts.ID)
	if manifestErr != nil && entry == nil {
		if errors.IsErrorCode(manifestErr, errors.ErrManifestNotFound) {
			return nil, errors.Newf(errors.ErrAppNotFound, "no application named %q", opts.ID)
		}
		return nil, manifestErr
	}

	writer := artifact.NewWriter(rt.FS, opts.DryRun)
	result := &Result{ID: opts.ID, DryRun: opts.DryRun}

	targets := []string{
		rt.Paths.WrapperPath(opts.ID),
		rt.Paths.DesktopFilePath(opts.ID),
		rt.Paths.UserscriptPath(opts.ID),
	}
	if m != nil && m.Inject != nil {
		targets = append(targets, m.Inject.Userscript)
	}
	seen := map[string]bool{}
	for _, path := range targets {
		if seen[path] {
			continue
		}
		seen[path] = true
		res, err := writer.Remove(path)
		if err != nil {
			return nil, err
		}
		if res.Action != artifact.ActionMissing {
			result.Removed = append(result.Removed, res)
		}
	}

	if opts.PurgeProfile {
		res, err := writer.RemoveAll(rt.Paths.AppDir(opts.ID))
		if err != nil {
			return nil, err
		}
		if res.Action != artifact.ActionMissing {
			result.Removed = append(result.Removed, res)
		}
	} else if manifestErr == nil {
		res, err := writer.Remove(rt.Store.Path(opts.ID))
		if err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, res)
		if _, err := writer.Remove(rt.Store.BackupPath(opts.ID)); err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		return result, nil
	}

	if _, err := rt.Registry.Modify(func(s registry.State) (registry.State, error) {
		return s.WithoutApp(opts.ID), nil
	}); err != nil {
		return nil, err
	}

	if err := rt.Runner.UpdateDesktopDatabase(ctx, rt.Paths.DesktopDir()); err != nil {
		logger.Warn().Err(err).Msg("desktop database refresh failed")
	}

	logger.Info().Str("id", opts.ID).Bool("purged_profile", opts.PurgeProfile).Msg("application removed")
	return result, nil
}
