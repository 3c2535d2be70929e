// Package edit opens a manifest in the user's editor with a safety
// net: the pre-edit bytes are backed up first, the edited result must
// validate before it is accepted, and a bad edit is rolled back
// byte-for-byte. A good edit is followed by a sync so the artifacts
// track the change.
package edit

import (
	"bytes"
	"context"

	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	synccmd "github.com/pwa-forge/pwa-forge/pkg/commands/sync"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// Options holds options for the edit command
type Options struct {
	AppID string
	// NoSync skips artifact regeneration after a valid edit
	NoSync bool
}

// Result is the outcome of the edit command
type Result struct {
	ID string
	// Changed reports whether the file differs from the pre-edit bytes
	Changed bool
	// RolledBack is set when an invalid edit was reverted
	RolledBack bool
	Sync       *synccmd.Result
}

// Edit runs the backup, edit, validate, rollback-or-sync workflow.
// On an invalid edit the manifest is restored exactly and the
// validation error is returned alongside a result with RolledBack set.
func Edit(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.edit")

	before, err := rt.Store.RawContent(opts.AppID)
	if err != nil {
		return nil, err
	}
	if err := rt.Store.CreateBackup(opts.AppID); err != nil {
		return nil, err
	}

	path := rt.Store.Path(opts.AppID)
	if err := rt.Runner.OpenEditor(ctx, path); err != nil {
		return nil, err
	}

	after, err := rt.Store.RawContent(opts.AppID)
	if err != nil {
		return nil, err
	}
	result := &Result{ID: opts.AppID, Changed: !bytes.Equal(before, after)}
	if !result.Changed {
		logger.Debug().Str("id", opts.AppID).Msg("edit made no changes")
		return result, nil
	}

	if _, err := rt.Store.Load(opts.AppID); err != nil {
		restored, restoreErr := rt.Store.RestoreBackup(opts.AppID)
		if restoreErr != nil {
			return nil, errors.Wrapf(restoreErr, errors.ErrFileWrite,
				"edit of %s is invalid and rollback failed; backup remains at %s",
				opts.AppID, rt.Store.BackupPath(opts.AppID))
		}
		result.RolledBack = restored
		logger.Warn().Str("id", opts.AppID).Err(err).Msg("invalid edit rolled back")
		return result, err
	}

	logger.Info().Str("id", opts.AppID).Msg("manifest edited")
	if opts.NoSync {
		return result, nil
	}
	syncResult, err := synccmd.Sync(ctx, rt, synccmd.Options{AppID: opts.AppID})
	if err != nil {
		return nil, err
	}
	if len(syncResult.Apps) == 1 && syncResult.Apps[0].Err != nil {
		return nil, syncResult.Apps[0].Err
	}
	result.Sync = syncResult
	return result, nil
}
