// Package artifact writes rendered artifacts to disk. Writes are
// atomic (temp file plus rename) and skip files whose content and mode
// already match, so repeated syncs leave timestamps alone. In dry-run
// mode the writer only reports what it would do.
package artifact

import (
	"bytes"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/filesystem"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// Action says what the writer did (or would do) for one path
type Action string

// Writer actions
const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
	ActionRemove    Action = "remove"
	ActionMissing   Action = "missing"
)

// WriteResult describes the outcome of one write or removal
type WriteResult struct {
	Path    string
	Mode    fs.FileMode
	Action  Action
	Applied bool
}

// Writer applies rendered content to a filesystem
type Writer struct {
	fs     filesystem.FS
	dryRun bool
	log    zerolog.Logger
}

// NewWriter returns a writer over fs. With dryRun set, no call mutates
// anything.
func NewWriter(fsys filesystem.FS, dryRun bool) *Writer {
	return &Writer{
		fs:     fsys,
		dryRun: dryRun,
		log:    logging.GetLogger("artifact"),
	}
}

// DryRun reports whether the writer mutates anything
func (w *Writer) DryRun() bool {
	return w.dryRun
}

// Write ensures path holds exactly content with the given mode. Parent
// directories are created as needed.
func (w *Writer) Write(path string, content []byte, mode fs.FileMode) (WriteResult, error) {
	result := WriteResult{Path: path, Mode: mode}

	existing, err := w.fs.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) && w.modeMatches(path, mode) {
			result.Action = ActionUnchanged
			return result, nil
		}
		result.Action = ActionUpdate
	default:
		result.Action = ActionCreate
	}

	if w.dryRun {
		w.log.Debug().Str("path", path).Str("action", string(result.Action)).Msg("dry-run write")
		return result, nil
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for %s", path)
	}
	tmp := path + ".tmp"
	if err := w.fs.WriteFile(tmp, content, mode); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	if err := w.fs.Chmod(tmp, mode); err != nil {
		_ = w.fs.Remove(tmp)
		return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot set mode on %s", path)
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot replace %s", path)
	}

	result.Applied = true
	w.log.Debug().Str("path", path).Str("action", string(result.Action)).Msg("artifact written")
	return result, nil
}

// Remove deletes path if it exists
func (w *Writer) Remove(path string) (WriteResult, error) {
	result := WriteResult{Path: path}

	if _, err := w.fs.Stat(path); err != nil {
		result.Action = ActionMissing
		return result, nil
	}
	result.Action = ActionRemove

	if w.dryRun {
		w.log.Debug().Str("path", path).Msg("dry-run remove")
		return result, nil
	}
	if err := w.fs.Remove(path); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot remove %s", path)
	}
	result.Applied = true
	return result, nil
}

// RemoveAll deletes a directory tree if it exists
func (w *Writer) RemoveAll(path string) (WriteResult, error) {
	result := WriteResult{Path: path}

	if _, err := w.fs.Stat(path); err != nil {
		result.Action = ActionMissing
		return result, nil
	}
	result.Action = ActionRemove

	if w.dryRun {
		w.log.Debug().Str("path", path).Msg("dry-run remove tree")
		return result, nil
	}
	if err := w.fs.RemoveAll(path); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot remove %s", path)
	}
	result.Applied = true
	return result, nil
}

func (w *Writer) modeMatches(path string, mode fs.FileMode) bool {
	info, err := w.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm() == mode.Perm()
}
