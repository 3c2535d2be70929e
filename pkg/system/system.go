// Package system wraps the desktop-environment collaborators pwa-forge
// shells out to: update-desktop-database, xdg-mime, and the user's
// editor. Commands are behind an interface so the engines can be
// tested without a desktop session.
package system

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// Runner executes desktop integration commands
type Runner interface {
	// UpdateDesktopDatabase refreshes the desktop entry cache for dir
	UpdateDesktopDatabase(ctx context.Context, dir string) error
	// XdgMimeDefault registers a desktop file as the default handler
	// for a MIME type
	XdgMimeDefault(ctx context.Context, desktopFile, mimeType string) error
	// XdgMimeQuery returns the current default handler for a MIME
	// type, or empty when none is set
	XdgMimeQuery(ctx context.Context, mimeType string) (string, error)
	// OpenEditor opens path in the user's editor and blocks until it
	// exits
	OpenEditor(ctx context.Context, path string) error
}

// ExecRunner runs the real commands
type ExecRunner struct{}

// NewRunner returns a Runner backed by the real commands
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) UpdateDesktopDatabase(ctx context.Context, dir string) error {
	path, err := exec.LookPath("update-desktop-database")
	if err != nil {
		logger := logging.GetLogger("system")
		logger.Debug().Msg("update-desktop-database not installed, skipping")
		return nil
	}
	out, err := exec.CommandContext(ctx, path, dir).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal,
			"update-desktop-database failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func (r *ExecRunner) XdgMimeDefault(ctx context.Context, desktopFile, mimeType string) error {
	out, err := exec.CommandContext(ctx, "xdg-mime", "default", desktopFile, mimeType).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal,
			"xdg-mime default failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func (r *ExecRunner) XdgMimeQuery(ctx context.Context, mimeType string) (string, error) {
	out, err := exec.CommandContext(ctx, "xdg-mime", "query", "default", mimeType).Output()
	if err != nil {
		// xdg-mime exits non-zero when nothing is registered
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *ExecRunner) OpenEditor(ctx context.Context, path string) error {
	editor, err := ResolveEditor()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "editor %s failed", editor)
	}
	return nil
}

// ResolveEditor picks the editor from $VISUAL, then $EDITOR, then a
// short fallback list.
func ResolveEditor() (string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	for _, candidate := range []string{"nano", "vi"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrEditorNotFound,
		"no editor found; set the EDITOR environment variable")
}
