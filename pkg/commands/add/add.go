// Package add registers a new web application: it derives sensible
// defaults from the URL, writes the manifest, and syncs the artifacts.
package add

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	synccmd "github.com/pwa-forge/pwa-forge/pkg/commands/sync"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
)

// Options holds options for the add command
type Options struct {
	URL string

	// Optional overrides; anything empty is derived from the URL
	ID         string
	Name       string
	Browser    string
	Profile    string
	Icon       string
	Comment    string
	WMClass    string
	Categories []string

	// Inject generates a link-rewriting userscript for the app
	Inject bool
	// NoSync writes the manifest without generating artifacts
	NoSync bool
	// DryRun reports what would be created without touching anything
	DryRun bool
}

// Result is the outcome of the add command
type Result struct {
	Manifest *manifest.Manifest
	Sync     *synccmd.Result
	DryRun   bool
}

// Add creates the manifest for a new application and syncs it
func Add(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.add")

	m, err := buildManifest(rt, opts)
	if err != nil {
		return nil, err
	}

	if _, err := rt.Store.Load(m.ID); err == nil {
		return nil, errors.Newf(errors.ErrAppExists,
			"application %q already exists; use edit or remove first", m.ID)
	} else if !errors.IsErrorCode(err, errors.ErrManifestNotFound) {
		return nil, err
	}

	result := &Result{Manifest: m, DryRun: opts.DryRun}
	if opts.DryRun {
		if !opts.NoSync {
			preview := synccmd.Preview(rt, m)
			result.Sync = &synccmd.Result{Apps: []synccmd.AppResult{preview}, DryRun: true}
		}
		return result, nil
	}

	// The profile directory is created once here, never by sync or
	// audit: a profile holds user data and must not be fabricated
	// after the fact.
	if err := rt.FS.MkdirAll(m.Profile, 0o700); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create profile %s", m.Profile)
	}

	if m.Icon != "" {
		icon, err := installIcon(rt, m.ID, m.Icon)
		if err != nil {
			return nil, err
		}
		m.Icon = icon
	}

	if err := rt.Store.Save(m, false); err != nil {
		return nil, err
	}
	logger.Info().Str("id", m.ID).Str("url", m.URL).Msg("application added")

	if opts.NoSync {
		return result, nil
	}
	syncResult, err := synccmd.Sync(ctx, rt, synccmd.Options{AppID: m.ID})
	if err != nil {
		return nil, err
	}
	if len(syncResult.Apps) == 1 && syncResult.Apps[0].Err != nil {
		return nil, syncResult.Apps[0].Err
	}
	result.Sync = syncResult
	return result, nil
}

func buildManifest(rt *runtime.Runtime, opts Options) (*manifest.Manifest, error) {
	if err := manifest.ValidateURL(opts.URL); err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = manifest.ExtractNameFromURL(opts.URL)
	}
	id := opts.ID
	if id == "" {
		id = manifest.GenerateID(name)
	}
	if err := manifest.ValidateID(id); err != nil {
		return nil, err
	}
	wmClass := opts.WMClass
	if wmClass == "" {
		wmClass = manifest.GenerateWMClass(name)
	}

	browserName := opts.Browser
	if browserName == "" {
		browserName = rt.Config.DefaultBrowser
	}
	b, err := manifest.ParseBrowser(browserName)
	if err != nil {
		return nil, err
	}

	profile := opts.Profile
	if profile == "" {
		profile = rt.Paths.ProfileDir(id)
	}

	now := time.Now().UTC()
	m := &manifest.Manifest{
		ID:         id,
		Name:       name,
		URL:        opts.URL,
		Browser:    b,
		Profile:    profile,
		Icon:       opts.Icon,
		Comment:    opts.Comment,
		WMClass:    wmClass,
		Categories: opts.Categories,
		OutOfScope: manifest.OutOfScopePolicy(rt.Config.OutOfScope),
		Created:    now,
		Modified:   now,
		Version:    manifest.SchemaVersion,
	}
	if opts.Inject {
		m.Inject = &manifest.Inject{
			Userscript:       rt.Paths.UserscriptPath(id),
			UserscriptScheme: rt.Config.ExternalLinkScheme,
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// installIcon copies a file icon into the managed icons directory.
// A value that is not a readable file is taken as a themed icon name
// and passed through untouched.
func installIcon(rt *runtime.Runtime, id, source string) (string, error) {
	info, err := rt.FS.Stat(source)
	if err != nil || info.IsDir() {
		return source, nil
	}
	data, err := rt.FS.ReadFile(source)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read icon %s", source)
	}
	dest := filepath.Join(rt.Paths.IconsDir(), id+filepath.Ext(source))
	if err := rt.FS.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dest))
	}
	if err := rt.FS.WriteFile(dest, data, 0o644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dest)
	}
	return dest, nil
}
