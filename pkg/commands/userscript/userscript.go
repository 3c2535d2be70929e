// Package userscript generates the link-rewriting userscript for an
// application and records it in the manifest so sync keeps it fresh.
package userscript

import (
	"time"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/render"
)

// Options holds options for userscript generation
type Options struct {
	AppID string
	// Output overrides the default userscript path
	Output string
	// Scheme overrides the configured external link scheme
	Scheme string
	// DryRun renders without writing anything
	DryRun bool
}

// Result is the outcome of userscript generation
type Result struct {
	Path    string
	Content string
	DryRun  bool
}

// Generate renders the userscript for an application, writes it, and
// records the injection block in the manifest.
func Generate(rt *runtime.Runtime, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.userscript")

	m, err := rt.Store.Load(opts.AppID)
	if err != nil {
		return nil, err
	}

	scheme := opts.Scheme
	if scheme == "" {
		if m.Inject != nil && m.Inject.UserscriptScheme != "" {
			scheme = m.Inject.UserscriptScheme
		} else {
			scheme = rt.Config.ExternalLinkScheme
		}
	}
	if err := manifest.ValidateScheme(scheme); err != nil {
		return nil, err
	}

	path := opts.Output
	if path == "" {
		if m.Inject != nil && m.Inject.Userscript != "" {
			path = m.Inject.Userscript
		} else {
			path = rt.Paths.UserscriptPath(m.ID)
		}
	}

	content := render.Userscript(render.UserscriptInputs{
		Scheme:       scheme,
		InScopeHosts: m.InScopeHosts(),
	})
	result := &Result{Path: path, Content: content, DryRun: opts.DryRun}
	if opts.DryRun {
		return result, nil
	}

	writer := artifact.NewWriter(rt.FS, false)
	if _, err := writer.Write(path, []byte(content), 0o644); err != nil {
		return nil, err
	}

	if m.Inject == nil || m.Inject.Userscript != path || m.Inject.UserscriptScheme != scheme {
		m.Inject = &manifest.Inject{Userscript: path, UserscriptScheme: scheme}
		m.Modified = time.Now().UTC()
		if err := rt.Store.Save(m, false); err != nil {
			return nil, err
		}
	}

	logger.Info().Str("id", m.ID).Str("path", path).Str("scheme", scheme).Msg("userscript generated")
	return result, nil
}
