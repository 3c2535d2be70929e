// Package render maps a validated manifest plus the global configuration
// to the literal text of every generated artifact. Rendering is pure and
// deterministic: identical inputs produce byte-identical output, which is
// what makes drift detection and idempotent re-sync meaningful. Nothing
// in this package touches the filesystem or ambient environment.
package render

import (
	"github.com/pwa-forge/pwa-forge/pkg/config"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
)

// ArtifactKind names one generated artifact
type ArtifactKind string

// Artifact kinds
const (
	KindWrapper        ArtifactKind = "wrapper"
	KindDesktop        ArtifactKind = "desktop"
	KindHandlerScript  ArtifactKind = "handler-script"
	KindHandlerDesktop ArtifactKind = "handler-desktop"
	KindUserscript     ArtifactKind = "userscript"
)

// FallbackIcon is the themed icon name used when no icon is configured
const FallbackIcon = "web-browser"

// AppInputs carries everything rendering an application's artifacts
// needs. Paths and the resolved browser executable are inputs rather
// than lookups so the renderer stays pure.
type AppInputs struct {
	Manifest    *manifest.Manifest
	BrowserExec string
	WrapperPath string
	IconPath    string // empty means FallbackIcon
}

// AppArtifacts renders the wrapper script and desktop entry for one
// application.
func AppArtifacts(in AppInputs, cfg *config.Config) map[ArtifactKind]string {
	return map[ArtifactKind]string{
		KindWrapper: WrapperScript(in.Manifest, in.BrowserExec, cfg),
		KindDesktop: DesktopEntry(in.Manifest, in.WrapperPath, in.IconPath),
	}
}
