// Package manifest owns the declarative per-application manifest: its
// schema, validation rules, and on-disk store. Invalid data never leaves
// this package; the renderer and the sync engine only ever see manifests
// that passed validation.
package manifest

import (
	"net/url"
	"time"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
)

// Browser identifies the browser engine an application shell runs on
type Browser string

// Supported browsers
const (
	BrowserChrome   Browser = "chrome"
	BrowserChromium Browser = "chromium"
	BrowserFirefox  Browser = "firefox"
	BrowserEdge     Browser = "edge"
)

// ParseBrowser validates a browser name
func ParseBrowser(s string) (Browser, error) {
	switch Browser(s) {
	case BrowserChrome, BrowserChromium, BrowserFirefox, BrowserEdge:
		return Browser(s), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput,
		"unknown browser %q (expected chrome, chromium, firefox or edge)", s)
}

// IsChromeFamily reports whether the browser accepts chrome-style flags
func (b Browser) IsChromeFamily() bool {
	return b == BrowserChrome || b == BrowserChromium || b == BrowserEdge
}

func (b Browser) String() string {
	return string(b)
}

// OutOfScopePolicy controls what happens to links that leave the
// application's declared scope
type OutOfScopePolicy string

// Out-of-scope policies
const (
	OutOfScopeOpenInDefault OutOfScopePolicy = "open-in-default"
	OutOfScopeSameWindow    OutOfScopePolicy = "same-window"
	OutOfScopeNewWindow     OutOfScopePolicy = "new-window"
)

// Flags holds the structured browser launch flags
type Flags struct {
	OzonePlatform   string   `yaml:"ozone_platform,omitempty"`
	EnableFeatures  []string `yaml:"enable_features,omitempty"`
	DisableFeatures []string `yaml:"disable_features,omitempty"`
	Additional      []string `yaml:"additional,omitempty"`
}

// Inject describes the optional link-rewriting userscript block
type Inject struct {
	Userscript       string `yaml:"userscript"`
	UserscriptScheme string `yaml:"userscript_scheme,omitempty"`
}

// SchemaVersion is the current manifest schema version
const SchemaVersion = 1

// Manifest is the declarative record describing one managed web
// application. One manifest file exists per application id; everything
// pwa-forge generates for the application derives from it.
type Manifest struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	URL        string           `yaml:"url"`
	Browser    Browser          `yaml:"browser"`
	Profile    string           `yaml:"profile"`
	Icon       string           `yaml:"icon,omitempty"`
	Comment    string           `yaml:"comment,omitempty"`
	WMClass    string           `yaml:"wm_class"`
	Categories []string         `yaml:"categories,omitempty"`
	Flags      Flags            `yaml:"flags,omitempty"`
	OutOfScope OutOfScopePolicy `yaml:"out_of_scope"`
	Inject     *Inject          `yaml:"inject,omitempty"`
	Created    time.Time        `yaml:"created"`
	Modified   time.Time        `yaml:"modified"`
	Version    int              `yaml:"version"`
}

// InScopeHosts returns the hostnames considered part of the
// application, currently just the manifest URL's host.
func (m *Manifest) InScopeHosts() []string {
	u, err := url.Parse(m.URL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Hostname()}
}

// invalid builds a field-specific validation error
func invalid(field, rule string) error {
	return errors.Newf(errors.ErrManifestInvalid, "field %q: %s", field, rule).
		WithDetail("field", field).
		WithDetail("rule", rule)
}

// Validate checks every manifest invariant and returns a field-specific
// error for the first violation.
func (m *Manifest) Validate() error {
	if err := ValidateID(m.ID); err != nil {
		return err
	}
	if m.Name == "" {
		return invalid("name", "cannot be empty")
	}
	if err := ValidateURL(m.URL); err != nil {
		return err
	}
	if _, err := ParseBrowser(string(m.Browser)); err != nil {
		return invalid("browser", "must be one of chrome, chromium, firefox, edge")
	}
	if m.Profile == "" {
		return invalid("profile", "cannot be empty")
	}
	if err := ValidateWMClass(m.WMClass); err != nil {
		return err
	}
	switch m.OutOfScope {
	case OutOfScopeOpenInDefault, OutOfScopeSameWindow, OutOfScopeNewWindow:
	default:
		return invalid("out_of_scope", "must be one of open-in-default, same-window, new-window")
	}
	if m.Inject != nil {
		if m.Inject.Userscript == "" {
			return invalid("inject.userscript", "cannot be empty when an inject block is present")
		}
		if m.Inject.UserscriptScheme != "" {
			if err := ValidateScheme(m.Inject.UserscriptScheme); err != nil {
				return invalid("inject.userscript_scheme", "must contain only alphanumerics, hyphens and underscores")
			}
		}
	}
	if m.Version < 1 {
		return invalid("version", "must be >= 1")
	}
	return nil
}
