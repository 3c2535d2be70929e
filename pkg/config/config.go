// Package config loads the global pwa-forge configuration: built-in
// defaults layered under an optional user file. The resulting Config
// value is immutable for the duration of a run and is passed explicitly
// to every component that needs it.
package config

import (
	_ "embed"
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements a koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Browsers holds per-browser executable path overrides
type Browsers struct {
	Chrome   string `koanf:"chrome"`
	Chromium string `koanf:"chromium"`
	Firefox  string `koanf:"firefox"`
	Edge     string `koanf:"edge"`
}

// Path returns the configured executable path for a browser name,
// or empty when the name is unknown.
func (b Browsers) Path(name string) string {
	switch name {
	case "chrome":
		return b.Chrome
	case "chromium":
		return b.Chromium
	case "firefox":
		return b.Firefox
	case "edge":
		return b.Edge
	}
	return ""
}

// Directories holds the generated-artifact directory paths
type Directories struct {
	Desktop     string `koanf:"desktop"`
	Icons       string `koanf:"icons"`
	Wrappers    string `koanf:"wrappers"`
	Apps        string `koanf:"apps"`
	Userscripts string `koanf:"userscripts"`
}

// ChromeFlags holds the default chrome-family feature lists
type ChromeFlags struct {
	Enable  []string `koanf:"enable"`
	Disable []string `koanf:"disable"`
}

// Config is the global pwa-forge configuration
type Config struct {
	DefaultBrowser     string      `koanf:"default_browser"`
	Browsers           Browsers    `koanf:"browsers"`
	Directories        Directories `koanf:"directories"`
	ChromeFlags        ChromeFlags `koanf:"chrome_flags"`
	OutOfScope         string      `koanf:"out_of_scope"`
	ExternalLinkScheme string      `koanf:"external_link_scheme"`

	// Resolved at load time, not part of the file schema.
	RegistryPath string `koanf:"-"`
}

// Load builds the configuration from embedded defaults plus the user
// config file (if present), and resolves empty directory entries to the
// XDG layout from p.
func Load(p *paths.Paths) (*Config, error) {
	log := logging.GetLogger("config")

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	userFile := p.ConfigFilePath()
	if _, err := os.Stat(userFile); err == nil {
		if err := k.Load(file.Provider(userFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", userFile)
		}
		log.Debug().Str("path", userFile).Msg("Loaded user config")
	}

	return finish(k, p)
}

// loadWithOverlay builds the configuration from the defaults plus a raw
// TOML overlay, without touching the user file. Set uses this to validate
// a candidate configuration before committing it.
func loadWithOverlay(p *paths.Paths, overlay []byte) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}
	if err := k.Load(&rawBytesProvider{bytes: overlay}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse configuration")
	}

	return finish(k, p)
}

func finish(k *koanf.Koanf, p *paths.Paths) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	cfg.applyPathDefaults(p)
	cfg.RegistryPath = p.RegistryPath()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyPathDefaults(p *paths.Paths) {
	if c.Directories.Desktop == "" {
		c.Directories.Desktop = p.DesktopDir()
	}
	if c.Directories.Icons == "" {
		c.Directories.Icons = p.IconsDir()
	}
	if c.Directories.Wrappers == "" {
		c.Directories.Wrappers = p.WrappersDir()
	}
	if c.Directories.Apps == "" {
		c.Directories.Apps = p.AppsDir()
	}
	if c.Directories.Userscripts == "" {
		c.Directories.Userscripts = p.UserscriptsDir()
	}
}

func (c *Config) validate() error {
	if c.Browsers.Path(c.DefaultBrowser) == "" {
		return errors.Newf(errors.ErrConfigValid,
			"default_browser %q is not one of chrome, chromium, firefox, edge", c.DefaultBrowser)
	}
	switch c.OutOfScope {
	case "open-in-default", "same-window", "new-window":
	default:
		return errors.Newf(errors.ErrConfigValid,
			"out_of_scope %q is not one of open-in-default, same-window, new-window", c.OutOfScope)
	}
	if c.ExternalLinkScheme == "" {
		return errors.New(errors.ErrConfigValid, "external_link_scheme cannot be empty")
	}
	return nil
}
