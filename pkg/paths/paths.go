// Package paths provides centralized path handling for pwa-forge.
// It implements XDG Base Directory specification compliance and is the
// single authority for where manifests, the registry, and every generated
// artifact live on disk.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for pwa-forge
	EnvDataDir = "PWA_FORGE_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for pwa-forge
	EnvConfigDir = "PWA_FORGE_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files.
// These constants define pwa-forge's on-disk layout and are not
// user-configurable; user-configurable directories live in pkg/config.
const (
	// AppDirName is the directory name used under XDG roots
	AppDirName = "pwa-forge"

	// ManifestFileName is the name of the per-app manifest file
	ManifestFileName = "manifest.yaml"

	// ManifestBackupSuffix is appended to the manifest name for edit backups
	ManifestBackupSuffix = ".bak"

	// RegistryFileName is the name of the registry index file
	RegistryFileName = "registry.json"

	// AppsDirName is the subdirectory for per-app data roots
	AppsDirName = "apps"

	// ProfileDirName is the subdirectory holding the isolated browser profile
	ProfileDirName = "profile"

	// UserscriptsDirName is the subdirectory for generated userscripts
	UserscriptsDirName = "userscripts"

	// WrappersDirName is the directory name for wrapper scripts under ~/.local/bin
	WrappersDirName = "pwa-forge-wrappers"

	// DesktopFilePrefix prefixes every generated desktop entry file name
	DesktopFilePrefix = "pwa-forge-"

	// HandlerFilePrefix prefixes handler scripts and desktop entries
	HandlerFilePrefix = "pwa-forge-handler-"

	// ConfigFileName is the name of the global configuration file
	ConfigFileName = "config.toml"
)

// Paths provides centralized path management for pwa-forge
type Paths struct {
	dataDir   string
	configDir string
	home      string
}

// New creates a Paths instance, honoring PWA_FORGE_DATA_DIR and
// PWA_FORGE_CONFIG_DIR overrides (used for test isolation).
func New() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
	}

	dataDir := os.Getenv(EnvDataDir)
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	configDir := os.Getenv(EnvConfigDir)
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return &Paths{
		dataDir:   dataDir,
		configDir: configDir,
		home:      home,
	}, nil
}

// DataDir returns the pwa-forge data directory (~/.local/share/pwa-forge)
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the pwa-forge config directory (~/.config/pwa-forge)
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns the global configuration file path
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// RegistryPath returns the registry index file path
func (p *Paths) RegistryPath() string {
	return filepath.Join(p.dataDir, RegistryFileName)
}

// AppsDir returns the directory holding per-app data roots
func (p *Paths) AppsDir() string {
	return filepath.Join(p.dataDir, AppsDirName)
}

// AppDir returns the data root for one application
func (p *Paths) AppDir(appID string) string {
	return filepath.Join(p.AppsDir(), appID)
}

// ManifestPath returns the manifest file path for one application
func (p *Paths) ManifestPath(appID string) string {
	return filepath.Join(p.AppDir(appID), ManifestFileName)
}

// ManifestBackupPath returns the sibling backup path for a manifest
func (p *Paths) ManifestBackupPath(appID string) string {
	return p.ManifestPath(appID) + ManifestBackupSuffix
}

// ProfileDir returns the default isolated browser profile directory
func (p *Paths) ProfileDir(appID string) string {
	return filepath.Join(p.AppDir(appID), ProfileDirName)
}

// UserscriptsDir returns the directory for generated userscripts
func (p *Paths) UserscriptsDir() string {
	return filepath.Join(p.dataDir, UserscriptsDirName)
}

// DesktopDir returns the XDG desktop applications directory
func (p *Paths) DesktopDir() string {
	return filepath.Join(p.home, ".local", "share", "applications")
}

// IconsDir returns the pwa-forge icons directory
func (p *Paths) IconsDir() string {
	return filepath.Join(p.home, ".local", "share", "icons", AppDirName)
}

// WrappersDir returns the wrapper scripts directory
func (p *Paths) WrappersDir() string {
	return filepath.Join(p.home, ".local", "bin", WrappersDirName)
}

// BinDir returns the user binary directory used for handler scripts
func (p *Paths) BinDir() string {
	return filepath.Join(p.home, ".local", "bin")
}

// UserscriptPath returns the generated userscript path for an application
func (p *Paths) UserscriptPath(appID string) string {
	return filepath.Join(p.UserscriptsDir(), appID+".user.js")
}

// WrapperPath returns the wrapper script path for an application
func (p *Paths) WrapperPath(appID string) string {
	return filepath.Join(p.WrappersDir(), appID)
}

// DesktopFilePath returns the desktop entry path for an application
func (p *Paths) DesktopFilePath(appID string) string {
	return filepath.Join(p.DesktopDir(), DesktopFileName(appID))
}

// HandlerDesktopFilePath returns the desktop entry path for a scheme handler
func (p *Paths) HandlerDesktopFilePath(scheme string) string {
	return filepath.Join(p.DesktopDir(), HandlerDesktopFileName(scheme))
}

// HandlerScriptPath returns the handler script path for a scheme
func (p *Paths) HandlerScriptPath(scheme string) string {
	return filepath.Join(p.BinDir(), HandlerFilePrefix+scheme)
}

// DesktopFileName returns the desktop entry file name for an application.
// The bare name (not the path) is what xdg-mime and desktop databases key on.
func DesktopFileName(appID string) string {
	return DesktopFilePrefix + appID + ".desktop"
}

// HandlerDesktopFileName returns the desktop entry file name for a scheme handler
func HandlerDesktopFileName(scheme string) string {
	return HandlerFilePrefix + scheme + ".desktop"
}

// ExpandPath expands a leading ~ and returns an absolute, cleaned path
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve path %q", path)
	}
	return filepath.Clean(abs), nil
}

// ValidatePath performs basic validation on a path: non-empty, no null
// bytes, bounded length.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}
	return nil
}
