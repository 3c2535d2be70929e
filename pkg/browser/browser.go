// Package browser resolves a browser name to an executable path.
// Resolution order: explicit config path, well-known install
// locations, then PATH lookup.
package browser

import (
	"os"
	"os/exec"

	"github.com/pwa-forge/pwa-forge/pkg/config"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// wellKnown lists common install paths per browser name, in priority
// order.
var wellKnown = map[string][]string{
	"chrome": {
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/opt/google/chrome/chrome",
	},
	"chromium": {
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	},
	"firefox": {
		"/usr/bin/firefox",
		"/usr/lib/firefox/firefox",
		"/snap/bin/firefox",
	},
	"edge": {
		"/usr/bin/microsoft-edge-stable",
		"/usr/bin/microsoft-edge",
		"/opt/microsoft/msedge/msedge",
	},
}

// commandNames lists PATH candidates per browser name
var commandNames = map[string][]string{
	"chrome":   {"google-chrome-stable", "google-chrome"},
	"chromium": {"chromium", "chromium-browser"},
	"firefox":  {"firefox"},
	"edge":     {"microsoft-edge-stable", "microsoft-edge"},
}

// Resolve returns the executable path for a browser name
func Resolve(name string, cfg *config.Config) (string, error) {
	log := logging.GetLogger("browser")

	if path := cfg.Browsers.Path(name); path != "" {
		if isExecutable(path) {
			return path, nil
		}
		return "", errors.Newf(errors.ErrBrowserNotFound,
			"configured path for %s does not exist or is not executable: %s", name, path)
	}

	for _, path := range wellKnown[name] {
		if isExecutable(path) {
			log.Debug().Str("browser", name).Str("path", path).Msg("resolved from well-known location")
			return path, nil
		}
	}

	for _, cmd := range commandNames[name] {
		if path, err := exec.LookPath(cmd); err == nil {
			log.Debug().Str("browser", name).Str("path", path).Msg("resolved from PATH")
			return path, nil
		}
	}

	return "", errors.Newf(errors.ErrBrowserNotFound,
		"browser %q not found; install it or set browsers.%s in the config", name, name)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
