package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
)

// settableKeys enumerates the dotted keys `config set` accepts, with a
// note on the expected value shape.
var settableKeys = map[string]string{
	"default_browser":        "chrome | chromium | firefox | edge",
	"out_of_scope":           "open-in-default | same-window | new-window",
	"external_link_scheme":   "scheme name, e.g. ff",
	"browsers.chrome":        "absolute executable path",
	"browsers.chromium":      "absolute executable path",
	"browsers.firefox":       "absolute executable path",
	"browsers.edge":          "absolute executable path",
	"directories.desktop":    "directory path",
	"directories.icons":      "directory path",
	"directories.wrappers":   "directory path",
	"directories.apps":       "directory path",
	"directories.userscripts": "directory path",
}

// SettableKeys returns the sorted list of keys accepted by Set
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set writes key=value into the user configuration file, creating the
// file if necessary. Only keys from SettableKeys are accepted; the
// resulting configuration is validated before the file is committed.
func Set(p *paths.Paths, key, value string) error {
	if _, ok := settableKeys[key]; !ok {
		return errors.Newf(errors.ErrInvalidInput,
			"unknown config key %q (see 'config list' for valid keys)", key)
	}

	doc := map[string]interface{}{}
	userFile := p.ConfigFilePath()
	if data, err := os.ReadFile(userFile); err == nil {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", userFile)
		}
	}

	setDotted(doc, key, value)

	out, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to serialize configuration")
	}

	// Validate the merged result before anything touches the file.
	if _, err := loadWithOverlay(p, out); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(userFile), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(userFile))
	}
	tmp := userFile + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, userFile); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to commit %s", userFile)
	}
	return nil
}

// Get returns the effective value for a dotted key from the loaded
// configuration.
func Get(cfg *Config, key string) (string, error) {
	flat := flatten(cfg)
	v, ok := flat[key]
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "unknown config key %q", key)
	}
	return v, nil
}

// List returns every effective key=value pair, sorted by key
func List(cfg *Config) []string {
	flat := flatten(cfg)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s = %s", k, flat[k])
	}
	return out
}

func flatten(cfg *Config) map[string]string {
	return map[string]string{
		"default_browser":         cfg.DefaultBrowser,
		"out_of_scope":            cfg.OutOfScope,
		"external_link_scheme":    cfg.ExternalLinkScheme,
		"browsers.chrome":         cfg.Browsers.Chrome,
		"browsers.chromium":       cfg.Browsers.Chromium,
		"browsers.firefox":        cfg.Browsers.Firefox,
		"browsers.edge":           cfg.Browsers.Edge,
		"directories.desktop":     cfg.Directories.Desktop,
		"directories.icons":       cfg.Directories.Icons,
		"directories.wrappers":    cfg.Directories.Wrappers,
		"directories.apps":        cfg.Directories.Apps,
		"directories.userscripts": cfg.Directories.Userscripts,
		"chrome_flags.enable":     strings.Join(cfg.ChromeFlags.Enable, ","),
		"chrome_flags.disable":    strings.Join(cfg.ChromeFlags.Disable, ","),
	}
}

func setDotted(doc map[string]interface{}, key, value string) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) == 1 {
		doc[key] = value
		return
	}
	child, ok := doc[parts[0]].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		doc[parts[0]] = child
	}
	setDotted(child, parts[1], value)
}
