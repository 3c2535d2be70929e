package render

import (
	"fmt"
	"strings"

	"github.com/pwa-forge/pwa-forge/pkg/config"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
)

// WrapperScript renders the launcher shell script for one application.
// Chrome-family browsers get app mode with an isolated user data dir;
// Firefox gets a dedicated profile and a plain new window.
func WrapperScript(m *manifest.Manifest, browserExec string, cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "# App: %s\n", m.Name)
	fmt.Fprintf(&b, "# ID: %s\n", m.ID)
	b.WriteString("# Generated by pwa-forge. Edits are overwritten on the next sync.\n\n")

	args := wrapperArgs(m, cfg)
	fmt.Fprintf(&b, "exec %q \\\n", browserExec)
	for _, arg := range args {
		fmt.Fprintf(&b, "    %s \\\n", arg)
	}
	b.WriteString("    \"$@\"\n")
	return b.String()
}

func wrapperArgs(m *manifest.Manifest, cfg *config.Config) []string {
	if !m.Browser.IsChromeFamily() {
		return firefoxArgs(m)
	}
	return chromeArgs(m, cfg)
}

func chromeArgs(m *manifest.Manifest, cfg *config.Config) []string {
	args := []string{
		fmt.Sprintf("--class=%q", m.WMClass),
		fmt.Sprintf("--ozone-platform=%s", ozonePlatform(m)),
		fmt.Sprintf("--user-data-dir=%q", m.Profile),
		fmt.Sprintf("--app=%q", m.URL),
	}
	if enable := featureList(m.Flags.EnableFeatures, cfg.ChromeFlags.Enable); len(enable) > 0 {
		args = append(args, "--enable-features="+strings.Join(enable, ","))
	}
	if disable := featureList(m.Flags.DisableFeatures, cfg.ChromeFlags.Disable); len(disable) > 0 {
		args = append(args, "--disable-features="+strings.Join(disable, ","))
	}
	if len(m.Flags.Additional) > 0 {
		args = append(args, strings.Join(m.Flags.Additional, " "))
	}
	return args
}

func firefoxArgs(m *manifest.Manifest) []string {
	args := []string{
		fmt.Sprintf("--class=%q", m.WMClass),
		fmt.Sprintf("--profile %q", m.Profile),
		fmt.Sprintf("--new-window %q", m.URL),
	}
	if len(m.Flags.Additional) > 0 {
		args = append(args, strings.Join(m.Flags.Additional, " "))
	}
	return args
}

func ozonePlatform(m *manifest.Manifest) string {
	if m.Flags.OzonePlatform != "" {
		return m.Flags.OzonePlatform
	}
	return "x11"
}

// featureList prefers the manifest's explicit list over the config
// default. A manifest that sets an empty non-nil list suppresses the
// default entirely.
func featureList(fromManifest, fromConfig []string) []string {
	if fromManifest != nil {
		return fromManifest
	}
	return fromConfig
}
