package render

import (
	"fmt"
	"strings"
)

// HandlerScript renders the shell script registered as the
// x-scheme-handler for a custom scheme. The script strips the scheme
// prefix, percent-decodes the payload in plain bash, refuses anything
// that is not http or https, and hands the result to the configured
// browser in a new window.
func HandlerScript(scheme, browser, browserExec string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("# pwa-forge URL scheme handler\n")
	fmt.Fprintf(&b, "# Scheme: %s://\n", scheme)
	fmt.Fprintf(&b, "# Target browser: %s\n\n", browser)

	b.WriteString("raw=\"$1\"\n")
	b.WriteString("if [ -z \"$raw\" ]; then\n")
	b.WriteString("    echo \"pwa-forge-handler: no URL argument\" >&2\n")
	b.WriteString("    exit 1\n")
	b.WriteString("fi\n\n")

	fmt.Fprintf(&b, "payload=\"${raw#%s:}\"\n", scheme)
	b.WriteString("payload=\"${payload#//}\"\n")
	b.WriteString("decoded=$(printf '%b' \"${payload//%/\\\\x}\")\n\n")

	b.WriteString("case \"$decoded\" in\n")
	b.WriteString("    http://*|https://*) ;;\n")
	b.WriteString("    *)\n")
	b.WriteString("        echo \"pwa-forge-handler: refusing non-http(s) URL: $decoded\" >&2\n")
	b.WriteString("        exit 1\n")
	b.WriteString("        ;;\n")
	b.WriteString("esac\n\n")

	fmt.Fprintf(&b, "exec %q --new-window \"$decoded\"\n", browserExec)
	return b.String()
}

// HandlerDesktopEntry renders the hidden desktop entry that binds the
// handler script to x-scheme-handler/<scheme>.
func HandlerDesktopEntry(scheme, browser, scriptPath string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Version=1.0\n")
	fmt.Fprintf(&b, "Name=Open in %s (%s handler)\n", titleCase(browser), scheme)
	fmt.Fprintf(&b, "Comment=Route %s:// URLs to %s\n", scheme, browser)
	fmt.Fprintf(&b, "Exec=%s %%u\n", scriptPath)
	fmt.Fprintf(&b, "Icon=%s\n", FallbackIcon)
	b.WriteString("Terminal=false\n")
	b.WriteString("NoDisplay=true\n")
	fmt.Fprintf(&b, "MimeType=x-scheme-handler/%s;\n", scheme)
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
