package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UserscriptInputs parameterizes the external link userscript.
type UserscriptInputs struct {
	Scheme       string
	InScopeHosts []string
	MatchPattern string // defaults to *://*/*
	Version      string // defaults to 1.0
}

// Userscript renders the Greasemonkey-style script that rewrites
// out-of-scope links on an application's pages to the custom scheme,
// so the handler can reopen them in the system browser. Links using
// mailto, tel, or the scheme itself are left alone.
func Userscript(in UserscriptInputs) string {
	match := in.MatchPattern
	if match == "" {
		match = "*://*/*"
	}
	version := in.Version
	if version == "" {
		version = "1.0"
	}
	hosts, _ := json.Marshal(in.InScopeHosts)

	var b strings.Builder
	b.WriteString("// ==UserScript==\n")
	b.WriteString("// @name         PWA Forge external link router\n")
	b.WriteString("// @namespace    pwa-forge\n")
	fmt.Fprintf(&b, "// @version      %s\n", version)
	b.WriteString("// @description  Send out-of-scope links to the system browser\n")
	fmt.Fprintf(&b, "// @match        %s\n", match)
	b.WriteString("// @run-at       document-start\n")
	b.WriteString("// @grant        none\n")
	b.WriteString("// ==/UserScript==\n\n")

	b.WriteString("(function () {\n")
	b.WriteString("    'use strict';\n\n")
	fmt.Fprintf(&b, "    const IN_SCOPE_HOSTS = %s;\n", hosts)
	fmt.Fprintf(&b, "    const SCHEME = '%s';\n\n", in.Scheme)

	b.WriteString(userscriptBody)
	b.WriteString("})();\n")
	return b.String()
}

const userscriptBody = `    function isExternal(url) {
        try {
            const u = new URL(url, window.location.href);
            if (u.protocol !== 'http:' && u.protocol !== 'https:') {
                return false;
            }
            return !IN_SCOPE_HOSTS.includes(u.hostname);
        } catch (e) {
            return false;
        }
    }

    function rewriteUrl(url) {
        const abs = new URL(url, window.location.href).href;
        return SCHEME + ':' + encodeURIComponent(abs);
    }

    function rewriteAnchor(anchor) {
        const href = anchor.getAttribute('href');
        if (!href) return;
        if (href.startsWith('mailto:') || href.startsWith('tel:')) return;
        if (href.startsWith(SCHEME + ':')) return;
        if (!isExternal(href)) return;
        anchor.setAttribute('href', rewriteUrl(href));
        anchor.setAttribute('target', '_blank');
        const rel = anchor.getAttribute('rel') || '';
        if (!rel.includes('noopener')) {
            anchor.setAttribute('rel', (rel + ' noopener noreferrer').trim());
        }
    }

    function rewriteAll(root) {
        root.querySelectorAll('a[href]').forEach(rewriteAnchor);
    }

    const nativeOpen = window.open;
    window.open = function (url, ...rest) {
        if (url && isExternal(url)) {
            window.location.href = rewriteUrl(url);
            return null;
        }
        return nativeOpen.call(window, url, ...rest);
    };

    const observer = new MutationObserver(function (mutations) {
        for (const mutation of mutations) {
            for (const node of mutation.addedNodes) {
                if (node.nodeType !== 1) continue;
                if (node.matches && node.matches('a[href]')) {
                    rewriteAnchor(node);
                }
                if (node.querySelectorAll) {
                    rewriteAll(node);
                }
            }
        }
    });

    function start() {
        rewriteAll(document);
        observer.observe(document.documentElement, { childList: true, subtree: true });
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', start);
    } else {
        start();
    }
`
