package pwaforge

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Manage web applications as desktop apps"
	MsgVersionShort    = "Print version information"
	MsgAddShort        = "Add a web application"
	MsgRemoveShort     = "Remove a web application"
	MsgListShort       = "List managed applications"
	MsgSyncShort       = "Regenerate artifacts from manifests"
	MsgAuditShort      = "Verify installed state against manifests"
	MsgEditShort       = "Edit an application manifest"
	MsgConfigShort     = "Inspect and change configuration"
	MsgHandlerShort    = "Manage URL scheme handlers"
	MsgUserscriptShort = "Generate the external link userscript"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun       = "Preview changes without executing them"
	MsgFlagName         = "Display name (derived from the URL when omitted)"
	MsgFlagID           = "Application id (derived from the name when omitted)"
	MsgFlagBrowser      = "Browser to use (chrome, chromium, firefox, edge)"
	MsgFlagProfile      = "Profile directory (defaults to an isolated per-app dir)"
	MsgFlagIcon         = "Icon path or themed icon name"
	MsgFlagComment      = "Desktop entry comment"
	MsgFlagWMClass      = "Window manager class (derived from the name when omitted)"
	MsgFlagCategories   = "Desktop entry categories"
	MsgFlagInject       = "Generate a link-rewriting userscript for the app"
	MsgFlagNoSync       = "Write the manifest without generating artifacts"
	MsgFlagPurge        = "Also delete the browser profile directory"
	MsgFlagFix          = "Repair every failure the audit finds"
	MsgFlagForce        = "Replace an existing handler"
	MsgFlagScheme       = "Custom URL scheme"
	MsgFlagOutput       = "Output path for the userscript"
	MsgFlagHandlerOpen  = "Browser override for opening the payload"
	MsgFlagEditNoSync   = "Skip artifact regeneration after the edit"
	MsgFlagListHandlers = "List installed scheme handlers"

	// Status messages
	MsgDryRunNotice = "\nDRY RUN MODE - No changes were made"
	MsgNoApps       = "No applications found. Add one with: pwa-forge add <url>"
	MsgNoHandlers   = "No scheme handlers installed."
	MsgAuditClean   = "Audit passed: everything matches the manifests."
	MsgAuditFailed  = "Audit found problems. Run with --fix to repair them."
	MsgEditNoChange = "No changes made."
	MsgEditRollback = "Invalid edit rolled back; the manifest is unchanged."
)

// Long messages
const (
	MsgRootLong = `pwa-forge turns web applications into first-class Linux desktop apps.

Each application is declared in a YAML manifest; pwa-forge generates a
launcher wrapper, a desktop entry, an isolated browser profile, and
optionally a userscript that routes external links back to your normal
browser. Manifests are the source of truth: sync regenerates everything
from them, and audit verifies nothing has drifted.`

	MsgAddLong = `Add registers a new web application. Only the URL is required;
the name, id, window class, and profile directory are derived from it.
The manifest is written first, then artifacts are generated.`

	MsgSyncLong = `Sync regenerates every artifact from its manifest. It is safe to run
repeatedly: files that already match are left untouched, and hand-edited
artifacts are reported before being overwritten.`

	MsgAuditLong = `Audit checks that every generated artifact exists, matches its
manifest, and is registered correctly, and that the registry holds no
orphaned entries. With --fix each failure is repaired and the audit
runs again to confirm convergence.`

	MsgEditLong = `Edit opens the manifest in $EDITOR. The pre-edit content is backed up
first; if the edited manifest does not validate, it is restored exactly
and the error reported. A valid edit is followed by a sync.`

	MsgHandlerLong = `Handlers bind a custom URL scheme (default "ff") to a script that
reopens rewritten links in your regular browser. Install one, then
generate userscripts that rewrite external links to that scheme.`
)
