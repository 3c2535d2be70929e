// Package audit verifies that the installed state matches what the
// manifests declare: artifacts exist, contents match the deterministic
// rendering, modes are right, and the registry agrees with the
// filesystem. With fix enabled it regenerates what can be regenerated
// in a single pass and re-runs the battery; failures with no safe
// automatic remediation stay FAIL.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/browser"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	synccmd "github.com/pwa-forge/pwa-forge/pkg/commands/sync"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
	"github.com/pwa-forge/pwa-forge/pkg/render"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

// Options holds options for the audit command
type Options struct {
	// AppID limits the audit to one application; empty means everything
	AppID string
	// Fix repairs every failure and re-runs the audit
	Fix bool
}

// Check is one verification outcome
type Check struct {
	Name   string
	Status style.Status
	Detail string
}

func failed(checks []Check) bool {
	for _, c := range checks {
		if c.Status == style.StatusFail {
			return true
		}
	}
	return false
}

// AppReport collects the checks for one application
type AppReport struct {
	ID     string
	Checks []Check
}

// Failed reports whether any check failed
func (r AppReport) Failed() bool { return failed(r.Checks) }

// HandlerReport collects the checks for one scheme handler
type HandlerReport struct {
	Scheme string
	Checks []Check
}

// Failed reports whether any check failed
func (r HandlerReport) Failed() bool { return failed(r.Checks) }

// Result is the outcome of an audit run
type Result struct {
	Apps     []AppReport
	Handlers []HandlerReport
	// Orphans lists registry entries whose manifest no longer exists
	Orphans []string
	// Fixes lists the repairs applied in fix mode
	Fixes []string
	// Unfixable lists failures fix mode could not repair
	Unfixable []string
}

// Failed reports whether anything in the battery failed
func (r *Result) Failed() bool {
	for _, app := range r.Apps {
		if app.Failed() {
			return true
		}
	}
	for _, h := range r.Handlers {
		if h.Failed() {
			return true
		}
	}
	return len(r.Orphans) > 0
}

// Audit runs the verification battery. In fix mode failures are
// repaired and the battery runs again; the returned result reflects
// the post-fix state, with the applied repairs listed.
func Audit(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.audit")

	result, err := run(ctx, rt, opts.AppID)
	if err != nil {
		return nil, err
	}
	if !opts.Fix || !result.Failed() {
		return result, nil
	}

	fixes, unfixable, err := applyFixes(ctx, rt, result)
	if err != nil {
		return nil, err
	}
	logger.Info().Strs("fixes", fixes).Strs("unfixable", unfixable).Msg("audit repairs applied")

	result, err = run(ctx, rt, opts.AppID)
	if err != nil {
		return nil, err
	}
	result.Fixes = fixes
	result.Unfixable = unfixable
	return result, nil
}

func run(ctx context.Context, rt *runtime.Runtime, appID string) (*Result, error) {
	ids := []string{appID}
	if appID == "" {
		var err error
		ids, err = rt.Store.ListIDs()
		if err != nil {
			return nil, err
		}
	}
	state, err := rt.Registry.Read()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	known := map[string]bool{}
	for _, id := range ids {
		known[id] = true
		result.Apps = append(result.Apps, auditApp(rt, state, id))
	}

	if appID == "" {
		for _, app := range state.Apps {
			if !known[app.ID] {
				result.Orphans = append(result.Orphans, app.ID)
			}
		}
		for _, h := range state.Handlers {
			result.Handlers = append(result.Handlers, auditHandler(ctx, rt, h))
		}
	}
	return result, nil
}

func auditApp(rt *runtime.Runtime, state registry.State, id string) AppReport {
	report := AppReport{ID: id}
	add := func(name string, status style.Status, detail string) {
		report.Checks = append(report.Checks, Check{Name: name, Status: status, Detail: detail})
	}

	m, err := rt.Store.Load(id)
	if err != nil {
		add("manifest", style.StatusFail, err.Error())
		for _, name := range []string{"browser", "wrapper script", "desktop entry", "profile", "icon", "registry entry", "userscript"} {
			add(name, style.StatusSkipped, "manifest unavailable")
		}
		return report
	}
	add("manifest", style.StatusPass, "")

	browserExec, err := browser.Resolve(m.Browser.String(), rt.Config)
	if err != nil {
		add("browser", style.StatusFail, err.Error())
	} else {
		add("browser", style.StatusPass, browserExec)
	}

	wrapperPath := rt.Paths.WrapperPath(id)
	desktopPath := rt.Paths.DesktopFilePath(id)
	if browserExec == "" {
		add("wrapper script", style.StatusSkipped, "browser unresolved")
		add("desktop entry", style.StatusSkipped, "browser unresolved")
	} else {
		rendered := render.AppArtifacts(render.AppInputs{
			Manifest:    m,
			BrowserExec: browserExec,
			WrapperPath: wrapperPath,
			IconPath:    m.Icon,
		}, rt.Config)
		checkFile(rt, &report.Checks, "wrapper script", wrapperPath, rendered[render.KindWrapper], true)
		checkFile(rt, &report.Checks, "desktop entry", desktopPath, rendered[render.KindDesktop], false)
	}

	if _, err := rt.FS.Stat(m.Profile); err != nil {
		add("profile", style.StatusFail, "missing "+m.Profile+"; cannot fix automatically")
	} else {
		add("profile", style.StatusPass, "")
	}

	switch {
	case m.Icon == "":
		add("icon", style.StatusSkipped, "no icon configured")
	case !filepath.IsAbs(m.Icon):
		add("icon", style.StatusSkipped, "themed icon name")
	default:
		if _, err := rt.FS.Stat(m.Icon); err != nil {
			add("icon", style.StatusFail, "missing "+m.Icon)
		} else {
			add("icon", style.StatusPass, "")
		}
	}

	entry := state.FindApp(id)
	switch {
	case entry == nil:
		add("registry entry", style.StatusFail, "not registered")
	case entry.WrapperScript != wrapperPath || entry.DesktopFile != desktopPath:
		add("registry entry", style.StatusFail, "recorded paths are stale")
	default:
		add("registry entry", style.StatusPass, "")
	}

	if m.Inject == nil {
		add("userscript", style.StatusSkipped, "no injection configured")
	} else {
		expected, err := synccmd.UserscriptFor(rt, m)
		if err != nil {
			add("userscript", style.StatusFail, err.Error())
		} else {
			checkFile(rt, &report.Checks, "userscript", m.Inject.Userscript, expected, false)
		}
	}
	return report
}

func auditHandler(ctx context.Context, rt *runtime.Runtime, h registry.HandlerEntry) HandlerReport {
	report := HandlerReport{Scheme: h.Scheme}
	add := func(name string, status style.Status, detail string) {
		report.Checks = append(report.Checks, Check{Name: name, Status: status, Detail: detail})
	}

	browserExec, err := browser.Resolve(h.Browser, rt.Config)
	if err != nil {
		add("browser", style.StatusFail, err.Error())
		add("handler script", style.StatusSkipped, "browser unresolved")
		add("handler desktop entry", style.StatusSkipped, "browser unresolved")
	} else {
		add("browser", style.StatusPass, browserExec)
		checkFile(rt, &report.Checks, "handler script", h.Script,
			render.HandlerScript(h.Scheme, h.Browser, browserExec), true)
		checkFile(rt, &report.Checks, "handler desktop entry", h.DesktopFile,
			render.HandlerDesktopEntry(h.Scheme, h.Browser, h.Script), false)
	}

	mimeType := "x-scheme-handler/" + h.Scheme
	current, err := rt.Runner.XdgMimeQuery(ctx, mimeType)
	switch {
	case err != nil:
		add("mime registration", style.StatusSkipped, "xdg-mime unavailable")
	case current != paths.HandlerDesktopFileName(h.Scheme):
		add("mime registration", style.StatusFail,
			fmt.Sprintf("default for %s is %q", mimeType, current))
	default:
		add("mime registration", style.StatusPass, "")
	}
	return report
}

func checkFile(rt *runtime.Runtime, checks *[]Check, name, path, expected string, executable bool) {
	add := func(status style.Status, detail string) {
		*checks = append(*checks, Check{Name: name, Status: status, Detail: detail})
	}

	info, err := rt.FS.Stat(path)
	if err != nil {
		add(style.StatusFail, "missing "+path)
		return
	}
	if executable && info.Mode().Perm()&0o111 == 0 {
		add(style.StatusFail, path+" is not executable")
		return
	}
	actual, err := rt.FS.ReadFile(path)
	if err != nil {
		add(style.StatusFail, "unreadable "+path)
		return
	}
	if !bytes.Equal(actual, []byte(expected)) {
		add(style.StatusFail, path+" drifted from manifest")
		return
	}
	add(style.StatusPass, "")
}

// applyFixes repairs what regeneration can repair. A failed repair is
// recorded and never aborts the pass: a missing manifest, profile or
// browser executable has no safe automatic remediation, and the
// re-run battery must still report the remaining FAIL checks.
func applyFixes(ctx context.Context, rt *runtime.Runtime, result *Result) ([]string, []string, error) {
	var fixes, unfixable []string

	for _, app := range result.Apps {
		if !app.Failed() {
			continue
		}
		syncResult, err := synccmd.Sync(ctx, rt, synccmd.Options{AppID: app.ID})
		if err == nil && len(syncResult.Apps) == 1 {
			err = syncResult.Apps[0].Err
		}
		if err != nil {
			unfixable = append(unfixable,
				fmt.Sprintf("cannot fix %s automatically: %v", app.ID, err))
			continue
		}
		fixes = append(fixes, "resynced "+app.ID)
	}

	if len(result.Orphans) > 0 {
		if _, err := rt.Registry.Modify(func(s registry.State) (registry.State, error) {
			for _, id := range result.Orphans {
				s = s.WithoutApp(id)
			}
			return s, nil
		}); err != nil {
			return nil, nil, err
		}
		for _, id := range result.Orphans {
			fixes = append(fixes, "deregistered orphan "+id)
		}
	}

	for _, h := range result.Handlers {
		if !h.Failed() {
			continue
		}
		if err := repairHandler(ctx, rt, h.Scheme); err != nil {
			unfixable = append(unfixable,
				fmt.Sprintf("cannot fix handler %s automatically: %v", h.Scheme, err))
			continue
		}
		fixes = append(fixes, "reinstalled handler "+h.Scheme)
	}
	return fixes, unfixable, nil
}

func repairHandler(ctx context.Context, rt *runtime.Runtime, scheme string) error {
	state, err := rt.Registry.Read()
	if err != nil {
		return err
	}
	entry := state.FindHandler(scheme)
	if entry == nil {
		return errors.Newf(errors.ErrHandlerNotFound, "no handler registered for scheme %q", scheme)
	}

	browserExec, err := browser.Resolve(entry.Browser, rt.Config)
	if err != nil {
		return err
	}
	writer := artifact.NewWriter(rt.FS, false)
	if _, err := writer.Write(entry.Script,
		[]byte(render.HandlerScript(entry.Scheme, entry.Browser, browserExec)), 0o755); err != nil {
		return err
	}
	if _, err := writer.Write(entry.DesktopFile,
		[]byte(render.HandlerDesktopEntry(entry.Scheme, entry.Browser, entry.Script)), 0o644); err != nil {
		return err
	}
	if err := rt.Runner.UpdateDesktopDatabase(ctx, rt.Paths.DesktopDir()); err != nil {
		logger := logging.GetLogger("commands.audit")
		logger.Warn().Err(err).Msg("desktop database refresh failed")
	}
	return rt.Runner.XdgMimeDefault(ctx,
		paths.HandlerDesktopFileName(entry.Scheme), "x-scheme-handler/"+entry.Scheme)
}
