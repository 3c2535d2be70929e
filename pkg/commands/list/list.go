// Package list reports every known application, merging what the
// manifests say with what the registry and the filesystem actually
// hold.
package list

import (
	"sort"

	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// SyncState summarizes how an application relates to its artifacts
type SyncState string

const (
	// StateSynced means manifest, registry and artifacts all agree
	StateSynced SyncState = "synced"
	// StatePending means the manifest exists but artifacts are missing
	StatePending SyncState = "pending"
	// StateOrphaned means the registry references a manifest that is gone
	StateOrphaned SyncState = "orphaned"
	// StateInvalid means the manifest exists but does not validate
	StateInvalid SyncState = "invalid"
)

// Entry is one row of the listing
type Entry struct {
	ID      string
	Name    string
	URL     string
	Browser string
	State   SyncState
}

// Result is the outcome of the list command
type Result struct {
	Apps []Entry
}

// List enumerates all applications from manifests plus any registry
// leftovers.
func List(rt *runtime.Runtime) (*Result, error) {
	logger := logging.GetLogger("commands.list")

	ids, err := rt.Store.ListIDs()
	if err != nil {
		return nil, err
	}
	state, err := rt.Registry.Read()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
		m, err := rt.Store.Load(id)
		if err != nil {
			result.Apps = append(result.Apps, Entry{ID: id, State: StateInvalid})
			continue
		}
		entry := Entry{
			ID:      m.ID,
			Name:    m.Name,
			URL:     m.URL,
			Browser: m.Browser.String(),
			State:   StateSynced,
		}
		if !artifactsPresent(rt, id) {
			entry.State = StatePending
		}
		result.Apps = append(result.Apps, entry)
	}

	for _, app := range state.Apps {
		if seen[app.ID] {
			continue
		}
		result.Apps = append(result.Apps, Entry{
			ID:    app.ID,
			Name:  app.Name,
			URL:   app.URL,
			State: StateOrphaned,
		})
	}
	sort.Slice(result.Apps, func(i, j int) bool { return result.Apps[i].ID < result.Apps[j].ID })

	logger.Debug().Int("apps", len(result.Apps)).Msg("listed applications")
	return result, nil
}

func artifactsPresent(rt *runtime.Runtime, id string) bool {
	for _, path := range []string{rt.Paths.WrapperPath(id), rt.Paths.DesktopFilePath(id)} {
		if _, err := rt.FS.Stat(path); err != nil {
			return false
		}
	}
	return true
}
