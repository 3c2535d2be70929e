// Package registry tracks every application and scheme handler managed
// by pwa-forge in a single JSON file. The file stays human-readable so
// it can be inspected and repaired by hand. All mutation flows through
// Modify, which holds an exclusive advisory lock for the whole
// read-modify-write cycle.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/lockfile"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// SchemaVersion is the current registry file format version
const SchemaVersion = 1

// AppStatus describes an application's lifecycle state
type AppStatus string

// Application statuses
const (
	StatusActive AppStatus = "active"
	StatusBroken AppStatus = "broken"
)

// AppEntry records one managed application
type AppEntry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	ManifestPath  string    `json:"manifest_path"`
	DesktopFile   string    `json:"desktop_file"`
	WrapperScript string    `json:"wrapper_script"`
	Status        AppStatus `json:"status"`
}

// HandlerEntry records one installed scheme handler
type HandlerEntry struct {
	Scheme      string `json:"scheme"`
	Browser     string `json:"browser"`
	DesktopFile string `json:"desktop_file"`
	Script      string `json:"script"`
}

// State is the full registry contents
type State struct {
	Version  int            `json:"version"`
	Apps     []AppEntry     `json:"apps"`
	Handlers []HandlerEntry `json:"handlers"`
}

// Empty returns the state a fresh installation starts with
func Empty() State {
	return State{Version: SchemaVersion, Apps: []AppEntry{}, Handlers: []HandlerEntry{}}
}

// FindApp returns the entry for id, or nil
func (s State) FindApp(id string) *AppEntry {
	for i := range s.Apps {
		if s.Apps[i].ID == id {
			return &s.Apps[i]
		}
	}
	return nil
}

// FindHandler returns the entry for scheme, or nil
func (s State) FindHandler(scheme string) *HandlerEntry {
	for i := range s.Handlers {
		if s.Handlers[i].Scheme == scheme {
			return &s.Handlers[i]
		}
	}
	return nil
}

// WithApp returns a copy of the state with the entry added or replaced
func (s State) WithApp(entry AppEntry) State {
	out := s.clone()
	for i := range out.Apps {
		if out.Apps[i].ID == entry.ID {
			out.Apps[i] = entry
			return out
		}
	}
	out.Apps = append(out.Apps, entry)
	return out
}

// WithoutApp returns a copy of the state with the entry removed
func (s State) WithoutApp(id string) State {
	out := s.clone()
	apps := out.Apps[:0]
	for _, a := range out.Apps {
		if a.ID != id {
			apps = append(apps, a)
		}
	}
	out.Apps = apps
	return out
}

// WithHandler returns a copy of the state with the entry added or replaced
func (s State) WithHandler(entry HandlerEntry) State {
	out := s.clone()
	for i := range out.Handlers {
		if out.Handlers[i].Scheme == entry.Scheme {
			out.Handlers[i] = entry
			return out
		}
	}
	out.Handlers = append(out.Handlers, entry)
	return out
}

// WithoutHandler returns a copy of the state with the entry removed
func (s State) WithoutHandler(scheme string) State {
	out := s.clone()
	handlers := out.Handlers[:0]
	for _, h := range out.Handlers {
		if h.Scheme != scheme {
			handlers = append(handlers, h)
		}
	}
	out.Handlers = handlers
	return out
}

func (s State) clone() State {
	out := State{Version: s.Version}
	out.Apps = append([]AppEntry{}, s.Apps...)
	out.Handlers = append([]HandlerEntry{}, s.Handlers...)
	return out
}

// Registry reads and writes the registry file
type Registry struct {
	path string
	log  zerolog.Logger
}

// New returns a registry backed by the file at path
func New(path string) *Registry {
	return &Registry{
		path: path,
		log:  logging.GetLogger("registry").With().Str("path", path).Logger(),
	}
}

// Path returns the backing file path
func (r *Registry) Path() string {
	return r.path
}

// Read loads the current state without taking the lock. A missing file
// is not an error; it reads as the empty state.
func (r *Registry) Read() (State, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return State{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot read registry %s", r.path)
	}
	return decode(r.path, data)
}

// Modify applies fn to the current state and persists the result, all
// under an exclusive lock on a sibling lock file. fn must be pure: it
// receives the freshly read state and returns the complete new state.
func (r *Registry) Modify(fn func(State) (State, error)) (State, error) {
	release, err := lockfile.Acquire(r.path+".lock", lockfile.DefaultTimeout)
	if err != nil {
		return State{}, err
	}
	defer func() {
		if rerr := release(); rerr != nil {
			r.log.Warn().Err(rerr).Msg("releasing registry lock")
		}
	}()

	current, err := r.Read()
	if err != nil {
		return State{}, err
	}
	next, err := fn(current)
	if err != nil {
		return State{}, err
	}
	next.Version = SchemaVersion
	if err := r.write(next); err != nil {
		return State{}, err
	}
	r.log.Debug().Int("apps", len(next.Apps)).Int("handlers", len(next.Handlers)).Msg("registry updated")
	return next, nil
}

func (r *Registry) write(s State) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create registry directory")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode registry")
	}
	data = append(data, '\n')

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write registry %s", r.path)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace registry %s", r.path)
	}
	return nil
}

func decode(path string, data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, errors.Wrapf(err, errors.ErrRegistryCorrupt,
			"registry %s is not valid JSON; fix or delete it and run sync", path)
	}
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
	if s.Apps == nil {
		s.Apps = []AppEntry{}
	}
	if s.Handlers == nil {
		s.Handlers = []HandlerEntry{}
	}
	return s, nil
}
