package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/lockfile"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
)

// Store is the sole reader and writer of the on-disk manifest
// representation. Saves are serialized per application id with the same
// advisory-lock discipline the registry uses, and always re-validate
// before anything touches the canonical path.
type Store struct {
	paths *paths.Paths
	log   zerolog.Logger
}

// NewStore creates a manifest store over the given path layout
func NewStore(p *paths.Paths) *Store {
	return &Store{
		paths: p,
		log:   logging.GetLogger("manifest"),
	}
}

// Path returns the canonical manifest path for an application id
func (s *Store) Path(appID string) string {
	return s.paths.ManifestPath(appID)
}

// BackupPath returns the sibling backup path for an application id
func (s *Store) BackupPath(appID string) string {
	return s.paths.ManifestBackupPath(appID)
}

// ListIDs returns the ids of every application directory that holds a
// manifest file, sorted. A missing apps directory reads as empty.
func (s *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.paths.AppsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", s.paths.AppsDir())
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(s.Path(entry.Name())); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads, parses and validates the manifest for appID
func (s *Store) Load(appID string) (*Manifest, error) {
	return s.LoadFrom(s.Path(appID))
}

// LoadFrom reads, parses and validates a manifest from an explicit path.
// The audit engine uses this for manifest paths recorded in the registry.
func (s *Store) LoadFrom(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrManifestNotFound, "manifest not found: %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read manifest %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestMalformed, "manifest %s is not valid YAML", path)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	s.log.Debug().Str("app", m.ID).Str("path", path).Msg("Manifest loaded")
	return &m, nil
}

// Save validates and persists a manifest. With createBackup set, the
// existing file is first copied to the sibling backup path (overwriting
// any prior backup) so a failed edit can be rolled back. The write is
// atomic: content lands in a temporary file that is renamed over the
// canonical path.
func (s *Store) Save(m *Manifest, createBackup bool) error {
	if err := m.Validate(); err != nil {
		return err
	}

	path := s.Path(m.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}

	release, err := lockfile.Acquire(path+".lock", lockfile.DefaultTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	if createBackup {
		if current, err := os.ReadFile(path); err == nil {
			if err := os.WriteFile(s.BackupPath(m.ID), current, 0o644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write backup %s", s.BackupPath(m.ID))
			}
		}
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to serialize manifest")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to commit %s", path)
	}

	s.log.Debug().Str("app", m.ID).Bool("backup", createBackup).Msg("Manifest saved")
	return nil
}

// CreateBackup copies the current manifest bytes to the backup path
// without parsing them, so even a broken manifest can be backed up
// before an edit.
func (s *Store) CreateBackup(appID string) error {
	data, err := s.RawContent(appID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.BackupPath(appID), data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write backup %s", s.BackupPath(appID))
	}
	return nil
}

// RestoreBackup restores the last backup over the current manifest file.
// It reports whether a restoration occurred.
func (s *Store) RestoreBackup(appID string) (bool, error) {
	backup := s.BackupPath(appID)
	data, err := os.ReadFile(backup)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read backup %s", backup)
	}

	path := s.Path(appID)
	release, err := lockfile.Acquire(path+".lock", lockfile.DefaultTimeout)
	if err != nil {
		return false, err
	}
	defer func() { _ = release() }()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to restore %s", path)
	}

	s.log.Info().Str("app", appID).Msg("Manifest restored from backup")
	return true, nil
}

// DiscardBackup removes the backup file if one exists
func (s *Store) DiscardBackup(appID string) error {
	err := os.Remove(s.BackupPath(appID))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove backup for %s", appID)
	}
	return nil
}

// RawContent returns the manifest file bytes without parsing. The edit
// workflow uses this to compare pre/post-edit content byte-for-byte.
func (s *Store) RawContent(appID string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(appID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrManifestNotFound, "manifest not found: %s", s.Path(appID))
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read manifest for %s", appID)
	}
	return data, nil
}
