package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/paths"
)

func newTestStore(t *testing.T) (*manifest.Store, *paths.Paths) {
	t.Helper()
	t.Setenv(paths.EnvDataDir, filepath.Join(t.TempDir(), "data"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(t.TempDir(), "config"))

	p, err := paths.New()
	require.NoError(t, err)
	return manifest.NewStore(p), p
}

func testManifest(p *paths.Paths) *manifest.Manifest {
	return &manifest.Manifest{
		ID:         "gmail",
		Name:       "Gmail",
		URL:        "https://mail.google.com",
		Browser:    manifest.BrowserChrome,
		Profile:    p.ProfileDir("gmail"),
		Comment:    "Gmail PWA",
		WMClass:    "Gmail",
		Categories: []string{"Network", "WebBrowser"},
		OutOfScope: manifest.OutOfScopeOpenInDefault,
		Version:    manifest.SchemaVersion,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, p := newTestStore(t)
	m := testManifest(p)
	m.Flags = manifest.Flags{
		OzonePlatform:  "x11",
		EnableFeatures: []string{"WebUIDarkMode"},
		Additional:     []string{"--force-dark-mode"},
	}
	m.Inject = &manifest.Inject{Userscript: "/tmp/x.user.js", UserscriptScheme: "ff"}

	require.NoError(t, store.Save(m, false))

	got, err := store.Load("gmail")
	require.NoError(t, err)

	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.URL, got.URL)
	assert.Equal(t, m.Browser, got.Browser)
	assert.Equal(t, m.Profile, got.Profile)
	assert.Equal(t, m.WMClass, got.WMClass)
	assert.Equal(t, m.Categories, got.Categories)
	assert.Equal(t, m.Flags, got.Flags)
	assert.Equal(t, m.OutOfScope, got.OutOfScope)
	require.NotNil(t, got.Inject)
	assert.Equal(t, *m.Inject, *got.Inject)
	assert.Equal(t, m.Version, got.Version)
}

func TestLoadNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load("nonexistent")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
}

func TestLoadMalformed(t *testing.T) {
	store, p := newTestStore(t)
	path := p.ManifestPath("broken")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0o644))

	_, err := store.Load("broken")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestMalformed))
}

func TestLoadInvalidSchema(t *testing.T) {
	store, p := newTestStore(t)
	path := p.ManifestPath("badapp")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	// Parses fine, but the URL scheme is not http(s).
	content := `
id: badapp
name: Bad App
url: ftp://example.com
browser: chrome
profile: /tmp/profile
wm_class: BadApp
out_of_scope: open-in-default
version: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := store.Load("badapp")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))
}

func TestSaveRejectsInvalidWithoutWriting(t *testing.T) {
	store, p := newTestStore(t)
	m := testManifest(p)
	m.URL = "javascript:alert(1)"

	err := store.Save(m, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))

	_, statErr := os.Stat(store.Path(m.ID))
	assert.True(t, os.IsNotExist(statErr), "invalid manifest must never be persisted")
}

func TestSaveWithBackupAndRestore(t *testing.T) {
	store, p := newTestStore(t)
	m := testManifest(p)
	require.NoError(t, store.Save(m, false))

	original, err := store.RawContent("gmail")
	require.NoError(t, err)

	m.Name = "Gmail Official"
	require.NoError(t, store.Save(m, true))

	// The backup holds the pre-save content.
	backup, err := os.ReadFile(store.BackupPath("gmail"))
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	restored, err := store.RestoreBackup("gmail")
	require.NoError(t, err)
	assert.True(t, restored)

	current, err := store.RawContent("gmail")
	require.NoError(t, err)
	assert.Equal(t, original, current, "restore must be byte-for-byte")
}

func TestRestoreBackupWithoutBackup(t *testing.T) {
	store, _ := newTestStore(t)

	restored, err := store.RestoreBackup("gmail")
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestDiscardBackup(t *testing.T) {
	store, p := newTestStore(t)
	m := testManifest(p)
	require.NoError(t, store.Save(m, false))
	require.NoError(t, store.Save(m, true))

	require.NoError(t, store.DiscardBackup("gmail"))
	_, err := os.Stat(store.BackupPath("gmail"))
	assert.True(t, os.IsNotExist(err))

	// Discarding again is a no-op.
	require.NoError(t, store.DiscardBackup("gmail"))
}
