package registry_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/registry"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	return registry.New(filepath.Join(t.TempDir(), "registry.json"))
}

func appEntry(id string) registry.AppEntry {
	return registry.AppEntry{
		ID:            id,
		Name:          id,
		URL:           "https://" + id + ".example.com",
		ManifestPath:  "/apps/" + id + "/manifest.yaml",
		DesktopFile:   "/desktop/pwa-forge-" + id + ".desktop",
		WrapperScript: "/wrappers/" + id,
		Status:        registry.StatusActive,
	}
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	r := newTestRegistry(t)

	state, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, registry.SchemaVersion, state.Version)
	assert.Empty(t, state.Apps)
	assert.Empty(t, state.Handlers)
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := registry.New(path).Read()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryCorrupt))
	assert.Contains(t, err.Error(), "fix or delete")
}

func TestModifyPersists(t *testing.T) {
	r := newTestRegistry(t)

	state, err := r.Modify(func(s registry.State) (registry.State, error) {
		return s.WithApp(appEntry("gmail")), nil
	})
	require.NoError(t, err)
	require.Len(t, state.Apps, 1)

	reread, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, state, reread)
	require.NotNil(t, reread.FindApp("gmail"))
	assert.Equal(t, registry.StatusActive, reread.FindApp("gmail").Status)
}

func TestModifyErrorLeavesFileUntouched(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Modify(func(s registry.State) (registry.State, error) {
		return s.WithApp(appEntry("gmail")), nil
	})
	require.NoError(t, err)

	_, err = r.Modify(func(s registry.State) (registry.State, error) {
		return registry.State{}, errors.New(errors.ErrAppExists, "application already registered")
	})
	require.Error(t, err)

	state, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, state.Apps, 1)
}

func TestWithAppReplacesExisting(t *testing.T) {
	s := registry.Empty().WithApp(appEntry("gmail"))
	updated := appEntry("gmail")
	updated.Status = registry.StatusBroken
	s = s.WithApp(updated)

	require.Len(t, s.Apps, 1)
	assert.Equal(t, registry.StatusBroken, s.Apps[0].Status)
}

func TestWithoutApp(t *testing.T) {
	s := registry.Empty().WithApp(appEntry("a")).WithApp(appEntry("b"))
	s = s.WithoutApp("a")

	assert.Nil(t, s.FindApp("a"))
	assert.NotNil(t, s.FindApp("b"))
}

func TestAppsKeepInsertionOrder(t *testing.T) {
	s := registry.Empty().WithApp(appEntry("zulip")).WithApp(appEntry("gmail"))

	require.Len(t, s.Apps, 2)
	assert.Equal(t, "zulip", s.Apps[0].ID)
	assert.Equal(t, "gmail", s.Apps[1].ID)

	// Replacing an entry keeps its slot.
	updated := appEntry("zulip")
	updated.Status = registry.StatusBroken
	s = s.WithApp(updated)
	assert.Equal(t, "zulip", s.Apps[0].ID)
	assert.Equal(t, registry.StatusBroken, s.Apps[0].Status)
}

func TestHandlers(t *testing.T) {
	h := registry.HandlerEntry{
		Scheme:      "ff",
		Browser:     "firefox",
		DesktopFile: "/desktop/pwa-forge-handler-ff.desktop",
		Script:      "/bin/pwa-forge-handler-ff",
	}
	s := registry.Empty().WithHandler(h)
	require.NotNil(t, s.FindHandler("ff"))
	assert.Nil(t, s.FindHandler("zz"))

	s = s.WithoutHandler("ff")
	assert.Nil(t, s.FindHandler("ff"))
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := registry.Empty().WithApp(appEntry("gmail"))
	_ = base.WithoutApp("gmail")
	_ = base.WithApp(appEntry("zulip"))

	require.Len(t, base.Apps, 1)
	assert.Equal(t, "gmail", base.Apps[0].ID)
}

func TestConcurrentModifyLosesNothing(t *testing.T) {
	r := newTestRegistry(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("app-%d", n)
			_, errs[n] = r.Modify(func(s registry.State) (registry.State, error) {
				return s.WithApp(appEntry(id)), nil
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	state, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, state.Apps, workers)
}
