package list_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/commands/add"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/commands/list"
	"github.com/pwa-forge/pwa-forge/pkg/system"
	"github.com/pwa-forge/pwa-forge/pkg/testutil"
)

func newRuntime(env *testutil.Env) *runtime.Runtime {
	return runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
}

func TestListEmpty(t *testing.T) {
	env := testutil.NewEnv(t)
	result, err := list.List(newRuntime(env))
	require.NoError(t, err)
	assert.Empty(t, result.Apps)
}

func TestListSyncedAndPending(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	_, err := add.Add(context.Background(), rt, add.Options{URL: "https://gmail.example.com", ID: "gmail"})
	require.NoError(t, err)
	_, err = add.Add(context.Background(), rt, add.Options{URL: "https://calendar.example.com", ID: "calendar", NoSync: true})
	require.NoError(t, err)

	result, err := list.List(rt)
	require.NoError(t, err)
	require.Len(t, result.Apps, 2)

	assert.Equal(t, "calendar", result.Apps[0].ID)
	assert.Equal(t, list.StatePending, result.Apps[0].State)
	assert.Equal(t, "gmail", result.Apps[1].ID)
	assert.Equal(t, list.StateSynced, result.Apps[1].State)
}

func TestListOrphanedRegistryEntry(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	_, err := add.Add(context.Background(), rt, add.Options{URL: "https://gmail.example.com", ID: "gmail"})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(env.Paths.AppDir("gmail")))

	result, err := list.List(rt)
	require.NoError(t, err)
	require.Len(t, result.Apps, 1)
	assert.Equal(t, list.StateOrphaned, result.Apps[0].State)
}

func TestListInvalidManifest(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	require.NoError(t, os.MkdirAll(env.Paths.AppDir("broken"), 0o755))
	require.NoError(t, os.WriteFile(env.Paths.ManifestPath("broken"), []byte("id: [not valid"), 0o644))

	result, err := list.List(rt)
	require.NoError(t, err)
	require.Len(t, result.Apps, 1)
	assert.Equal(t, list.StateInvalid, result.Apps[0].State)
}
