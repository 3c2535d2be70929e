package remove_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/commands/add"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/commands/remove"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/system"
	"github.com/pwa-forge/pwa-forge/pkg/testutil"
)

func addApp(t *testing.T, env *testutil.Env, rt *runtime.Runtime, id string) {
	t.Helper()
	_, err := add.Add(context.Background(), rt, add.Options{
		URL: "https://" + id + ".example.com",
		ID:  id,
	})
	require.NoError(t, err)
}

func TestRemoveDeletesArtifactsKeepsProfile(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
	addApp(t, env, rt, "gmail")
	require.NoError(t, os.MkdirAll(env.Paths.ProfileDir("gmail"), 0o755))

	result, err := remove.Remove(context.Background(), rt, remove.Options{ID: "gmail"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Removed)

	assert.False(t, env.FileExists(env.Paths.WrapperPath("gmail")))
	assert.False(t, env.FileExists(env.Paths.DesktopFilePath("gmail")))
	assert.False(t, env.FileExists(env.Paths.ManifestPath("gmail")))
	assert.True(t, env.FileExists(env.Paths.ProfileDir("gmail")))

	state, err := rt.Registry.Read()
	require.NoError(t, err)
	assert.Nil(t, state.FindApp("gmail"))
}

func TestRemovePurgeProfile(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
	addApp(t, env, rt, "gmail")

	_, err := remove.Remove(context.Background(), rt, remove.Options{ID: "gmail", PurgeProfile: true})
	require.NoError(t, err)
	assert.False(t, env.FileExists(env.Paths.AppDir("gmail")))
}

func TestRemoveUnknownApp(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())

	_, err := remove.Remove(context.Background(), rt, remove.Options{ID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAppNotFound))
}

func TestRemoveDryRunKeepsEverything(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
	addApp(t, env, rt, "gmail")

	result, err := remove.Remove(context.Background(), rt, remove.Options{ID: "gmail", DryRun: true})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Removed)

	assert.True(t, env.FileExists(env.Paths.WrapperPath("gmail")))
	assert.True(t, env.FileExists(env.Paths.ManifestPath("gmail")))
	state, err := rt.Registry.Read()
	require.NoError(t, err)
	assert.NotNil(t, state.FindApp("gmail"))
}

func TestRemoveCleansUpRegistryOnlyEntry(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
	addApp(t, env, rt, "gmail")
	// manifest vanished but the registry still knows the app
	require.NoError(t, os.Remove(env.Paths.ManifestPath("gmail")))

	_, err := remove.Remove(context.Background(), rt, remove.Options{ID: "gmail"})
	require.NoError(t, err)

	state, err := rt.Registry.Read()
	require.NoError(t, err)
	assert.Nil(t, state.FindApp("gmail"))
}
