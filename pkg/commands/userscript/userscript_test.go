package userscript_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/commands/add"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/commands/userscript"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/system"
	"github.com/pwa-forge/pwa-forge/pkg/testutil"
)

func setup(t *testing.T) (*testutil.Env, *runtime.Runtime) {
	env := testutil.NewEnv(t)
	rt := runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
	_, err := add.Add(context.Background(), rt, add.Options{URL: "https://gmail.example.com", ID: "gmail"})
	require.NoError(t, err)
	return env, rt
}

func TestGenerateDefaultPath(t *testing.T) {
	env, rt := setup(t)

	result, err := userscript.Generate(rt, userscript.Options{AppID: "gmail"})
	require.NoError(t, err)
	assert.Equal(t, env.Paths.UserscriptPath("gmail"), result.Path)

	content := env.ReadFile(result.Path)
	assert.Contains(t, content, "// ==UserScript==")
	assert.Contains(t, content, `const SCHEME = 'ff';`)
	assert.Contains(t, content, `"gmail.example.com"`)

	m, err := rt.Store.Load("gmail")
	require.NoError(t, err)
	require.NotNil(t, m.Inject)
	assert.Equal(t, result.Path, m.Inject.Userscript)
	assert.Equal(t, "ff", m.Inject.UserscriptScheme)
}

func TestGenerateCustomOutputAndScheme(t *testing.T) {
	env, rt := setup(t)
	out := filepath.Join(env.Root, "custom.user.js")

	result, err := userscript.Generate(rt, userscript.Options{AppID: "gmail", Output: out, Scheme: "zz"})
	require.NoError(t, err)
	assert.Equal(t, out, result.Path)
	assert.Contains(t, env.ReadFile(out), `const SCHEME = 'zz';`)
}

func TestGenerateDryRun(t *testing.T) {
	env, rt := setup(t)

	result, err := userscript.Generate(rt, userscript.Options{AppID: "gmail", DryRun: true})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Content)
	assert.False(t, env.FileExists(result.Path))

	m, err := rt.Store.Load("gmail")
	require.NoError(t, err)
	assert.Nil(t, m.Inject)
}

func TestGenerateUnknownApp(t *testing.T) {
	_, rt := setup(t)

	_, err := userscript.Generate(rt, userscript.Options{AppID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
}
