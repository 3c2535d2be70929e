package add_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/commands/add"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/manifest"
	"github.com/pwa-forge/pwa-forge/pkg/system"
	"github.com/pwa-forge/pwa-forge/pkg/testutil"
)

func newRuntime(env *testutil.Env) *runtime.Runtime {
	return runtime.NewWith(env.Paths, env.Config, nil, system.NewFakeRunner())
}

func TestAddDerivesEverythingFromURL(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	result, err := add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com/mail"})
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, "mail", m.ID)
	assert.Equal(t, "Mail", m.Name)
	assert.Equal(t, "Mail", m.WMClass)
	assert.Equal(t, manifest.BrowserChrome, m.Browser)
	assert.Equal(t, env.Paths.ProfileDir("mail"), m.Profile)
	assert.Equal(t, manifest.OutOfScopeOpenInDefault, m.OutOfScope)

	stored, err := rt.Store.Load("mail")
	require.NoError(t, err)
	assert.Equal(t, m.URL, stored.URL)

	assert.True(t, env.FileExists(env.Paths.WrapperPath("mail")))
	assert.True(t, env.FileExists(env.Paths.DesktopFilePath("mail")))
}

func TestAddHonorsOverrides(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	result, err := add.Add(context.Background(), rt, add.Options{
		URL:        "https://mail.google.com",
		ID:         "gmail",
		Name:       "Gmail",
		Browser:    "firefox",
		WMClass:    "GmailShell",
		Comment:    "Mail",
		Categories: []string{"Network", "Email"},
	})
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, "gmail", m.ID)
	assert.Equal(t, manifest.BrowserFirefox, m.Browser)
	assert.Equal(t, "GmailShell", m.WMClass)
	assert.Equal(t, []string{"Network", "Email"}, m.Categories)
}

func TestAddRejectsDuplicate(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	_, err := add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com", ID: "gmail"})
	require.NoError(t, err)

	_, err = add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com", ID: "gmail"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAppExists))
}

func TestAddRejectsBadURL(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	for _, u := range []string{"", "ftp://example.com", "https://", "not a url"} {
		_, err := add.Add(context.Background(), rt, add.Options{URL: u})
		assert.Error(t, err, "url %q", u)
	}
}

func TestAddDryRunWritesNothing(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	result, err := add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com", ID: "gmail", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "gmail", result.Manifest.ID)

	_, err = rt.Store.Load("gmail")
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestNotFound))
	assert.False(t, env.FileExists(env.Paths.WrapperPath("gmail")))
}

func TestAddNoSyncSkipsArtifacts(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	_, err := add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com", ID: "gmail", NoSync: true})
	require.NoError(t, err)

	_, err = rt.Store.Load("gmail")
	require.NoError(t, err)
	assert.False(t, env.FileExists(env.Paths.WrapperPath("gmail")))
}

func TestAddWithInject(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	result, err := add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com", ID: "gmail", Inject: true})
	require.NoError(t, err)
	require.NotNil(t, result.Manifest.Inject)
	assert.Equal(t, env.Paths.UserscriptPath("gmail"), result.Manifest.Inject.Userscript)
	assert.True(t, env.FileExists(env.Paths.UserscriptPath("gmail")))
}

func TestAddInstallsFileIcon(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	src := filepath.Join(env.Root, "logo.png")
	require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0o644))

	result, err := add.Add(context.Background(), rt, add.Options{
		URL:  "https://mail.google.com",
		ID:   "gmail",
		Icon: src,
	})
	require.NoError(t, err)

	want := filepath.Join(env.Paths.IconsDir(), "gmail.png")
	assert.Equal(t, want, result.Manifest.Icon)
	assert.Equal(t, "png-bytes", env.ReadFile(want))
}

func TestAddKeepsThemedIconName(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	result, err := add.Add(context.Background(), rt, add.Options{
		URL:  "https://mail.google.com",
		ID:   "gmail",
		Icon: "web-browser",
	})
	require.NoError(t, err)
	assert.Equal(t, "web-browser", result.Manifest.Icon)
}

func TestAddDryRunPreviewsArtifacts(t *testing.T) {
	env := testutil.NewEnv(t)
	rt := newRuntime(env)

	result, err := add.Add(context.Background(), rt, add.Options{URL: "https://mail.google.com", ID: "gmail", DryRun: true})
	require.NoError(t, err)
	require.NotNil(t, result.Sync)
	assert.True(t, result.Sync.DryRun)
	require.Len(t, result.Sync.Apps, 1)

	app := result.Sync.Apps[0]
	require.NoError(t, app.Err)
	require.Len(t, app.Artifacts, 2)
	for _, a := range app.Artifacts {
		assert.Equal(t, artifact.ActionCreate, a.Action)
		assert.False(t, env.FileExists(a.Path))
	}
}
