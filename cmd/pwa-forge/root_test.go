package pwaforge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/testutil"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	testutil.NewEnv(t)

	out, err := runCommand(t)

	require.Error(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestAddThenListThenRemove(t *testing.T) {
	testutil.NewEnv(t)

	out, err := runCommand(t, "add", "https://mail.example.com", "--id", "mail")
	require.NoError(t, err)
	assert.Contains(t, out, "mail")

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "mail.example.com")

	_, err = runCommand(t, "remove", "mail")
	require.NoError(t, err)

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No applications found")
}

func TestAddDryRunWritesNothing(t *testing.T) {
	env := testutil.NewEnv(t)

	out, err := runCommand(t, "add", "https://mail.example.com", "--id", "mail", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")
	assert.False(t, env.FileExists(env.Paths.ManifestPath("mail")))
}

func TestConfigRoundTrip(t *testing.T) {
	testutil.NewEnv(t)

	_, err := runCommand(t, "config", "set", "default_browser", "firefox")
	require.NoError(t, err)

	out, err := runCommand(t, "config", "get", "default_browser")
	require.NoError(t, err)
	assert.Contains(t, out, "firefox")
}

func TestUnknownAppIsUserError(t *testing.T) {
	testutil.NewEnv(t)

	_, err := runCommand(t, "remove", "nope")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pwa-forge version")
}
