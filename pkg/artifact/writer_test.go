package artifact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	"github.com/pwa-forge/pwa-forge/pkg/filesystem"
)

func TestWriteCreates(t *testing.T) {
	fs := filesystem.NewMemory()
	w := artifact.NewWriter(fs, false)

	res, err := w.Write("/wrappers/gmail", []byte("#!/bin/bash\n"), 0o755)
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionCreate, res.Action)
	assert.True(t, res.Applied)

	data, err := fs.ReadFile("/wrappers/gmail")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\n", string(data))

	info, err := fs.Stat("/wrappers/gmail")
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().String())
}

func TestWriteUnchangedSkips(t *testing.T) {
	fs := filesystem.NewMemory()
	w := artifact.NewWriter(fs, false)

	_, err := w.Write("/a/file", []byte("content"), 0o644)
	require.NoError(t, err)

	res, err := w.Write("/a/file", []byte("content"), 0o644)
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionUnchanged, res.Action)
	assert.False(t, res.Applied)
}

func TestWriteUpdatesDrifted(t *testing.T) {
	fs := filesystem.NewMemory()
	w := artifact.NewWriter(fs, false)

	_, err := w.Write("/a/file", []byte("old"), 0o644)
	require.NoError(t, err)

	res, err := w.Write("/a/file", []byte("new"), 0o644)
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionUpdate, res.Action)
	assert.True(t, res.Applied)

	data, _ := fs.ReadFile("/a/file")
	assert.Equal(t, "new", string(data))
}

func TestDryRunWriteMutatesNothing(t *testing.T) {
	fs := filesystem.NewMemory()
	w := artifact.NewWriter(fs, true)

	res, err := w.Write("/a/file", []byte("content"), 0o644)
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionCreate, res.Action)
	assert.False(t, res.Applied)

	_, err = fs.Stat("/a/file")
	assert.Error(t, err)
	_, err = fs.Stat("/a")
	assert.Error(t, err)
}

func TestDryRunReportsUpdate(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/a", 0o755))
	require.NoError(t, fs.WriteFile("/a/file", []byte("old"), 0o644))

	res, err := artifact.NewWriter(fs, true).Write("/a/file", []byte("new"), 0o644)
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionUpdate, res.Action)

	data, _ := fs.ReadFile("/a/file")
	assert.Equal(t, "old", string(data))
}

func TestRemove(t *testing.T) {
	fs := filesystem.NewMemory()
	w := artifact.NewWriter(fs, false)
	_, err := w.Write("/a/file", []byte("x"), 0o644)
	require.NoError(t, err)

	res, err := w.Remove("/a/file")
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionRemove, res.Action)
	assert.True(t, res.Applied)

	res, err = w.Remove("/a/file")
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionMissing, res.Action)
}

func TestDryRunRemoveKeepsFile(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/a", 0o755))
	require.NoError(t, fs.WriteFile("/a/file", []byte("x"), 0o644))

	res, err := artifact.NewWriter(fs, true).Remove("/a/file")
	require.NoError(t, err)
	assert.Equal(t, artifact.ActionRemove, res.Action)
	assert.False(t, res.Applied)

	_, err = fs.Stat("/a/file")
	assert.NoError(t, err)
}
