package sessionstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session")
	f := NewFile(path)

	_, err := f.Load(ctx)
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, f.Save(ctx, "first"))
	require.NoError(t, f.Save(ctx, "second"))

	token, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm())

	require.NoError(t, f.Clear(ctx))
	_, err = f.Load(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, f.Clear(ctx), "clearing an absent token is not an error")
}

func TestFile_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "session"))

	require.NoError(t, f.Save(context.Background(), "tok"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session", entries[0].Name())
}

func TestFile_BlankFileIsNoToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), fileMode))

	_, err := NewFile(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFile_SaveFailsWhenDirIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, fileMode))

	err := NewFile(filepath.Join(blocker, "session")).Save(context.Background(), "tok")
	assert.Error(t, err)
}
