package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/geocine/canvasdocs/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathToRoot(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"_sidebar.md", ""},
		{"week-1/_sidebar.md", "../"},
		{filepath.Join("a", "b", "file.md"), "../../"},
		{filepath.Join("a", "b", "c", "file.md"), "../../../"},
	}

	for _, c := range cases {
		got := PathToRoot(c.in)
		assert.Equal(t, c.want, got, "input=%s", c.in)
	}
}

func TestRemoveDirContents(t *testing.T) {
	dir := t.TempDir()

	// Create nested structure
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("B"), 0o644))

	require.NoError(t, RemoveDirContents(dir))

	// Directory should exist but be empty
	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, after, 0)
}

func TestWriteFileCreatesParentsAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "week-1", "01-intro.md")

	require.NoError(t, WriteFile(path, []byte("old")))
	require.NoError(t, WriteFile(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteFileReportsFilesystemError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "child.md"), []byte("x"))
	require.Error(t, err)

	var fsErr *models.FilesystemError
	assert.True(t, errors.As(err, &fsErr))
	assert.True(t, models.IsFatal(err))
}

func TestWriteStreamLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img", "photo.png")

	err := WriteStream(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("connection reset")
	})
	require.Error(t, err)
	assert.False(t, FileExists(path))
	assert.False(t, FileExists(path+".part"))

	require.NoError(t, WriteStream(path, func(w io.Writer) error {
		_, err := w.Write([]byte("png"))
		return err
	}))
	assert.True(t, FileExists(path))
}

func TestWriteStreamWriteFailureIsFatal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "photo.png.part"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = fileWriter{f}.Write([]byte("png"))
	require.Error(t, err)

	var fsErr *models.FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "write", fsErr.Op)
	assert.True(t, models.IsFatal(err))
}
