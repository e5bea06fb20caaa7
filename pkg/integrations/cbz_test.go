package integrations

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChapterDir(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, payload := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), payload, 0644))
	}
	return dir
}

func TestWriteCBZ(t *testing.T) {
	dir := writeChapterDir(t, map[string][]byte{
		"02.png":    []byte("two"),
		"01.png":    []byte("one"),
		"10.jpg":    []byte("ten"),
		"notes.txt": []byte("skip me"),
	})
	out := filepath.Join(t.TempDir(), "chapter.cbz")

	require.NoError(t, WriteCBZ(dir, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 3)
	assert.Equal(t, "01.png", r.File[0].Name)
	assert.Equal(t, "02.png", r.File[1].Name)
	assert.Equal(t, "10.jpg", r.File[2].Name)

	f, err := r.File[0].Open()
	require.NoError(t, err)
	defer f.Close()
	payload, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), payload)
}

func TestWriteCBZEmptyDir(t *testing.T) {
	dir := t.TempDir()
	err := WriteCBZ(dir, filepath.Join(t.TempDir(), "empty.cbz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestWriteCBZMissingDir(t *testing.T) {
	err := WriteCBZ(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out.cbz"))
	require.Error(t, err)
}
