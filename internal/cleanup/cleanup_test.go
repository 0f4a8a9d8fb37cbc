package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerCleanup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tr := NewTracker()

	a, err := tr.CreateTemp(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	b, err := tr.CreateTemp(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	require.NoError(t, b.Commit())
	assert.Equal(t, []string{a.Name()}, tr.Pending())
	require.NoError(t, a.Close())

	tr.Cleanup()
	tr.Cleanup()
	assert.NoFileExists(t, a.Name())
	assert.FileExists(t, filepath.Join(dir, "b.txt"))
	assert.Empty(t, tr.Pending())
}

func TestCreateTempCommit(t *testing.T) {
	t.Parallel()
	dest := filepath.Join(t.TempDir(), "seconds.txt")
	require.NoError(t, os.WriteFile(dest, []byte("old\n"), 0o644))
	tr := NewTracker()

	f, err := tr.CreateTemp(dest)
	require.NoError(t, err)
	_, err = f.WriteString("90061\n")
	require.NoError(t, err)
	assert.Len(t, tr.Pending(), 1)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data), "destination untouched before commit")

	require.NoError(t, f.Commit())
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "90061\n", string(data))
	assert.Empty(t, tr.Pending())
}

func TestCreateTempInterrupted(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.json")
	tr := NewTracker()

	f, err := tr.CreateTemp(dest)
	require.NoError(t, err)
	tmp := f.Name()
	require.NoError(t, f.Close())

	tr.Cleanup()
	assert.NoFileExists(t, tmp)
	assert.NoFileExists(t, dest)

	f, err = tr.CreateTemp(dest)
	require.NoError(t, err)
	f.Discard()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
