package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [dir]", watchCmd.Use)
}

func TestWatchCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := clearTestServices()
	defer cleanup()

	_, err := execute("watch", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("watch", filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch")
}

func TestWatchCmd_NotADirectory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := execute("watch", file)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWatchable(t *testing.T) {
	dir := t.TempDir()

	visible := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(visible, []byte("x"), 0644))
	hidden := filepath.Join(dir, ".hidden.txt")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0644))
	swap := filepath.Join(dir, "notes.txt~")
	require.NoError(t, os.WriteFile(swap, []byte("x"), 0644))
	subdir := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(subdir, 0755))

	assert.True(t, watchable(visible))
	assert.False(t, watchable(hidden))
	assert.False(t, watchable(swap))
	assert.False(t, watchable(subdir))
	assert.False(t, watchable(filepath.Join(dir, "gone.txt")))
}

func TestIngestDebouncer_CoalescesBursts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0644))

	d := newIngestDebouncer(context.Background(), rootCmd)
	defer d.Stop()

	// A save burst: several events for the same path.
	d.Schedule(path)
	d.Schedule(path)
	d.Schedule(path)

	mock := ingestService.(*mockIngestService)
	require.Eventually(t, func() bool {
		return len(mock.ingestedFiles()) == 1
	}, 3*time.Second, 20*time.Millisecond)

	// No further firings after the burst settled.
	time.Sleep(2 * watchDebounce)
	assert.Equal(t, []string{"notes.txt"}, mock.ingestedFiles())
}

func TestIngestDebouncer_StopCancelsPending(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0644))

	d := newIngestDebouncer(context.Background(), rootCmd)
	d.Schedule(path)
	d.Stop()

	time.Sleep(2 * watchDebounce)
	assert.Empty(t, ingestService.(*mockIngestService).ingestedFiles())
}
