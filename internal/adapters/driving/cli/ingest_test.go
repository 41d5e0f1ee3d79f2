package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file...]", ingestCmd.Use)
}

func TestIngestCmd_RequiresAtLeastOneArg(t *testing.T) {
	_, err := execute("ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := clearTestServices()
	defer cleanup()

	_, err := execute("ingest", "notes.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestIngestCmd_IndexesFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	pathA := filepath.Join(dir, "notes.txt")
	pathB := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(pathA, []byte("some notes"), 0644))
	require.NoError(t, os.WriteFile(pathB, []byte("# Guide"), 0644))

	out, err := execute("ingest", pathA, pathB)

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed notes.txt")
	assert.Contains(t, out, "Indexed guide.md")

	mock := ingestService.(*mockIngestService)
	assert.Equal(t, []string{"notes.txt", "guide.md"}, mock.ingested)
}

func TestIngestCmd_MissingFileReportsFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("ingest", filepath.Join(t.TempDir(), "missing.txt"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
	assert.Contains(t, out, "Failed to ingest")
}

func TestIngestCmd_ContinuesAfterFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("content"), 0644))

	out, err := execute("ingest", filepath.Join(dir, "missing.txt"), good)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "Indexed good.txt")
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes.txt", "text/plain"},
		{"README.md", "text/markdown"},
		{"report.PDF", "application/pdf"},
		{"spec.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"data.json", "application/json"},
		{"rates.csv", "text/csv"},
		{"Makefile", "text/plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, detectMIMEType(tt.path), "path %q", tt.path)
	}
}
