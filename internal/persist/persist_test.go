package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/antkeeper/internal/state"
)

func TestLogAndStatePathsShareStem(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	logPath := LogPath("/logs", ts, "deadbeef")
	statePath := StatePath("/state", ts, "deadbeef")

	assert.Equal(t, "20260304050607-deadbeef.log", filepath.Base(logPath))
	assert.Equal(t, "20260304050607-deadbeef.json", filepath.Base(statePath))
}

func TestWriteReadSnapshotRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	s := state.State{"run_id": "deadbeef", "count": float64(3), "tags": []any{"a", "b"}}
	require.NoError(t, WriteSnapshot(path, s))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestWriteSnapshotIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	require.NoError(t, WriteSnapshot(path, state.State{"a": 1}))
	require.NoError(t, WriteSnapshot(path, state.State{"a": 2}))

	entries, err := filepath.Glob(filepath.Join(dir, ".antkeeper-state-*"))
	require.NoError(t, err)
	assert.Empty(t, entries, "no leftover temp files after a successful write")

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, state.State{"a": float64(2)}, got)
}

func TestWriteSnapshotRejectsUnencodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	err := WriteSnapshot(path, state.State{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write state snapshot")
}

func TestEnsureDirsCreatesBoth(t *testing.T) {
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	stateDir := filepath.Join(root, "state")

	require.NoError(t, EnsureDirs(logDir, stateDir))

	assert.DirExists(t, logDir)
	assert.DirExists(t, stateDir)
}
