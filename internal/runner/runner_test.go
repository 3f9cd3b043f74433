package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/antkeeper/internal/channel"
	"github.com/tombee/antkeeper/internal/errs"
	"github.com/tombee/antkeeper/internal/persist"
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/state"
)

func newTestApp(t *testing.T) *registry.App {
	dir := t.TempDir()
	return registry.New(filepath.Join(dir, "logs"), filepath.Join(dir, "state"), filepath.Join(dir, "worktrees"))
}

func TestRunInjectsFrameworkKeys(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Register("echo", func(_ registry.RunnerContext, s state.State) (state.State, error) {
		return s.With("echoed", s["prompt"]), nil
	}))

	ch := channel.NewLine("echo", state.State{"prompt": "hi", "run_id": "should-be-overwritten"})
	rn, err := New(app, ch)
	require.NoError(t, err)

	out, err := rn.Run()
	require.NoError(t, err)

	assert.Equal(t, rn.ID(), out[state.RunIDKey])
	assert.Equal(t, "echo", out[state.WorkflowNameKey])
	assert.Equal(t, "hi", out["echoed"])
}

func TestRunWritesOneLogAndOneStateFileWithSharedStem(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Register("echo", func(_ registry.RunnerContext, s state.State) (state.State, error) {
		return s, nil
	}))

	ch := channel.NewLine("echo", state.State{"prompt": "hi"})
	rn, err := New(app, ch)
	require.NoError(t, err)

	_, err = rn.Run()
	require.NoError(t, err)

	assert.FileExists(t, rn.LogPath())
	assert.FileExists(t, rn.StatePath())

	logStem := filepath.Base(rn.LogPath())
	logStem = logStem[:len(logStem)-len(filepath.Ext(logStem))]
	stateStem := filepath.Base(rn.StatePath())
	stateStem = stateStem[:len(stateStem)-len(filepath.Ext(stateStem))]
	assert.Equal(t, logStem, stateStem)
}

func TestRunUnknownHandlerFailsTheRun(t *testing.T) {
	app := newTestApp(t)

	ch := channel.NewLine("nope", state.New())
	rn, err := New(app, ch)
	require.NoError(t, err)

	_, err = rn.Run()
	assert.True(t, errs.IsWorkflowFailed(err))
}

func TestFinalSnapshotMatchesReturnedState(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Register("echo", func(_ registry.RunnerContext, s state.State) (state.State, error) {
		return s.With("echoed", s["prompt"]), nil
	}))

	ch := channel.NewLine("echo", state.State{"prompt": "hi"})
	rn, err := New(app, ch)
	require.NoError(t, err)

	out, err := rn.Run()
	require.NoError(t, err)

	onDisk, err := persist.ReadSnapshot(rn.StatePath())
	require.NoError(t, err)
	assert.Equal(t, out["echoed"], onDisk["echoed"])
}

func TestRunIDIsEightLowercaseHexChars(t *testing.T) {
	id, err := newRunID()
	require.NoError(t, err)
	assert.Len(t, id, 8)
	for _, c := range id {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestCloseAfterRunAllowsReadingArtifacts(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Register("echo", func(_ registry.RunnerContext, s state.State) (state.State, error) {
		return s, nil
	}))

	ch := channel.NewLine("echo", state.New())
	rn, err := New(app, ch)
	require.NoError(t, err)

	_, err = rn.Run()
	require.NoError(t, err)

	// The sink is closed by Run via defer; the file must remain readable.
	data, err := os.ReadFile(rn.LogPath())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
