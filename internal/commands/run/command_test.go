package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/state"
)

func TestReadPromptConcatenatesFilesWithoutSeparator(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.txt")
	f2 := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(f1, []byte("hello "), 0o644))
	require.NoError(t, os.WriteFile(f2, []byte("world"), 0o644))

	got, err := readPrompt([]string{f1, f2})
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestLoadInitialStateFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("foo: bar\nn: 1\n"), 0o644))

	got, err := loadInitialStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bar", got["foo"])
}

func TestRunCommandExecutesEchoWorkflow(t *testing.T) {
	dir := t.TempDir()
	app := registry.New(dir+"/logs", dir+"/state", dir+"/worktrees")
	require.NoError(t, app.Register("echo", func(r registry.RunnerContext, s state.State) (state.State, error) {
		return s.With("echoed", s["prompt"]), nil
	}))

	promptFile := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(promptFile, []byte("hi"), 0o644))

	cmd := NewCommand(app)
	cmd.SetArgs([]string{"echo", promptFile})
	require.NoError(t, cmd.Execute())
}
