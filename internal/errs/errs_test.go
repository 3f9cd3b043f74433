package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWorkflowFailedDetectsWrapped(t *testing.T) {
	wf := &WorkflowFailedError{Workflow: "echo", RunID: "abcd1234", Message: "boom"}
	wrapped := Wrap(wf, "run aborted")

	assert.True(t, IsWorkflowFailed(wrapped))
	assert.False(t, IsWorkflowFailed(errors.New("something else")))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}

func TestSnapshotErrorUnwraps(t *testing.T) {
	cause := errors.New("unsupported type")
	se := &SnapshotError{Path: "/tmp/x.json", Cause: cause}

	require.ErrorIs(t, se, cause)
}

func TestWorkflowFailedErrorMessage(t *testing.T) {
	wf := &WorkflowFailedError{Workflow: "greet", RunID: "deadbeef", Message: "boom"}
	assert.Contains(t, wf.Error(), "greet")
	assert.Contains(t, wf.Error(), "boom")

	bare := &WorkflowFailedError{Message: "boom"}
	assert.Equal(t, "boom", bare.Error())
}
