package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsIndependent(t *testing.T) {
	s := State{"a": 1}
	clone := s.Clone()
	clone["a"] = 2

	assert.Equal(t, 1, s["a"])
	assert.Equal(t, 2, clone["a"])
}

func TestWithLeavesReceiverUntouched(t *testing.T) {
	s := State{"a": 1}
	out := s.With("b", 2)

	assert.NotContains(t, s, "b")
	assert.Equal(t, 2, out["b"])
	assert.Equal(t, 1, out["a"])
}

func TestMergeOverlaysOnTop(t *testing.T) {
	s := State{"a": 1, "b": 1}
	out := s.Merge(State{"b": 2, "c": 3})

	assert.Equal(t, State{"a": 1, "b": 2, "c": 3}, out)
	assert.Equal(t, 1, s["b"]) // receiver untouched
}

func TestCloneOfNilIsEmptyNotNil(t *testing.T) {
	var s State
	clone := s.Clone()

	assert.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestKeys(t *testing.T) {
	s := State{"a": 1, "b": 2}
	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}
