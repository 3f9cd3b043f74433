package channel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tombee/antkeeper/internal/state"
)

func TestLineChannelFormatsProgressAndError(t *testing.T) {
	var out, errOut bytes.Buffer
	ch := &LineChannel{Workflow: "echo", Initial: state.New(), Stdout: &out, Stderr: &errOut}

	ch.ReportProgress("deadbeef", "working")
	ch.ReportError("deadbeef", "boom")

	assert.Equal(t, "[echo, deadbeef] working\n", out.String())
	assert.Equal(t, "[echo, deadbeef] boom\n", errOut.String())
}

func TestWebhookChannelKindAndState(t *testing.T) {
	initial := state.State{"prompt": "hi"}
	ch := NewWebhook("echo", initial)

	assert.Equal(t, KindWebhook, ch.Kind())
	assert.Equal(t, "echo", ch.WorkflowName())
	assert.Equal(t, initial, ch.InitialState())
}

func TestThreadReplyChannelTagsErrors(t *testing.T) {
	poster := &fakePoster{}
	ch := NewThreadReply("greet", state.New(), "C1", "123.456", poster, nil)

	ch.ReportProgress("deadbeef", "working")
	ch.ReportError("deadbeef", "boom")

	assert.Equal(t, []string{"[greet, deadbeef] working", "[greet, deadbeef] [ERROR] boom"}, poster.sent)
}

func TestThreadReplyChannelSwallowsPosterError(t *testing.T) {
	poster := &fakePoster{err: assertError{}}
	ch := NewThreadReply("greet", state.New(), "C1", "123.456", poster, nil)

	assert.NotPanics(t, func() {
		ch.ReportProgress("deadbeef", "working")
	})
}

type fakePoster struct {
	sent []string
	err  error
}

func (p *fakePoster) PostMessage(channelID, threadTS, text string) error {
	p.sent = append(p.sent, text)
	return p.err
}

type assertError struct{}

func (assertError) Error() string { return "boundary fault" }
