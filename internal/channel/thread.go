// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package channel

import (
	"log/slog"

	"github.com/tombee/antkeeper/internal/state"
)

// MessagePoster is the outbound capability a ThreadReplyChannel needs:
// posting a message into a chat thread. Implemented by
// *chatclient.Client. Declared here (rather than imported) to keep
// package channel decoupled from the HTTP transport details and easily
// testable with a fake.
type MessagePoster interface {
	PostMessage(channelID, threadTS, text string) error
}

// ThreadReplyChannel is the chat-style boundary constructed by the event
// coalescer on timer expiry. Its chat token, channel id, and thread id
// are captured at construction and immutable for the life of the
// Runner. Progress and error reports are posted into the originating
// thread; HTTP faults from doing so are caught, logged, and swallowed
// (spec.md §4.7, §7).
type ThreadReplyChannel struct {
	Workflow  string
	Initial   state.State
	ChannelID string
	ThreadTS  string
	Poster    MessagePoster
	Logger    *slog.Logger
}

// NewThreadReply constructs a ThreadReplyChannel bound to channelID and
// threadTS, the timestamp of the mention that started the pending
// message.
func NewThreadReply(workflow string, initial state.State, channelID, threadTS string, poster MessagePoster, logger *slog.Logger) *ThreadReplyChannel {
	return &ThreadReplyChannel{
		Workflow:  workflow,
		Initial:   initial,
		ChannelID: channelID,
		ThreadTS:  threadTS,
		Poster:    poster,
		Logger:    logger,
	}
}

func (c *ThreadReplyChannel) Kind() Kind                { return KindThreadReply }
func (c *ThreadReplyChannel) WorkflowName() string      { return c.Workflow }
func (c *ThreadReplyChannel) InitialState() state.State { return c.Initial }

func (c *ThreadReplyChannel) ReportProgress(runID, message string) {
	c.post(formatProgress(c.Workflow, runID, message))
}

func (c *ThreadReplyChannel) ReportError(runID, message string) {
	c.post(formatError(c.Workflow, runID, message, true))
}

func (c *ThreadReplyChannel) post(text string) {
	if c.Poster == nil {
		return
	}
	if err := c.Poster.PostMessage(c.ChannelID, c.ThreadTS, text); err != nil && c.Logger != nil {
		c.Logger.Warn("failed to post thread reply", slog.String("error", err.Error()))
	}
}
