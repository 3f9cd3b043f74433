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

// Package coalescer implements the chat-event debouncer described in
// spec.md §4.5: bursts of mentions, thread replies, and edits collapse
// into a single workflow dispatch once a per-conversation cooldown
// window has elapsed with no further activity. Grounded on the
// teacher's internal/controller/filewatcher.Debouncer (per-key
// time.AfterFunc timers, a stale-timer guard on fire) generalized from
// a flat batch-of-paths shape to the richer per-message edit/reply/
// delete state machine this spec requires.
package coalescer

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tombee/antkeeper/internal/appconfig"
	"github.com/tombee/antkeeper/internal/channel"
	"github.com/tombee/antkeeper/internal/chatclient"
	"github.com/tombee/antkeeper/internal/metrics"
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/rundispatch"
	"github.com/tombee/antkeeper/internal/runner"
	"github.com/tombee/antkeeper/internal/state"
)

// ChatPoster is the outbound capability the coalescer needs beyond
// channel.MessagePoster: reacting to the originating message. Satisfied
// by *chatclient.Client.
type ChatPoster interface {
	AddReaction(channelID, timestamp, name string) error
	PostMessage(channelID, threadTS, text string) error
}

// pendingMessage is the accumulated state of one debounced conversation,
// keyed by the channel id and the ts of the mention that started it.
type pendingMessage struct {
	user         string
	text         string
	files        []File
	workflowName string
	timer        *time.Timer
}

// Coalescer owns the pending-message map. Every read or mutation of the
// map happens while mu is held and nothing in that critical section
// blocks on I/O, so the map behaves like it's driven by a single
// cooperative scheduler even though Go runs each HTTP request on its
// own goroutine (spec.md §4.5, §5 concurrency invariants).
type Coalescer struct {
	mu      sync.Mutex
	pending map[pendingKey]*pendingMessage

	App           *registry.App
	Logger        *slog.Logger
	PosterFactory func(token string) ChatPoster

	wg sync.WaitGroup
}

// New constructs a Coalescer bound to app. Outbound chat calls are made
// through a fresh *chatclient.Client built from the token read at
// event-handling time; tests override PosterFactory to inject a fake.
func New(app *registry.App, logger *slog.Logger) *Coalescer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coalescer{
		pending: make(map[pendingKey]*pendingMessage),
		App:     app,
		Logger:  logger,
		PosterFactory: func(token string) ChatPoster {
			return chatclient.New(token)
		},
	}
}

// PendingCount reports the number of conversations currently being
// debounced. Exposed for tests.
func (c *Coalescer) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Wait blocks until every dispatched workflow run has completed. Used
// during graceful shutdown alongside the webhook dispatcher's Wait.
func (c *Coalescer) Wait() {
	c.wg.Wait()
}

// route applies the fixed 8-step event-routing order from spec.md §4.5.
// Step 1 (verification handshake) and the missing-env-var check are
// handled by the HTTP handler before route is ever called; route
// begins at step 2, the missing-event-field check.
func (c *Coalescer) route(token, userID string, env Envelope) {
	ev := env.Event
	if ev == nil {
		return // missing event field: no-op
	}
	if ev.BotID != "" {
		return // bot self-filter: never react to our own messages
	}

	if ev.ThreadTS != "" && ev.ThreadTS != ev.TS {
		c.handleThreadReply(token, ev)
		return
	}

	switch ev.Subtype {
	case "message_changed":
		c.handleEdit(userID, ev)
		return
	case "message_deleted":
		c.handleDelete(ev)
		return
	}

	if isMentionCandidate(ev) && containsMention(ev.Text, userID) {
		c.handleNewMention(token, userID, ev)
		return
	}

	// fallthrough: nothing in this event concerns the coalescer
}

func isMentionCandidate(ev *Event) bool {
	if ev.Type == "app_mention" {
		return true
	}
	return ev.Type == "message" && (ev.Subtype == "" || ev.Subtype == "file_share")
}

const mentionPrefix = "<@"

func mentionToken(userID string) string {
	return mentionPrefix + userID + ">"
}

func containsMention(text, userID string) bool {
	return strings.Contains(text, mentionToken(userID))
}

// stripMention removes the bot's mention token from text and trims the
// surrounding whitespace, leaving the prompt the user actually typed.
func stripMention(text, userID string) string {
	return strings.TrimSpace(strings.Replace(text, mentionToken(userID), "", 1))
}

// firstToken splits s on the first whitespace character, returning the
// leading token (the workflow name) and the trimmed remainder.
func firstToken(s string) (head, rest string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t\n")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:])
}

// handleNewMention starts debouncing a new conversation. A duplicate
// delivery of the same (channel, ts) — chat platforms retry — is
// dropped silently since the conversation is already pending.
func (c *Coalescer) handleNewMention(token, userID string, ev *Event) {
	cleaned := stripMention(ev.Text, userID)
	workflowName, _ := firstToken(cleaned)
	if workflowName == "" {
		return
	}

	key := pendingKey{ChannelID: ev.Channel, TS: ev.TS}

	c.mu.Lock()
	if _, exists := c.pending[key]; exists {
		c.mu.Unlock()
		return
	}
	msg := &pendingMessage{
		user:         ev.User,
		text:         cleaned,
		files:        ev.Files,
		workflowName: workflowName,
	}
	c.pending[key] = msg
	c.armTimerLocked(key, msg)
	pendingCount := len(c.pending)
	c.mu.Unlock()

	metrics.CoalescePending.Set(float64(pendingCount))
	c.postReactionAsync(token, ev.Channel, ev.TS, "thumbsup")
}

// handleThreadReply extends a pending conversation with a reply posted
// into its thread. A reply into a thread the coalescer isn't tracking
// (the cooldown already fired, or it was never a mention) is an orphan
// and is dropped.
func (c *Coalescer) handleThreadReply(token string, ev *Event) {
	key := pendingKey{ChannelID: ev.Channel, TS: ev.ThreadTS}

	c.mu.Lock()
	msg, ok := c.pending[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	msg.text = strings.TrimSpace(msg.text + "\n" + ev.Text)
	msg.files = append(msg.files, ev.Files...)
	c.armTimerLocked(key, msg)
	pendingCount := len(c.pending)
	c.mu.Unlock()

	metrics.CoalescePending.Set(float64(pendingCount))
	c.postReactionAsync(token, ev.Channel, ev.TS, "thumbsup")
}

// handleEdit replaces a pending conversation's accumulated text with the
// edited content and resets its cooldown. An edit to a message the
// coalescer isn't tracking is dropped.
func (c *Coalescer) handleEdit(userID string, ev *Event) {
	if ev.Message == nil {
		return
	}
	key := pendingKey{ChannelID: ev.Channel, TS: ev.Message.TS}

	c.mu.Lock()
	msg, ok := c.pending[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	msg.text = stripMention(ev.Message.Text, userID)
	c.armTimerLocked(key, msg)
	c.mu.Unlock()
}

// handleDelete cancels a pending conversation outright: the timer is
// stopped and the entry removed before it can ever dispatch.
func (c *Coalescer) handleDelete(ev *Event) {
	key := pendingKey{ChannelID: ev.Channel, TS: ev.DeletedTS}

	c.mu.Lock()
	msg, ok := c.pending[key]
	if ok {
		msg.timer.Stop()
		delete(c.pending, key)
	}
	pendingCount := len(c.pending)
	c.mu.Unlock()

	if ok {
		metrics.CoalesceCancellationsTotal.Inc()
		metrics.CoalescePending.Set(float64(pendingCount))
	}
}

// armTimerLocked stops msg's existing timer, if any, and starts a fresh
// one for appconfig.Cooldown(). Must be called with mu held.
func (c *Coalescer) armTimerLocked(key pendingKey, msg *pendingMessage) {
	if msg.timer != nil {
		msg.timer.Stop()
		metrics.CoalesceTimerResetsTotal.Inc()
	}
	var t *time.Timer
	t = time.AfterFunc(appconfig.Cooldown(), func() {
		c.fireTimer(key, t)
	})
	msg.timer = t
}

// fireTimer is the cooldown timer's callback. It re-checks the map
// before acting: a cancellation (delete) or a reset (edit/reply) that
// raced with the timer's expiry may have already removed the entry or
// rebound it to a different *time.Timer, in which case this firing is
// stale and must no-op rather than double-dispatch or dispatch a
// cancelled conversation.
func (c *Coalescer) fireTimer(key pendingKey, self *time.Timer) {
	c.mu.Lock()
	msg, ok := c.pending[key]
	if !ok || msg.timer != self {
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	pendingCount := len(c.pending)
	c.mu.Unlock()

	metrics.CoalescePending.Set(float64(pendingCount))
	metrics.CoalesceDispatchesTotal.Inc()

	c.dispatch(key, msg)
}

// dispatch runs the timer-expiry procedure from spec.md §4.5: post an
// acknowledgement into the thread, resolve the workflow, and execute it
// on a worker goroutine that never touches the pending map.
func (c *Coalescer) dispatch(key pendingKey, msg *pendingMessage) {
	token, _, missing := appconfig.BotCredentials()
	if len(missing) > 0 {
		c.Logger.Warn("bot credentials unavailable at dispatch time", "missing", missing)
		return
	}
	poster := c.PosterFactory(token)

	if err := poster.PostMessage(key.ChannelID, key.TS, "Processing your request…"); err != nil {
		c.Logger.Warn("failed to post processing acknowledgement", "error", err.Error())
	}

	if !c.App.Has(msg.workflowName) {
		if err := poster.PostMessage(key.ChannelID, key.TS, "Unknown workflow: "+msg.workflowName); err != nil {
			c.Logger.Warn("failed to post unknown-workflow reply", "error", err.Error())
		}
		return
	}

	initial := state.New()
	initial["prompt"] = msg.text
	initial["slack_user"] = msg.user
	if len(msg.files) > 0 {
		initial["files"] = msg.files
	}

	ch := channel.NewThreadReply(msg.workflowName, initial, key.ChannelID, key.TS, poster, c.Logger)
	rn, err := runner.New(c.App, ch)
	if err != nil {
		c.Logger.Error("failed to start run", "error", err.Error())
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		rundispatch.Execute(rn, msg.workflowName)
	}()
}

// postReactionAsync adds name as a reaction to the originating message
// on its own goroutine, so a slow or failing chat API call never delays
// the HTTP response or touches the pending map. Failures are logged and
// swallowed (spec.md §7).
func (c *Coalescer) postReactionAsync(token, channelID, ts, name string) {
	poster := c.PosterFactory(token)
	go func() {
		if err := poster.AddReaction(channelID, ts, name); err != nil {
			c.Logger.Warn("failed to add reaction", "error", err.Error())
		}
	}()
}
