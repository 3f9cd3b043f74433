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

package coalescer

// Envelope is the top-level chat event payload posted to /slack_event
// (spec.md §4.5).
type Envelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge,omitempty"`
	Event     *Event `json:"event,omitempty"`
}

// Event is the nested event object present on event_callback envelopes.
type Event struct {
	Type      string         `json:"type"`
	Subtype   string         `json:"subtype,omitempty"`
	TS        string         `json:"ts,omitempty"`
	ThreadTS  string         `json:"thread_ts,omitempty"`
	DeletedTS string         `json:"deleted_ts,omitempty"`
	Channel   string         `json:"channel,omitempty"`
	User      string         `json:"user,omitempty"`
	Text      string         `json:"text,omitempty"`
	Files     []File         `json:"files,omitempty"`
	BotID     string         `json:"bot_id,omitempty"`
	Message   *EditedMessage `json:"message,omitempty"`
}

// EditedMessage carries the edited message's new ts/text for a
// message_changed subtype event.
type EditedMessage struct {
	TS   string `json:"ts"`
	Text string `json:"text"`
	User string `json:"user,omitempty"`
}

// File is a chat file attachment, passed through to the dispatched
// workflow's initial state verbatim.
type File struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	URLPrivate string `json:"url_private,omitempty"`
}

// pendingKey identifies a pending message: the channel it's in and the
// immutable timestamp of the first message that mentioned the bot.
type pendingKey struct {
	ChannelID string
	TS        string
}
