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

// Package chatclient implements the two outbound chat API calls the
// event coalescer needs (spec.md §4.5): adding a reaction and posting a
// thread reply. Grounded on the teacher's pkg/httpclient factory
// (bounded timeouts, pooled transport) with a token-bucket limiter from
// golang.org/x/time/rate layered on top to protect the chat API from
// bursts during a coalescing storm.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://slack.com/api"

// Client posts reactions and thread messages on behalf of the bot.
// Every request carries "Authorization: Bearer <token>". Failures are
// never propagated to callers as fatal: spec.md requires that outbound
// chat faults are logged and swallowed, never affect coalescer state,
// and never crash the scheduler. Client returns errors to its callers
// so *they* can log and swallow; Client itself does no logging.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// New constructs a Client. token is the bot's credential (BOT_TOKEN).
// The limiter defaults to 10 requests/second with a burst of 10, which
// comfortably covers a single coalescing burst's reaction + post calls
// without tripping Slack-style rate limits.
func New(token string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// AddReaction posts POST reactions.add {channel, timestamp, name}.
func (c *Client) AddReaction(channelID, timestamp, name string) error {
	return c.post(context.Background(), "reactions.add", map[string]string{
		"channel":   channelID,
		"timestamp": timestamp,
		"name":      name,
	})
}

// PostMessage posts POST chat.postMessage {channel, thread_ts, text}.
// It satisfies channel.MessagePoster.
func (c *Client) PostMessage(channelID, threadTS, text string) error {
	return c.post(context.Background(), "chat.postMessage", map[string]string{
		"channel":   channelID,
		"thread_ts": threadTS,
		"text":      text,
	})
}

func (c *Client) post(ctx context.Context, method string, body map[string]string) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s body: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned HTTP %d", method, resp.StatusCode)
	}
	return nil
}
