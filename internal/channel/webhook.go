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
	"fmt"
	"io"
	"os"

	"github.com/tombee/antkeeper/internal/state"
)

// WebhookChannel is the HTTP dispatcher boundary. Per spec.md §4.7 its
// progress/error sinks are the same as line-cli (the process's standard
// streams, which the daemon operator observes as its server log).
type WebhookChannel struct {
	Workflow string
	Initial  state.State
	Stdout   io.Writer
	Stderr   io.Writer
}

// NewWebhook constructs a WebhookChannel for the given workflow name and
// initial state, decoded from an incoming POST /webhook body.
func NewWebhook(workflow string, initial state.State) *WebhookChannel {
	return &WebhookChannel{
		Workflow: workflow,
		Initial:  initial,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

func (c *WebhookChannel) Kind() Kind                { return KindWebhook }
func (c *WebhookChannel) WorkflowName() string      { return c.Workflow }
func (c *WebhookChannel) InitialState() state.State { return c.Initial }

func (c *WebhookChannel) ReportProgress(runID, message string) {
	fmt.Fprintln(c.Stdout, formatProgress(c.Workflow, runID, message))
}

func (c *WebhookChannel) ReportError(runID, message string) {
	fmt.Fprintln(c.Stderr, formatError(c.Workflow, runID, message, false))
}
