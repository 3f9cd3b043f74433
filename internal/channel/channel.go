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

// Package channel implements the polymorphic I/O boundary described in
// spec.md §4.7: line-cli, webhook, and thread-reply variants share the
// capability set {WorkflowName, InitialState, ReportProgress,
// ReportError}; formatting and the I/O sink are a boundary concern.
package channel

import "github.com/tombee/antkeeper/internal/state"

// Kind tags which boundary variant a Channel is.
type Kind string

const (
	KindLineCLI      Kind = "line-cli"
	KindWebhook      Kind = "webhook"
	KindThreadReply  Kind = "thread-reply"
)

// Channel is a record of the workflow to run, the state to start it
// with, and the boundary-specific progress/error sinks.
type Channel interface {
	Kind() Kind
	WorkflowName() string
	InitialState() state.State
	ReportProgress(runID, message string)
	ReportError(runID, message string)
}

// formatProgress renders the shared "[<workflow>, <run_id>] <msg>"
// progress format used by every boundary (spec.md §4.7 table).
func formatProgress(workflow, runID, message string) string {
	return "[" + workflow + ", " + runID + "] " + message
}

// formatError renders the progress format for line-cli/webhook, or the
// "[ERROR]"-tagged variant thread-reply uses for errors.
func formatError(workflow, runID, message string, tagged bool) string {
	if tagged {
		return "[" + workflow + ", " + runID + "] [ERROR] " + message
	}
	return formatProgress(workflow, runID, message)
}
