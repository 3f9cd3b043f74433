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

// LineChannel is the command-line front-end boundary: progress goes to
// standard output, errors to standard error.
type LineChannel struct {
	Workflow string
	Initial  state.State
	Stdout   io.Writer
	Stderr   io.Writer
}

// NewLine constructs a LineChannel writing to os.Stdout/os.Stderr.
func NewLine(workflow string, initial state.State) *LineChannel {
	return &LineChannel{
		Workflow: workflow,
		Initial:  initial,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

func (c *LineChannel) Kind() Kind                 { return KindLineCLI }
func (c *LineChannel) WorkflowName() string       { return c.Workflow }
func (c *LineChannel) InitialState() state.State  { return c.Initial }

func (c *LineChannel) ReportProgress(runID, message string) {
	fmt.Fprintln(c.Stdout, formatProgress(c.Workflow, runID, message))
}

func (c *LineChannel) ReportError(runID, message string) {
	fmt.Fprintln(c.Stderr, formatError(c.Workflow, runID, message, false))
}
