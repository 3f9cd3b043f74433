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

package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/antkeeper/internal/errs"
)

// NewRootCommand creates the root Cobra command for antkeeper.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "antkeeper",
		Short: "antkeeper - event-driven workflow runner",
		Long: `antkeeper runs registered workflow handlers from three trigger
boundaries: a line-cli invocation, a webhook POST, and a debounced
chat mention. It is a thin execution shell; workflow logic lives in the
handlers a front-end registers into it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}

// HandleExitError maps a command's returned error to a process exit
// code: a WorkflowFailedError exits 1 with its bare message on standard
// error (without the workflow/run-id decoration of its Error text), any
// other error exits 2 with its full text.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	var wf *errs.WorkflowFailedError
	if errors.As(err, &wf) {
		os.Stderr.WriteString(wf.Message + "\n")
		os.Exit(1)
	}
	os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(2)
}
