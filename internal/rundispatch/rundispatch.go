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

// Package rundispatch holds the background-execution failure policy
// shared by every boundary that starts a Runner off the calling
// goroutine (the webhook dispatcher and the event coalescer): run to
// completion, swallow an expected WorkflowFailedError, and surface any
// other fault to the server's error stream without crashing the
// process (spec.md §7).
package rundispatch

import (
	"fmt"
	"os"

	"github.com/tombee/antkeeper/internal/errs"
	"github.com/tombee/antkeeper/internal/metrics"
	"github.com/tombee/antkeeper/internal/runner"
)

// Execute runs rn to completion and records its outcome. Callers invoke
// it on its own goroutine and are responsible for their own
// sync.WaitGroup bookkeeping around the call.
func Execute(rn *runner.Runner, workflowName string) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(os.Stderr, "antkeeper: run %s panicked: %v\n", rn.ID(), rec)
			metrics.RunsTotal.WithLabelValues(workflowName, "fault").Inc()
		}
	}()

	_, err := rn.Run()
	switch {
	case err == nil:
		metrics.RunsTotal.WithLabelValues(workflowName, "completed").Inc()
	case errs.IsWorkflowFailed(err):
		metrics.RunsTotal.WithLabelValues(workflowName, "workflow_failed").Inc()
	default:
		fmt.Fprintf(os.Stderr, "antkeeper: run %s failed: %v\n", rn.ID(), err)
		metrics.RunsTotal.WithLabelValues(workflowName, "fault").Inc()
	}
}
