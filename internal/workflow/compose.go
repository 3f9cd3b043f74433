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

// Package workflow implements run_workflow (spec.md §4.3): a pure left
// fold of a Runner and a starting State through an ordered list of
// named steps, snapshotting state after each one.
package workflow

import (
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/state"
)

// Runner is the capability set run_workflow needs: everything a Handler
// gets via registry.RunnerContext, plus the ability to snapshot state
// to the run's persistence file after each step.
type Runner interface {
	registry.RunnerContext
	Snapshot(s state.State) error
}

// Step names a single handler within a composition, so run_workflow can
// log which step is executing.
type Step struct {
	Name    string
	Handler registry.Handler
}

// Run applies steps to s in order under r, snapshotting after each
// step. If a step returns an error, the fold aborts immediately; the
// state passed into the failing step (already snapshotted by the
// previous iteration, or the caller's initial snapshot for the first
// step) remains the last recoverable artifact on disk.
func Run(r Runner, s state.State, steps []Step) (state.State, error) {
	current := s
	for _, step := range steps {
		r.Logger().Info("running step", "step", step.Name)

		next, err := step.Handler(r, current)
		if err != nil {
			return current, err
		}
		current = next

		if err := r.Snapshot(current); err != nil {
			return current, err
		}

		r.Logger().Debug("step complete", "step", step.Name, "keys", current.Keys())
	}
	return current, nil
}
