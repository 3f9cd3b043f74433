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

// Package runner implements the per-invocation execution context
// described in spec.md §4.2: a Runner binds a handler registry and a
// Channel, generates a run id, opens the per-run log and state
// snapshot sinks, and drives a single handler (or a composition, via
// package workflow) to completion.
package runner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/tombee/antkeeper/internal/channel"
	"github.com/tombee/antkeeper/internal/errs"
	"github.com/tombee/antkeeper/internal/persist"
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/runlog"
	"github.com/tombee/antkeeper/internal/state"
)

// Runner is the per-invocation execution context: a run id, the bound
// Channel and App, a logger scoped to "antkeeper.run.<id>", and the
// absolute paths of its log and state snapshot files.
type Runner struct {
	id        string
	channel   channel.Channel
	app       *registry.App
	sink      *runlog.Sink
	logPath   string
	statePath string
	createdAt time.Time
}

// New constructs a Runner bound to app and ch. It generates a fresh run
// id, creates app.LogDir and app.StateDir if missing, and opens the
// per-run log sink. This is observably a side effect: callers see the
// log file appear on disk before Run is ever called.
func New(app *registry.App, ch channel.Channel) (*Runner, error) {
	id, err := newRunID()
	if err != nil {
		return nil, fmt.Errorf("generating run id: %w", err)
	}

	if err := persist.EnsureDirs(app.LogDir, app.StateDir); err != nil {
		return nil, err
	}

	t := time.Now()
	logPath, err := filepath.Abs(persist.LogPath(app.LogDir, t, id))
	if err != nil {
		return nil, fmt.Errorf("resolving log path: %w", err)
	}
	statePath, err := filepath.Abs(persist.StatePath(app.StateDir, t, id))
	if err != nil {
		return nil, fmt.Errorf("resolving state path: %w", err)
	}

	sink, err := runlog.Open(logPath, id)
	if err != nil {
		return nil, fmt.Errorf("opening log sink: %w", err)
	}

	return &Runner{
		id:        id,
		channel:   ch,
		app:       app,
		sink:      sink,
		logPath:   logPath,
		statePath: statePath,
		createdAt: t,
	}, nil
}

// ID returns the run id.
func (r *Runner) ID() string { return r.id }

// LogPath returns the absolute path of the per-run log file.
func (r *Runner) LogPath() string { return r.logPath }

// StatePath returns the absolute path of the per-run state snapshot file.
func (r *Runner) StatePath() string { return r.statePath }

// Logger returns the logger bound to this run's log sink.
func (r *Runner) Logger() registry.LoggerLike { return r.sink.Logger }

// Snapshot writes s to the run's state snapshot file. Exposed so
// package workflow can snapshot after each composed step without
// depending on package persist directly.
func (r *Runner) Snapshot(s state.State) error {
	return persist.WriteSnapshot(r.statePath, s)
}

// ReportProgress logs message at INFO to the per-run log, then
// delegates to the bound Channel's ReportProgress.
func (r *Runner) ReportProgress(message string) {
	r.sink.Logger.Info(message)
	r.channel.ReportProgress(r.id, message)
}

// ReportError logs message at ERROR to the per-run log, then delegates
// to the bound Channel's ReportError.
func (r *Runner) ReportError(message string) {
	r.sink.Logger.Error(message)
	r.channel.ReportError(r.id, message)
}

// Fail logs message at ERROR and returns a *errs.WorkflowFailedError
// carrying it. Handlers signal "this run is unrecoverable but expected"
// by returning this error: `return s, r.Fail("boom")`. Any other error
// a handler returns indicates a bug and is surfaced more loudly by the
// boundary that catches it.
func (r *Runner) Fail(message string) error {
	r.sink.Logger.Error(message)
	return &errs.WorkflowFailedError{
		Workflow: r.channel.WorkflowName(),
		RunID:    r.id,
		Message:  message,
	}
}

// Close closes the per-run log sink. Unlike the teacher's analogous
// sink, which is never explicitly closed, antkeeper closes it once Run
// returns to avoid a descriptor leak under sustained throughput (see
// DESIGN.md).
func (r *Runner) Close() error {
	return r.sink.Close()
}

// Run assembles the initial state (injecting run_id and workflow_name,
// which always win over whatever the Channel supplied), snapshots it,
// resolves the named handler, logs at INFO that it is running, calls
// it, snapshots the result, and
// returns it. Run closes the Runner's log sink before returning, so
// LogPath()/StatePath() remain valid afterward but Logger() writes
// nowhere; callers needing the run's logger must use it before Run
// returns (e.g. from inside a handler via RunnerContext).
func (r *Runner) Run() (state.State, error) {
	defer r.Close()

	workflowName := r.channel.WorkflowName()

	initial := r.channel.InitialState().Clone()
	initial[state.RunIDKey] = r.id
	initial[state.WorkflowNameKey] = workflowName

	if err := r.Snapshot(initial); err != nil {
		return nil, err
	}

	handler, err := r.app.Resolve(workflowName)
	if err != nil {
		return nil, r.Fail(err.Error())
	}

	r.sink.Logger.Info("running workflow " + workflowName)
	result, err := handler(r, initial)
	if err != nil {
		return result, err
	}

	if err := r.Snapshot(result); err != nil {
		return nil, err
	}

	return result, nil
}
