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

// Package webhookapi implements the webhook dispatcher described in
// spec.md §4.4 and §6: POST /webhook validates a request names a known
// handler, starts a Runner in a background goroutine, and returns the
// run id synchronously.
package webhookapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/tombee/antkeeper/internal/channel"
	"github.com/tombee/antkeeper/internal/httputil"
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/rundispatch"
	"github.com/tombee/antkeeper/internal/runner"
	"github.com/tombee/antkeeper/internal/state"
)

// Request is the POST /webhook body.
type Request struct {
	WorkflowName string         `json:"workflow_name"`
	InitialState map[string]any `json:"initial_state"`
}

// Response is the 200 OK body.
type Response struct {
	RunID string `json:"run_id"`
}

// Dispatcher owns the handler registry and tracks in-flight background
// runs so a graceful shutdown can drain them.
type Dispatcher struct {
	App    *registry.App
	Logger *slog.Logger

	wg sync.WaitGroup
}

// New constructs a Dispatcher bound to app.
func New(app *registry.App, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{App: app, Logger: logger}
}

// Handler returns the http.HandlerFunc to mount at POST /webhook.
func (d *Dispatcher) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Correlates this request across log lines; distinct from the
		// run id, which doesn't exist until the request is validated.
		requestID := uuid.NewString()
		logger := d.Logger.With("request_id", requestID)

		if r.Method != http.MethodPost {
			httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req Request
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			logger.Warn("malformed webhook body", "error", err.Error())
			httputil.WriteError(w, http.StatusUnprocessableEntity, "malformed request body: "+err.Error())
			return
		}
		if req.WorkflowName == "" {
			httputil.WriteError(w, http.StatusUnprocessableEntity, "workflow_name is required")
			return
		}

		if !d.App.Has(req.WorkflowName) {
			logger.Info("unknown workflow requested", "workflow", req.WorkflowName)
			httputil.WriteError(w, http.StatusNotFound, fmt.Sprintf("unknown workflow: %q", req.WorkflowName))
			return
		}

		initial := state.State(req.InitialState)
		if initial == nil {
			initial = state.New()
		}

		ch := channel.NewWebhook(req.WorkflowName, initial)
		rn, err := runner.New(d.App, ch)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "failed to start run: "+err.Error())
			return
		}

		logger.Info("dispatching run", "workflow", req.WorkflowName, "run_id", rn.ID())

		d.wg.Add(1)
		go d.execute(rn, req.WorkflowName)

		httputil.WriteJSON(w, http.StatusOK, Response{RunID: rn.ID()})
	}
}

// execute runs rn to completion in the background, applying the
// shared failure policy from package rundispatch.
func (d *Dispatcher) execute(rn *runner.Runner, workflowName string) {
	defer d.wg.Done()
	rundispatch.Execute(rn, workflowName)
}

// Wait blocks until every dispatched background run has completed.
// Used during graceful shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
