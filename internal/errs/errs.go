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

// Package errs defines the failure kinds the engine distinguishes, and
// small wrap/inspect helpers in the style of the teacher repository's
// pkg/errors package.
package errs

import (
	"errors"
	"fmt"
)

// WorkflowFailedError is raised by Runner.Fail or by an unknown workflow
// name at dispatch time. It represents a handler (or dispatcher) signaling
// "this run is unrecoverable but expected" — as opposed to an unexpected
// fault, which propagates as a plain error.
type WorkflowFailedError struct {
	// Workflow is the handler name the run was executing, if known.
	Workflow string
	// RunID correlates this failure with the run's log and snapshot files.
	RunID string
	// Message is the human-readable failure reason.
	Message string
}

func (e *WorkflowFailedError) Error() string {
	if e.Workflow != "" {
		return fmt.Sprintf("workflow %q (run %s) failed: %s", e.Workflow, e.RunID, e.Message)
	}
	return e.Message
}

// UnknownHandlerError is returned by Registry.Resolve when no handler is
// registered under the given name.
type UnknownHandlerError struct {
	Name string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("unknown handler: %q", e.Name)
}

// RegistryConflictError is returned by Registry.Register when a name is
// already taken and the registry's override policy forbids replacing it.
type RegistryConflictError struct {
	Name string
}

func (e *RegistryConflictError) Error() string {
	return fmt.Sprintf("handler already registered: %q", e.Name)
}

// SnapshotError wraps a failure to JSON-encode a State for persistence.
// This always indicates a handler bug (it returned a non-serializable
// value), never a framework bug.
type SnapshotError struct {
	Path  string
	Cause error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("failed to write state snapshot %s: %v", e.Path, e.Cause)
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}

// IsWorkflowFailed reports whether err is (or wraps) a WorkflowFailedError.
func IsWorkflowFailed(err error) bool {
	var wf *WorkflowFailedError
	return errors.As(err, &wf)
}

// Wrap creates a new error that wraps err with additional context. If err
// is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf creates a new error that wraps err with formatted context. If err
// is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
