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

// Package registry implements the process-scoped handler registry
// (spec.md §4.1): a name -> Handler mapping, plus the configured
// filesystem paths runs are persisted under.
package registry

import (
	"sync"

	"github.com/tombee/antkeeper/internal/errs"
	"github.com/tombee/antkeeper/internal/state"
)

// Handler is a function of a Runner (for side-effect I/O and logging)
// and a State, returning a new State. The Runner type is referenced
// through the RunnerContext interface to avoid an import cycle between
// registry and runner: runner.Runner implements this interface.
type Handler func(r RunnerContext, s state.State) (state.State, error)

// RunnerContext is the subset of *runner.Runner a Handler may use.
// Defined here (rather than imported from package runner) so that
// handlers and the registry that resolves them don't need to import the
// runner package, and so that tests can supply lightweight fakes.
type RunnerContext interface {
	ID() string
	ReportProgress(message string)
	ReportError(message string)
	Fail(message string) error
	Logger() LoggerLike
}

// LoggerLike is the minimal logging surface RunnerContext.Logger()
// exposes; *slog.Logger satisfies it.
type LoggerLike interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// App is the handler registry: a process-scoped mapping from handler
// name to Handler, plus the directories per-run artifacts are written
// under.
type App struct {
	mu       sync.RWMutex
	handlers map[string]Handler

	LogDir      string
	StateDir    string
	WorktreeDir string

	// AllowOverride controls the policy for re-registering an existing
	// name at runtime. spec.md leaves this an open question; antkeeper's
	// decision (see DESIGN.md) is: false by default (fail with
	// RegistryConflictError), matching "last-wins at module load time,
	// failure at runtime-register" only when callers explicitly opt in.
	AllowOverride bool
}

// New creates an empty App with the given directory configuration.
func New(logDir, stateDir, worktreeDir string) *App {
	return &App{
		handlers:    make(map[string]Handler),
		LogDir:      logDir,
		StateDir:    stateDir,
		WorktreeDir: worktreeDir,
	}
}

// Register inserts handler under name. If the name already exists and
// AllowOverride is false, Register fails with a RegistryConflictError.
func (a *App) Register(name string, handler Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.handlers[name]; exists && !a.AllowOverride {
		return &errs.RegistryConflictError{Name: name}
	}
	a.handlers[name] = handler
	return nil
}

// MustRegister is Register, panicking on error. Intended for
// init()-style registration at process startup where a conflict is a
// programming error, not a runtime condition.
func (a *App) MustRegister(name string, handler Handler) {
	if err := a.Register(name, handler); err != nil {
		panic(err)
	}
}

// Resolve returns the handler registered under name, or an
// UnknownHandlerError if none exists.
func (a *App) Resolve(name string) (Handler, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	h, exists := a.handlers[name]
	if !exists {
		return nil, &errs.UnknownHandlerError{Name: name}
	}
	return h, nil
}

// Has reports whether name is registered, without the error allocation
// of Resolve. Used by the webhook dispatcher to validate synchronously
// before constructing a Runner.
func (a *App) Has(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, exists := a.handlers[name]
	return exists
}

// Names returns the registered handler names.
func (a *App) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.handlers))
	for n := range a.handlers {
		names = append(names, n)
	}
	return names
}
