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

// Package state defines the dynamically-typed mapping that flows through
// every handler invocation.
package state

// Keys injected by the Runner into every state before a handler runs.
// Framework-owned keys always win over whatever a Channel placed in the
// initial state.
const (
	RunIDKey        = "run_id"
	WorkflowNameKey = "workflow_name"
)

// State is a mapping from string keys to dynamically-typed values
// (scalars, lists, nested maps); as a Go map it does not preserve key
// insertion order. It has no fixed schema; callers
// agree on keys out of band. State is immutable by convention: handlers
// return a new map rather than mutating the one they were given.
type State map[string]any

// New returns an empty State.
func New() State {
	return State{}
}

// Clone returns a shallow copy of s. Handlers that want to "extend" a
// state without mutating the caller's map should start from Clone.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// With returns a shallow copy of s with the given key set, leaving s
// itself untouched.
func (s State) With(key string, value any) State {
	out := s.Clone()
	out[key] = value
	return out
}

// Merge returns a shallow copy of s with every key of other overlaid on
// top. Keys in other win on conflict.
func (s State) Merge(other State) State {
	out := s.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the keys of s. Used for DEBUG-level logging of a
// handler's returned state without dumping potentially large values.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
