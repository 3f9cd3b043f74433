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

// Package persist implements the deterministic naming and atomic-write
// semantics for per-run log and state snapshot files described in
// spec.md §4.6: writes go to a temp file in the target directory and
// are renamed into place, so a concurrent reader always observes either
// the previous full snapshot or the new one.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tombee/antkeeper/internal/errs"
	"github.com/tombee/antkeeper/internal/state"
)

// Stem computes the shared {T}-{runID} stem used by both the log and
// state snapshot files for a run, where T is the wall-clock local time
// the Runner was constructed, formatted as YYYYMMDDhhmmss.
func Stem(t time.Time, runID string) string {
	return fmt.Sprintf("%s-%s", t.Format("20060102150405"), runID)
}

// LogPath returns the path of the per-run log file.
func LogPath(logDir string, t time.Time, runID string) string {
	return filepath.Join(logDir, Stem(t, runID)+".log")
}

// StatePath returns the path of the per-run state snapshot file.
func StatePath(stateDir string, t time.Time, runID string) string {
	return filepath.Join(stateDir, Stem(t, runID)+".json")
}

// EnsureDirs creates logDir and stateDir if they do not already exist.
func EnsureDirs(logDir, stateDir string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	return nil
}

// WriteSnapshot JSON-encodes s with two-space indentation and writes it
// to path atomically (temp file in the same directory, then rename).
// If s contains a value that cannot be JSON-encoded, the write fails
// with a *errs.SnapshotError — a handler bug, not a framework bug.
func WriteSnapshot(path string, s state.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return &errs.SnapshotError{Path: path, Cause: err}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".antkeeper-state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp snapshot file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp snapshot file into place: %w", err)
	}
	return nil
}

// ReadSnapshot reads and decodes the state snapshot at path. Used by
// tests (and by handlers that want to observe an in-progress run's
// on-disk state, as in spec.md scenario S2).
func ReadSnapshot(path string) (state.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s state.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}
