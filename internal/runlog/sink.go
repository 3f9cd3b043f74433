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

package runlog

import (
	"log/slog"
	"os"
)

// Sink is the open per-run log file together with the logger bound to
// it. The Runner owns exactly one Sink for its lifetime and closes it
// when the handler returns (see DESIGN.md for the rationale — the
// teacher repository's analogous sink is left open for the process
// lifetime, which this implementation treats as a descriptor leak to
// avoid rather than imitate).
type Sink struct {
	Logger *slog.Logger
	file   *os.File
}

// Open creates (or appends to) the log file at path and returns a
// logger named "antkeeper.run.<runID>" bound to it at DEBUG level.
func Open(path, runID string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	logger := slog.New(newHandler(f, runID))
	return &Sink{Logger: logger, file: f}, nil
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}
