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

// Package runlog implements the per-run log sink described in spec.md
// §4.2/§4.6: one file per Runner, formatted as
//
//	YYYY-MM-DD HH:MM:SS,mmm [LEVEL] antkeeper.run.<id> - <message>
//
// at DEBUG level, with no propagation to any ambient logger.
package runlog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// loggerNamePrefix is the fixed logger name component; the run id is
// interpolated per Runner.
const loggerNamePrefix = "antkeeper.run."

// handler is a slog.Handler that renders the fixed-width line format
// the spec mandates and writes it to a single run-scoped file.
type handler struct {
	mu    *sync.Mutex
	w     io.Writer
	runID string
	attrs []slog.Attr
}

func newHandler(w io.Writer, runID string) *handler {
	return &handler{mu: &sync.Mutex{}, w: w, runID: runID}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, ",%03d ", ts.Nanosecond()/int(time.Millisecond))
	fmt.Fprintf(&buf, "[%s] %s%s - %s", levelName(r.Level), loggerNamePrefix, h.runID, r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value.Any())
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value.Any())
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &handler{mu: h.mu, w: h.w, runID: h.runID}
	next.attrs = append(next.attrs, h.attrs...)
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *handler) WithGroup(_ string) slog.Handler {
	// The spec's line format has no concept of groups; flatten.
	return h
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
