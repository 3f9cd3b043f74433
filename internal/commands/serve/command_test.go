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

package serve

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/antkeeper/internal/registry"
)

// TestServeDrainsOnSignal starts the server on an ephemeral port, hits
// /metrics to confirm it is actually serving, then sends SIGINT to the
// test process itself and asserts run() returns instead of hanging.
func TestServeDrainsOnSignal(t *testing.T) {
	dir := t.TempDir()
	app := registry.New(dir+"/logs", dir+"/state", dir+"/worktrees")

	done := make(chan error, 1)
	go func() {
		done <- run(app, "127.0.0.1:17864", 2*time.Second)
	}()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get("http://127.0.0.1:17864/metrics")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 20*time.Millisecond, "server never came up")
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run() did not return after SIGINT")
	}
}
