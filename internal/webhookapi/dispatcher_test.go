package webhookapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/state"
)

func newTestApp(t *testing.T) *registry.App {
	dir := t.TempDir()
	app := registry.New(dir+"/logs", dir+"/state", dir+"/worktrees")
	require.NoError(t, app.Register("echo", func(_ registry.RunnerContext, s state.State) (state.State, error) {
		return s.With("echoed", s["prompt"]), nil
	}))
	return app
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestDispatchKnownWorkflowReturns200WithRunID(t *testing.T) {
	app := newTestApp(t)
	d := New(app, nil)

	rec := postJSON(t, d.Handler(), map[string]any{
		"workflow_name": "echo",
		"initial_state": map[string]any{"prompt": "hi"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.RunID, 8)

	d.Wait()
}

func TestDispatchUnknownWorkflowReturns404(t *testing.T) {
	app := newTestApp(t)
	d := New(app, nil)

	rec := postJSON(t, d.Handler(), map[string]any{"workflow_name": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatchMalformedBodyReturns422(t *testing.T) {
	app := newTestApp(t)
	d := New(app, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	d.Handler()(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDispatchMissingWorkflowNameReturns422(t *testing.T) {
	app := newTestApp(t)
	d := New(app, nil)

	rec := postJSON(t, d.Handler(), map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDispatchRejectsNonPost(t *testing.T) {
	app := newTestApp(t)
	d := New(app, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	d.Handler()(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWaitDrainsInFlightRuns(t *testing.T) {
	app := newTestApp(t)
	d := New(app, nil)

	postJSON(t, d.Handler(), map[string]any{"workflow_name": "echo"})

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after dispatched run completed")
	}
}
