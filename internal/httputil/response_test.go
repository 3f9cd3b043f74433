package httputil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteJSONSetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 201, map[string]string{"run_id": "deadbeef"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"run_id":"deadbeef"}`, rec.Body.String())
}

func TestWriteErrorUsesDetailField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 422, "workflow_name is required")

	assert.Equal(t, 422, rec.Code)
	assert.JSONEq(t, `{"detail":"workflow_name is required"}`, rec.Body.String())
}
