package chatclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostMessageSendsExpectedBodyAndAuth(t *testing.T) {
	var gotBody map[string]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New("xoxb-token")
	c.BaseURL = server.URL

	require.NoError(t, c.PostMessage("C1", "123.456", "hello"))
	assert.Equal(t, "Bearer xoxb-token", gotAuth)
	assert.Equal(t, "C1", gotBody["channel"])
	assert.Equal(t, "123.456", gotBody["thread_ts"])
	assert.Equal(t, "hello", gotBody["text"])
}

func TestAddReactionReturnsErrorOnHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New("xoxb-token")
	c.BaseURL = server.URL

	err := c.AddReaction("C1", "123.456", "thumbsup")
	require.Error(t, err)
}
