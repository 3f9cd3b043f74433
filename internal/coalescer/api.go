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

package coalescer

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tombee/antkeeper/internal/appconfig"
	"github.com/tombee/antkeeper/internal/httputil"
)

// Handler returns the http.HandlerFunc to mount at POST /slack_event.
// It implements step 1 of spec.md §4.5's fixed routing order (the
// url_verification handshake) and the missing-credentials precondition
// itself before handing the decoded envelope to route for the
// remaining seven steps.
func (c *Coalescer) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var env Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			httputil.WriteError(w, http.StatusUnprocessableEntity, "malformed request body: "+err.Error())
			return
		}

		if env.Type == "url_verification" {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"challenge": env.Challenge})
			return
		}

		token, userID, missing := appconfig.BotCredentials()
		if len(missing) > 0 {
			httputil.WriteError(w, http.StatusUnprocessableEntity, "Missing required environment variables: "+strings.Join(missing, ", "))
			return
		}

		c.route(token, userID, env)
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
