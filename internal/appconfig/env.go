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

// Package appconfig resolves the engine's environment-driven
// configuration. Per spec.md §5, BOT_TOKEN / BOT_USER_ID / COOLDOWN_SECONDS
// are read at event-handling time, never cached, so tests can perturb
// them freely between requests.
package appconfig

import (
	"os"
	"strconv"
	"time"
)

const defaultCooldownSeconds = 30

// LogDir returns the directory per-run log files are written under.
func LogDir() string {
	if v := os.Getenv("ANTKEEPER_LOG_DIR"); v != "" {
		return v
	}
	return "./.antkeeper/logs"
}

// StateDir returns the directory per-run state snapshots are written under.
func StateDir() string {
	if v := os.Getenv("ANTKEEPER_STATE_DIR"); v != "" {
		return v
	}
	return "./.antkeeper/state"
}

// WorktreeDir returns the directory isolated handler worktrees are
// rooted under. Antkeeper itself never creates worktrees (spec.md §1
// places the git-worktree helper out of scope); this is exposed purely
// as registry configuration for handlers that want it.
func WorktreeDir() string {
	if v := os.Getenv("ANTKEEPER_WORKTREE_DIR"); v != "" {
		return v
	}
	return "./.antkeeper/worktrees"
}

// BotCredentials reads BOT_TOKEN and BOT_USER_ID fresh from the
// environment and reports which, if any, are missing. missing is nil
// when both are present.
func BotCredentials() (token, userID string, missing []string) {
	token = os.Getenv("BOT_TOKEN")
	userID = os.Getenv("BOT_USER_ID")

	if token == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if userID == "" {
		missing = append(missing, "BOT_USER_ID")
	}
	return token, userID, missing
}

// Cooldown reads COOLDOWN_SECONDS fresh from the environment, defaulting
// to 30 seconds when unset or invalid.
func Cooldown() time.Duration {
	v := os.Getenv("COOLDOWN_SECONDS")
	if v == "" {
		return defaultCooldownSeconds * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultCooldownSeconds * time.Second
	}
	return time.Duration(n) * time.Second
}

// HandlersFile returns the HANDLERS_FILE path, empty if unset. Loading
// it is out of scope for this engine (spec.md §1); antkeeper only
// surfaces the value for a front-end that wants to implement loading.
func HandlersFile() string {
	return os.Getenv("HANDLERS_FILE")
}
