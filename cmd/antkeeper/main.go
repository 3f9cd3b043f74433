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

package main

import (
	"log/slog"

	"github.com/tombee/antkeeper/internal/appconfig"
	"github.com/tombee/antkeeper/internal/cli"
	"github.com/tombee/antkeeper/internal/commands/run"
	"github.com/tombee/antkeeper/internal/commands/serve"
	"github.com/tombee/antkeeper/internal/log"
	"github.com/tombee/antkeeper/internal/registry"
)

func main() {
	logger := log.New(log.FromEnv())
	slog.SetDefault(logger)

	app := registry.New(appconfig.LogDir(), appconfig.StateDir(), appconfig.WorktreeDir())

	rootCmd := cli.NewRootCommand()
	rootCmd.AddCommand(run.NewCommand(app))
	rootCmd.AddCommand(serve.NewCommand(app))

	if err := rootCmd.Execute(); err != nil {
		cli.HandleExitError(err)
	}
}
