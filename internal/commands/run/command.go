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

// Package run implements the `antkeeper run` subcommand: the line-cli
// trigger boundary described in spec.md §6.
package run

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/tombee/antkeeper/internal/channel"
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/runner"
	"github.com/tombee/antkeeper/internal/state"
)

// NewCommand creates the run command bound to app.
func NewCommand(app *registry.App) *cobra.Command {
	var (
		initialState     []string
		initialStateFile string
		model            string
	)

	cmd := &cobra.Command{
		Use:   "run <workflow> [file...]",
		Short: "Execute a registered workflow from the command line",
		Long: `run executes a single named workflow, assembling its initial state
from positional prompt-file arguments (or standard input, if no files
are given and stdin is not a terminal), repeated --initial-state
key=value flags, and an optional --initial-state-file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflowName := args[0]
			files := args[1:]

			prompt, err := readPrompt(files)
			if err != nil {
				return err
			}

			initial := state.New()

			if initialStateFile != "" {
				extra, err := loadInitialStateFile(initialStateFile)
				if err != nil {
					return err
				}
				initial = initial.Merge(extra)
			}

			for _, kv := range initialState {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--initial-state entry %q is not in key=value form", kv)
				}
				initial[k] = v
			}

			initial["prompt"] = prompt
			if model != "" {
				initial["model"] = model
			}

			ch := channel.NewLine(workflowName, initial)
			rn, err := runner.New(app, ch)
			if err != nil {
				return err
			}

			_, err = rn.Run()
			return err
		},
	}

	cmd.Flags().StringArrayVar(&initialState, "initial-state", nil, "Initial state entry in key=value form (repeatable)")
	cmd.Flags().StringVar(&initialStateFile, "initial-state-file", "", "YAML or JSON file of additional initial state entries")
	cmd.Flags().StringVar(&model, "model", "", "Sets initial_state[\"model\"]")

	return cmd
}

// readPrompt concatenates the contents of files (no separator), or
// reads standard input when no files are given and it isn't a
// terminal, per spec.md §6.
func readPrompt(files []string) (string, error) {
	if len(files) > 0 {
		var b strings.Builder
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return "", fmt.Errorf("reading prompt file %q: %w", f, err)
			}
			b.Write(data)
		}
		return b.String(), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(data), nil
}

// loadInitialStateFile parses path as YAML (a superset of JSON, so
// this also accepts JSON files) into a flat map of extra initial
// state entries.
func loadInitialStateFile(path string) (state.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading --initial-state-file %q: %w", path, err)
	}
	var extra map[string]any
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing --initial-state-file %q: %w", path, err)
	}
	return state.State(extra), nil
}
