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

// Package serve implements the `antkeeper serve` subcommand: an
// additive HTTP front-end hosting the webhook and chat-event boundaries
// from spec.md §4.4/§4.5 side by side, plus a Prometheus /metrics
// endpoint (SPEC_FULL.md §4). Grounded on the teacher's
// cmd/conductord/main.go signal-handling shape and
// internal/controller/runner.Runner's WaitForDrain pattern.
package serve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tombee/antkeeper/internal/coalescer"
	"github.com/tombee/antkeeper/internal/registry"
	"github.com/tombee/antkeeper/internal/webhookapi"
)

// NewCommand creates the serve command bound to app.
func NewCommand(app *registry.App) *cobra.Command {
	var (
		addr            string
		drainTimeoutSec int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP webhook and chat-event boundaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, addr, time.Duration(drainTimeoutSec)*time.Second)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().IntVar(&drainTimeoutSec, "drain-timeout", 30, "Seconds to wait for in-flight runs to drain on shutdown")

	return cmd
}

func run(app *registry.App, addr string, drainTimeout time.Duration) error {
	logger := slog.Default()

	dispatcher := webhookapi.New(app, logger)
	coal := coalescer.New(app, logger)

	mux := http.NewServeMux()
	mux.Handle("/webhook", dispatcher.Handler())
	mux.Handle("/slack_event", coal.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown did not complete cleanly", "error", err.Error())
	}

	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		coal.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		logger.Info("all in-flight runs drained")
	case <-shutdownCtx.Done():
		logger.Warn("drain timeout exceeded; exiting with runs still in flight")
	}

	return nil
}
