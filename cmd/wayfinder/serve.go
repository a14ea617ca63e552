package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aretw0/wayfinder/internal/scenario"
	wayhttp "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scenario>",
	Short: "Serve a scenario's navigation tree over HTTP",
	Long: `Builds the app described by a scenario, runs its steps and exposes the tree as a
JSON API with server-sent events and Prometheus metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		skipSteps, _ := cmd.Flags().GetBool("skip-steps")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		// The server needs the App, and the App's hooks need the server.
		var current atomic.Pointer[wayhttp.Server]
		notify := func() {
			if srv := current.Load(); srv != nil {
				srv.Notify()
			}
		}
		metrics := observability.NewMetrics()
		hooks := domain.MergeHooks(
			observability.LoggingHooks(logger),
			metrics.Hooks(),
			domain.LifecycleHooks{
				OnNavigation:  func(context.Context, *domain.NavigationEvent) { notify() },
				OnRequirement: func(context.Context, *domain.RequirementEvent) { notify() },
			},
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner, cleanup, err := newRunner(ctx, cmd, args[0], scenario.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}
		defer cleanup()

		if !skipSteps {
			if err := runner.Run(ctx, nil); err != nil {
				return err
			}
		}

		api := wayhttp.NewServer(runner.App(),
			wayhttp.WithStateStore(runner.Store()),
			wayhttp.WithMetrics(metrics.Handler()),
			wayhttp.WithLogger(logger),
		)
		current.Store(api)
		go api.Run(ctx)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: api.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting wayfinder server", "addr", srv.Addr, "scenario", args[0])
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("wayfinder server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("skip-steps", false, "Serve the initial tree without running the scenario's steps")
}
