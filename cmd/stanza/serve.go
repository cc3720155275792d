package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/stanza"
	httpAdapter "github.com/aretw0/stanza/pkg/adapters/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the Stanza engine as a JSON API over HTTP. Sessions live in the
configured store; chain documents are served under /output for remote loaders.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd, nil)
		if err != nil {
			return err
		}
		defer app.Close()
		cfg := app.Config

		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("metrics") {
			cfg.HTTP.Metrics, _ = cmd.Flags().GetBool("metrics")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.StartWatch(ctx); err != nil {
			return err
		}

		opts := []httpAdapter.Option{
			httpAdapter.WithVersion(stanza.Version),
			httpAdapter.WithLogger(app.Logger),
		}
		if cfg.HTTP.Metrics {
			opts = append(opts, httpAdapter.WithMetrics(app.Metrics.Handler()))
		}

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpAdapter.NewHandler(app.Engine, app.Sessions, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			app.Logger.Info("Starting Stanza Server", "address", srv.Addr, "chains", cfg.Chains.Dir, "store", cfg.Store.Kind)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			app.Logger.Info("Start shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete in %v: %w", cfg.HTTP.ShutdownTimeout, err)
			}
			app.Logger.Info("Stanza Server stopped gracefully")
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("metrics", false, "Expose prometheus metrics at /metrics")
}
