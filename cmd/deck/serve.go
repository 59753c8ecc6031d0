package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bethropolis/deck/internal/config"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/metrics"
	"github.com/bethropolis/deck/internal/server"
)

var serveFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an editing session over HTTP",
	Long: `Starts one editing session and exposes it as a JSON API: POST /actions
dispatches tokens, /undo and /redo walk history, GET /snapshot and /outline read
the document and /metrics exposes Prometheus metrics.`,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveFile, "file", "f", "", "Document to open and autosave to")
}

func serve(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewPrometheus(reg)
	if err != nil {
		return err
	}

	session, err := newSession(cmd, rec)
	if err != nil {
		return err
	}
	defer session.Close()

	if serveFile != "" {
		if err := session.Open(cmd.Context(), serveFile); err != nil {
			return fmt.Errorf("opening %s: %w", serveFile, err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.NewHandler(session, reg),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("Serving deck on %s", srv.Addr)
		fmt.Fprintf(cmd.ErrOrStderr(), "Serving deck on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-shutdown:
		logger.Infof("Shutting down on %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warnf("Graceful shutdown did not complete in %v: %v", config.ShutdownTimeout, err)
			if err := srv.Close(); err != nil {
				logger.Errorf("Error killing server: %v", err)
			}
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "deck server stopped")
		return nil
	}
}
