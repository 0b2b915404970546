package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 30 * time.Second

// Run starts the HTTP server, then blocks until a shutdown signal.
// This method manages the complete lifecycle of the service:
//  1. Map HTTP handlers and wire the pipeline
//  2. Start HTTP server
//  3. Wait for shutdown signal
//  4. Stop accepting requests, then drain background dispatch
func (srv *HTTPServer) Run() error {
	ctx := context.Background()

	// 1. Map handlers
	if err := srv.mapHandlers(); err != nil {
		srv.l.Fatalf(ctx, "Failed to map handlers: %v", err)
		return err
	}

	// 2. Start HTTP server in background
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", srv.host, srv.port),
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	srv.l.Infof(ctx, "HTTP server started on %s", server.Addr)

	// 3. Wait for shutdown signal or a listener failure
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-ch:
		srv.l.Infof(ctx, "Received signal %s, stopping service...", sig)
	case runErr = <-errCh:
		srv.l.Errorf(ctx, "HTTP server error: %v", runErr)
	}

	// 4. Graceful shutdown
	timeout := srv.shutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		srv.l.Errorf(ctx, "HTTP server shutdown error: %v", err)
	}
	if srv.webhookUC != nil {
		if err := srv.webhookUC.Shutdown(shutdownCtx); err != nil {
			srv.l.Errorf(ctx, "Webhook processing shutdown error: %v", err)
		}
	}
	if srv.memGuard != nil {
		srv.memGuard.Close()
	}

	srv.l.Info(ctx, "Service stopped")
	return runErr
}
