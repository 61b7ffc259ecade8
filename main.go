package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires the API routes and the global middleware chain.
func newRouter(h *Handlers, staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("GET /activities", MetricsMiddleware(h.HandleListActivities, "activities"))
	mux.HandleFunc("POST /activities/{name}/signup", MetricsMiddleware(h.HandleSignup, "signup"))
	mux.HandleFunc("DELETE /activities/{name}/unregister", MetricsMiddleware(h.HandleUnregister, "unregister"))

	// The front-end bundle is deployed next to the binary; the API only
	// mounts it. ServeFile rather than FileServer: the latter answers
	// /static/index.html with a canonicalizing redirect, and that is
	// exactly where GET / sends visitors.
	mux.HandleFunc("GET /static/{file...}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, r.PathValue("file")))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply Global Middlewares
	var handler http.Handler = mux
	handler = LoggingMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(handler)
	return handler
}

func main() {
	// Setup structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := LoadConfig()

	// Initialize Database
	db, err := NewDB(cfg.DSN)
	if err != nil {
		slog.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}

	// Important: We use a short timeout for schema init to avoid pulling down the server on boot
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.InitSchema(ctx); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(ctx); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	// Set up Handlers
	h := &Handlers{DB: db}
	handler := newRouter(h, cfg.StaticDir)

	// Configure Server with Timeouts
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful Shutdown Setup
	go func() {
		slog.Info("server starting", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// 5 seconds to finish in-flight requests
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Close DB connection last
	if err := db.Close(); err != nil {
		slog.Error("failed to close db", "error", err)
	}

	slog.Info("server exited cleanly")
}
