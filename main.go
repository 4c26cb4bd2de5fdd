// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/versus/cliparse"
	"github.com/danielhkuo/versus/db"
	"github.com/danielhkuo/versus/middleware"
	"github.com/danielhkuo/versus/router"
	"github.com/danielhkuo/versus/store"
	"github.com/danielhkuo/versus/versus"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Connect to the database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	svc, err := versus.NewService(store.New(dbConn), versus.Options{
		CreationMode: cfg.CreationMode,
		WriteTimeout: cfg.WriteTimeout,
		Logger:       logger,
	})
	if err != nil {
		slog.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(svc, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("listen failed", "addr", server.Addr, "error", err)
		return
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	// Start server
	slog.Info("Listening", "port", cfg.Port, "creation_mode", cfg.CreationMode)
	if err := serve(&server, ln, ctrlc, cfg.WriteTimeout+5*time.Second); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}

// serve runs the server until stop fires, then shuts it down and waits for
// in-flight requests, write phases included, for up to grace. It returns
// only once the handlers have drained, so the database can be closed after.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, grace time.Duration) error {
	done := make(chan error, 1)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
		done <- err
	}()

	// Serve returns as soon as Shutdown starts, not when it finishes
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

func newLogger(cfg cliparse.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: versus.ReplaceLevelName}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
