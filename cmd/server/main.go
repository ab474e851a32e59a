// Command server runs the collaborative canvas server.
//
// One process is the single authority for every room it hosts: it assigns
// operation ids, serializes intents per room, and fans authoritative events
// out over WebSocket. State is in-memory only; empty rooms are deleted after
// a grace period.
//
// # Endpoints
//
//	GET /ws                          WebSocket room channel
//	GET /health                      {status, rooms, uptime}
//	GET /api/rooms/{roomID}/stats    room stats or 404
//	GET /livez, /readyz, /drain, /undrain
//
// # Usage
//
//	go run ./cmd/server --addr=:8080 --room-grace=60s
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amiralam198/real-time-collaborative-canvas/api/httpserver"
	"github.com/amiralam198/real-time-collaborative-canvas/gateway"
	"github.com/amiralam198/real-time-collaborative-canvas/rooms"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		roomGrace   = flag.Duration("room-grace", rooms.DefaultGracePeriod, "How long an empty room is kept before deletion")
		drain       = flag.Duration("drain", 5*time.Second, "Drain window before shutdown")
		shutdownDur = flag.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
		enablePprof = flag.Bool("pprof", false, "Enable the pprof debugging API")
		logJSON     = flag.Bool("log-json", false, "Log in JSON format")
		logDebug    = flag.Bool("log-debug", false, "Log at debug level")
	)
	flag.Parse()

	log := newLogger(*logJSON, *logDebug)

	registry := rooms.NewRegistry(&rooms.RegistryConfig{
		GracePeriod: *roomGrace,
		Log:         log,
	})
	g := gateway.New(registry, log)

	srv, err := httpserver.New(&httpserver.Config{
		ListenAddr:               *addr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            *drain,
		GracefulShutdownDuration: *shutdownDur,
		ReadTimeout:              15 * time.Second,
		// WebSocket connections are hijacked from the HTTP server, so the
		// write timeout only bounds the REST surface.
		WriteTimeout: 15 * time.Second,
	}, g)
	if err != nil {
		log.Error("could not create server", "err", err)
		os.Exit(1)
	}

	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	srv.Shutdown()
}

func newLogger(json, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
