// Command devapi serves an in-memory copy of the listings REST API for local
// development and demos. Data is reset on every start.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/urbanhomes/internal/devapi"
	"github.com/vbonduro/urbanhomes/internal/logging"
)

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger, cleanup, err := logging.New(logging.Options{Level: *level, Format: "text"})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := devapi.New(logger)
	srv := &http.Server{Addr: *addr, Handler: api.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("dev API listening", "addr", *addr, "admin", devapi.AdminEmail)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}
