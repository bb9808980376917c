/*
main.go - Application entry point

PURPOSE:
  Starts the student-hotel dashboard API. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and environment into config.Config
  2. Build the logrus logger
  3. Build record gateways (remote backend, or SQLite in demo mode)
  4. Create API handler and router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the demo database, if any
  4. Exit

EXAMPLES:
  # Against the backend
  API_BASE_URL=https://api.example.test/api ORGANIZATION_ID=org-1 ./server

  # Offline with fixtures
  DEMO_MODE=true ./server

  # Demo data kept on disk between runs
  DEMO_MODE=true DEMO_DB_PATH=./data/demo.db ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - factory/gateways.go: Backend selection
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/student-hotel/api"
	"github.com/warp/student-hotel/config"
	"github.com/warp/student-hotel/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log := config.NewLogger(cfg.LogLevel)

	gws, err := factory.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize gateways: %v", err)
	}
	defer gws.Close()

	handler := api.NewHandler(gws, log)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("mode", gws.Mode).Infof("Server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
