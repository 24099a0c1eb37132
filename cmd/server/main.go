/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the timeclock HTTP server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load settings (wage + window policy)
  3. Initialize the persister (JSON file or SQLite) and record store
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -data     Data directory (default: ./data)
  -backend  "file" for the JSON snapshot, "sqlite" for SQLite

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/file, store/sqlite: Persistence backends
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/warp/timeclock/api"
	"github.com/warp/timeclock/config"
	"github.com/warp/timeclock/store/file"
	"github.com/warp/timeclock/store/sqlite"
	"github.com/warp/timeclock/worklog"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dataDir := flag.String("data", "./data", "data directory")
	backend := flag.String("backend", "file", `persistence backend: "file" or "sqlite"`)
	flag.Parse()

	// Settings
	settingsPath := filepath.Join(*dataDir, "settings.json")
	settings, err := config.Load(settingsPath)
	if err != nil {
		log.Printf("Warning: failed to load settings, using defaults: %v", err)
	}
	if !settings.WageSet() {
		log.Printf("No hourly wage configured yet; set one via PUT /api/settings")
	}

	// Persister
	var persister worklog.Persister
	switch *backend {
	case "file":
		persister = file.New(filepath.Join(*dataDir, "records.json"))
	case "sqlite":
		st, err := sqlite.New(filepath.Join(*dataDir, "timeclock.db"))
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer st.Close()
		persister = st
	default:
		log.Fatalf("Unknown backend %q", *backend)
	}

	// Record store
	store := worklog.NewRecordStore(persister)
	if err := store.Load(context.Background()); err != nil {
		log.Printf("Warning: failed to load records, starting empty: %v", err)
	}

	// Router
	handler := api.NewHandler(store, settings, settingsPath)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Timeclock server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
