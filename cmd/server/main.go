/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the calorie tracker server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load the optional YAML config
  2. Initialize SQLite store
  3. Seed the Controller from the stored items
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (optional)
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: calories.db)
           Use ":memory:" for an in-memory database
  -key     Storage key for the item list (default: items)

  Flags given explicitly override values from the config file.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (shutdown_timeout, 30s default)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/calories.db"
  ./server -db=":memory:" -port=3000
  ./server -config=./calories.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config file format
  - store/sqlite/sqlite.go: Database implementation
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
	"syscall"
	"time"

	"github.com/warp/calorie-tracker/api"
	"github.com/warp/calorie-tracker/config"
	"github.com/warp/calorie-tracker/store/sqlite"
	"github.com/warp/calorie-tracker/tracker"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", config.DefaultPort, "HTTP server port")
	dbPath := flag.String("db", config.DefaultDBPath, "SQLite database path")
	key := flag.String("key", config.DefaultStorageKey, "Storage key for the item list")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		decoded, err := config.Decode(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = decoded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "db":
			cfg.DBPath = *dbPath
		case "key":
			cfg.StorageKey = *key
		}
	})
	// Overrides are in place, so defaults and range checks see them.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the ledger from the stored list
	persistence := tracker.NewPersistence(store, cfg.StorageKey)
	ctrl, err := tracker.NewController(context.Background(), persistence, log.Default())
	if err != nil {
		log.Fatalf("Failed to load items: %v", err)
	}
	v := ctrl.View()
	log.Printf("Loaded %d items (%d calories) from %s", len(v.Items), v.TotalCalories, cfg.DBPath)

	// Create router
	router := api.NewRouter(api.NewHandler(ctrl, store), cfg.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
