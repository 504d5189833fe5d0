/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the parking fee engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load and validate the policy table (file or built-in default)
  3. Initialize the SQLite ticket store
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: parking.db)
           Use ":memory:" for an in-memory database
  -policy  Path to a policy JSON file; omit for the built-in 1U table

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and the built-in policy
  ./server -db="./data/parking.db"

  # Run with a site-specific policy file
  ./server -policy="./policy.json"

SEE ALSO:
  - api/server.go: Router configuration
  - factory/presets.go: The built-in policy table
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

	"github.com/warp/parking-engine/api"
	"github.com/warp/parking-engine/factory"
	"github.com/warp/parking-engine/store/sqlite"
	"github.com/warp/parking-engine/tariff"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "parking.db", "SQLite database path")
	policyPath := flag.String("policy", "", "policy JSON file (default: built-in 1U table)")
	flag.Parse()

	// Load the policy table once; it is threaded through as an explicit
	// read-only dependency from here on.
	var table *tariff.PolicyTable
	if *policyPath != "" {
		var err error
		table, err = factory.NewPolicyFactory().LoadFile(*policyPath)
		if err != nil {
			log.Fatalf("Failed to load policy table: %v", err)
		}
		log.Printf("Loaded policy table from %s", *policyPath)
	} else {
		table = factory.Default()
		log.Printf("Using built-in 1U policy table")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, table)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
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
