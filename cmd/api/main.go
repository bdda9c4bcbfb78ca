// Package main is the entry point for the book catalog API server.
// It wires together configuration, the storage backend, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aoideee/remember/internal/data"

	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.
)

// appVersion is the current version of the API, shown in logs and /healthcheck.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig // Server configuration loaded from flags and environment
	logger *slog.Logger // Structured logger that writes to stdout
	models data.Models  // Storage layer for all resources
}

func main() {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	settings, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if settings.displayVersion {
		fmt.Printf("Version:\t%s\n", appVersion)
		os.Exit(0)
	}

	// Create a structured logger that writes human-readable text to stdout.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	models, cleanup, err := openModels(settings, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer cleanup()

	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		models: models,
	}

	if err := appInstance.serve(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// openModels builds the storage layer selected by settings.storage. The
// returned cleanup func releases any connection pool.
func openModels(settings serverConfig, logger *slog.Logger) (data.Models, func(), error) {
	switch settings.storage {
	case storageMemory:
		logger.Info("using in-memory storage; data is lost on restart")
		return data.NewMemoryModels(), func() {}, nil
	case storagePostgres:
		db, err := openDB(settings)
		if err != nil {
			return data.Models{}, nil, err
		}
		logger.Info("database connection pool established")

		if settings.db.migrate {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := data.Migrate(ctx, db); err != nil {
				db.Close()
				return data.Models{}, nil, err
			}
			logger.Info("database schema is up to date")
		}
		return data.NewModels(db), func() { db.Close() }, nil
	default:
		return data.Models{}, nil, fmt.Errorf("unknown storage backend %q", settings.storage)
	}
}

// openDB opens a PostgreSQL connection pool using the DSN stored in settings,
// then pings the database with a 5-second timeout to confirm it is reachable.
func openDB(settings serverConfig) (*sql.DB, error) {
	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open("postgres", settings.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(settings.db.maxOpenConns)
	db.SetMaxIdleConns(settings.db.maxIdleConns)
	db.SetConnMaxIdleTime(settings.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// PingContext performs a real round-trip to verify the database is reachable.
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
