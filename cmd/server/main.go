// Package main runs the household inflation service: rate history storage,
// category forecasting, household projections, and policy-facing cohort
// aggregation behind a JSON HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/forecast"
	"github.com/Pravee02/HIEI/internal/ingestion"
	"github.com/Pravee02/HIEI/internal/storage"
	chstore "github.com/Pravee02/HIEI/internal/storage/clickhouse"
	"github.com/Pravee02/HIEI/internal/storage/memory"
	"github.com/Pravee02/HIEI/internal/storage/migrations"
	pgstore "github.com/Pravee02/HIEI/internal/storage/postgres"
)

// stores holds the storage implementations picked at startup.
type stores struct {
	rateStore   storage.RateHistoryStore
	recordStore storage.HouseholdRecordStore
	auditStore  storage.ForecastAuditStore // nil without ClickHouse
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	httpAddr := flag.String("http-addr", envOr("HTTP_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (forecast audit archive)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	seedEmpty := flag.Bool("seed-empty", false, "Seed synthetic rate history when the store is empty")
	seedValue := flag.Int64("seed", 42, "Seed for synthetic history generation")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	st, backend, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()
	logger.Printf("Storage backend: %s", backend)

	if *seedEmpty {
		if err := seedIfEmpty(ctx, st.rateStore, *seedValue, logger); err != nil {
			logger.Fatalf("Failed to seed rate history: %v", err)
		}
	}

	srv := &server{
		forecaster:  forecast.NewForecaster(st.rateStore),
		rateStore:   st.rateStore,
		recordStore: st.recordStore,
		auditStore:  st.auditStore,
		backend:     backend,
		startedAt:   time.Now().UTC(),
		logger:      logger,
	}

	httpServer := &http.Server{
		Addr:    *httpAddr,
		Handler: srv.routes(),
	}

	go func() {
		logger.Printf("HTTP server listening on %s", *httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP shutdown: %v", err)
	}
	logger.Println("Server stopped")
}

// createStores wires either in-memory stores or PostgreSQL plus an optional
// ClickHouse audit archive. The returned cleanup closes connections.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (*stores, string, func(), error) {
	if useMemory {
		return &stores{
			rateStore:   memory.NewRateHistoryStore(),
			recordStore: memory.NewHouseholdRecordStore(),
			auditStore:  memory.NewForecastAuditStore(),
		}, "memory", func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, "", nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, "", nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	st := &stores{
		rateStore:   pgstore.NewRateHistoryStore(pool),
		recordStore: pgstore.NewHouseholdRecordStore(pool),
	}
	backend := "postgres"
	cleanup := func() { pool.Close() }

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, "", nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		st.auditStore = chstore.NewForecastAuditStore(conn)
		backend = "postgres+clickhouse"
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	} else {
		logger.Println("No ClickHouse DSN; forecast audit archive disabled")
	}

	return st, backend, cleanup, nil
}

// seedIfEmpty loads the synthetic dataset when no rate history exists yet.
func seedIfEmpty(ctx context.Context, store storage.RateHistoryStore, seed int64, logger *log.Logger) error {
	existing, err := store.GetByCategory(ctx, domain.CategoryFood)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Printf("Rate history already loaded (%d Food observations), skipping seed", len(existing))
		return nil
	}

	loader := ingestion.NewLoader(store, logger)
	_, err = loader.LoadRecords(ctx, ingestion.DefaultSyntheticHistory(seed))
	return err
}

// envOr returns the environment value or a default.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
