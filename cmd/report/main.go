// Package main generates the offline policy report from stored data:
// a markdown summary and a CSV of per-group rollups.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/Pravee02/HIEI/internal/reporting"
	"github.com/Pravee02/HIEI/internal/storage/migrations"
	pgstore "github.com/Pravee02/HIEI/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	outputDir := flag.String("output-dir", "output", "Output directory for report files")

	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags)

	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	generator := reporting.NewGenerator(
		pgstore.NewRateHistoryStore(pool),
		pgstore.NewHouseholdRecordStore(pool),
	)

	report, err := generator.Generate(ctx)
	if err != nil {
		logger.Fatalf("Failed to generate report: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("Failed to create output dir: %v", err)
	}

	mdPath := filepath.Join(*outputDir, "POLICY_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatalf("Failed to write markdown: %v", err)
	}
	logger.Printf("Wrote %s", mdPath)

	csvPath := filepath.Join(*outputDir, "cohort_risk.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Insights.Groups)), 0o644); err != nil {
		logger.Fatalf("Failed to write csv: %v", err)
	}
	logger.Printf("Wrote %s", csvPath)
}
