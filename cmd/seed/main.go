// Package main seeds the rate history store with the synthetic inflation
// dataset, or writes it to CSV for inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/ingestion"
	"github.com/Pravee02/HIEI/internal/storage"
	"github.com/Pravee02/HIEI/internal/storage/memory"
	"github.com/Pravee02/HIEI/internal/storage/migrations"
	pgstore "github.com/Pravee02/HIEI/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Load into a throwaway in-memory store (dry run)")
	csvPath := flag.String("csv", "", "Load from this CSV file instead of generating synthetic data")
	csvOut := flag.String("csv-out", "", "Write the generated dataset to this CSV file instead of a store")
	seed := flag.Int64("seed", 42, "Seed for synthetic history generation")
	start := flag.String("start", ingestion.SyntheticStart.Format(domain.MonthLayout), "First month (YYYY-MM)")
	end := flag.String("end", ingestion.SyntheticEnd.Format(domain.MonthLayout), "Last month (YYYY-MM)")

	flag.Parse()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags)

	records, err := buildRecords(*csvPath, *seed, *start, *end)
	if err != nil {
		logger.Fatalf("Failed to build dataset: %v", err)
	}
	logger.Printf("Dataset ready: %d observations", len(records))

	if *csvOut != "" {
		if err := writeCSV(*csvOut, records); err != nil {
			logger.Fatalf("Failed to write CSV: %v", err)
		}
		logger.Printf("Wrote %s", *csvOut)
		return
	}

	ctx := context.Background()

	var store storage.RateHistoryStore
	if *useMemory {
		store = memory.NewRateHistoryStore()
	} else {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required (or --use-memory / --csv-out)")
		}
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		store = pgstore.NewRateHistoryStore(pool)
	}

	loader := ingestion.NewLoader(store, logger)
	result, err := loader.LoadRecords(ctx, records)
	if err != nil {
		logger.Fatalf("Failed to load dataset: %v", err)
	}
	logger.Printf("Done: %d inserted, %d duplicates skipped", result.Inserted, result.DuplicatesSkipped)
}

func buildRecords(csvPath string, seed int64, start, end string) ([]*domain.RateRecord, error) {
	if csvPath != "" {
		f, err := os.Open(csvPath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", csvPath, err)
		}
		defer f.Close()
		return ingestion.ReadRateCSV(f)
	}

	startDate, err := time.Parse(domain.MonthLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse --start: %w", err)
	}
	endDate, err := time.Parse(domain.MonthLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse --end: %w", err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("--end %s is before --start %s", end, start)
	}

	return ingestion.GenerateSyntheticHistory(seed, startDate.UTC(), endDate.UTC()), nil
}

func writeCSV(path string, records []*domain.RateRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "date,category,rate"); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(f, "%s,%s,%.2f\n",
			r.Date.Format("2006-01-02"), r.Category, r.Rate); err != nil {
			return err
		}
	}
	return nil
}
