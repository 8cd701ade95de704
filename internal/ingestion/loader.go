package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// Loader writes rate observations into a rate history store, skipping
// months already present so reloads are safe.
type Loader struct {
	store  storage.RateHistoryStore
	logger *log.Logger
}

// NewLoader creates a loader over the given store.
func NewLoader(store storage.RateHistoryStore, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{store: store, logger: logger}
}

// LoadResult contains statistics from one load operation.
type LoadResult struct {
	Inserted          int
	DuplicatesSkipped int
}

// LoadRecords inserts observations one at a time, skipping duplicates
// instead of failing, so a partially loaded dataset can be topped up.
func (l *Loader) LoadRecords(ctx context.Context, records []*domain.RateRecord) (*LoadResult, error) {
	result := &LoadResult{}

	for _, r := range records {
		err := l.store.Insert(ctx, r)
		switch {
		case err == nil:
			result.Inserted++
		case errors.Is(err, storage.ErrDuplicateKey):
			result.DuplicatesSkipped++
		default:
			return result, fmt.Errorf("load %s %s: %w", r.Category, r.Date.Format(domain.MonthLayout), err)
		}
	}

	l.logger.Printf("loaded rate history: %d inserted, %d duplicates skipped",
		result.Inserted, result.DuplicatesSkipped)
	return result, nil
}

// LoadCSV parses and loads a CSV stream of rate observations.
func (l *Loader) LoadCSV(ctx context.Context, r io.Reader) (*LoadResult, error) {
	records, err := ReadRateCSV(r)
	if err != nil {
		return nil, err
	}
	return l.LoadRecords(ctx, records)
}
