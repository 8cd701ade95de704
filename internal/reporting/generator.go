package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/policy"
	"github.com/Pravee02/HIEI/internal/storage"
)

// Generator produces policy reports from stored data.
type Generator struct {
	rateStore   storage.RateHistoryStore
	recordStore storage.HouseholdRecordStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(rateStore storage.RateHistoryStore, recordStore storage.HouseholdRecordStore) *Generator {
	return &Generator{
		rateStore:   rateStore,
		recordStore: recordStore,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete policy report: the latest observed rates plus
// the cohort aggregation over each household's latest record.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	rates, err := g.latestRates(ctx)
	if err != nil {
		return nil, err
	}

	records, err := g.recordStore.GetLatestAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest household records: %w", err)
	}

	return &Report{
		GeneratedAt: g.now(),
		LatestRates: rates,
		Insights:    policy.Aggregate(records),
	}, nil
}

// latestRates collects the most recent observation per category. A category
// with no history is omitted rather than reported as zero.
func (g *Generator) latestRates(ctx context.Context) ([]LatestRateRow, error) {
	var rows []LatestRateRow
	for _, category := range domain.Categories() {
		latest, err := g.rateStore.GetLatest(ctx, category)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load latest %s rate: %w", category, err)
		}
		rows = append(rows, LatestRateRow{
			Category: category,
			Month:    latest.Date,
			Rate:     latest.Rate,
		})
	}
	return rows, nil
}
