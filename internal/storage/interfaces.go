package storage

import (
	"context"

	"github.com/Pravee02/HIEI/internal/domain"
)

// RateHistoryStore provides access to the historical inflation rate table.
// The forecasting engine only ever reads it; writes come from ingestion.
type RateHistoryStore interface {
	// Insert adds one observation. Returns ErrDuplicateKey if (category, date) exists.
	Insert(ctx context.Context, r *domain.RateRecord) error

	// InsertBulk adds multiple observations atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.RateRecord) error

	// GetByCategory retrieves the full series for a category, ordered by date ASC.
	GetByCategory(ctx context.Context, category domain.Category) ([]*domain.RateRecord, error)

	// GetLatest retrieves the most recent observation for a category.
	// Returns ErrNotFound if the category has no history.
	GetLatest(ctx context.Context, category domain.Category) (*domain.RateRecord, error)
}

// HouseholdRecordStore provides access to persisted projection outcomes.
// Each projection run appends a record; the policy layer reads each
// household's latest record.
type HouseholdRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.HouseholdRecord) error

	// GetHistory retrieves all records for a household, newest first.
	GetHistory(ctx context.Context, householdID string) ([]*domain.HouseholdRecord, error)

	// GetLatestByHousehold retrieves the most recent record for a household.
	// Returns ErrNotFound if the household has no records.
	GetLatestByHousehold(ctx context.Context, householdID string) (*domain.HouseholdRecord, error)

	// GetLatestAll retrieves each household's most recent record,
	// ordered by household ID ASC for deterministic aggregation input.
	GetLatestAll(ctx context.Context) ([]*domain.HouseholdRecord, error)
}

// ForecastAuditStore archives generated forecast series so that identical
// forecast calls can be compared against persisted output.
type ForecastAuditStore interface {
	// InsertBulk adds the points of one generated series. Fails entire batch
	// on duplicate (category, dataset_hash, generated_at, offset).
	InsertBulk(ctx context.Context, points []*domain.ForecastAuditPoint) error

	// GetByDatasetHash retrieves archived points for a (category, dataset hash),
	// ordered by generated_at ASC, offset ASC.
	GetByDatasetHash(ctx context.Context, category domain.Category, datasetHash string) ([]*domain.ForecastAuditPoint, error)
}
