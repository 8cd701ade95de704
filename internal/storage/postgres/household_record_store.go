package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// HouseholdRecordStore implements storage.HouseholdRecordStore using PostgreSQL.
type HouseholdRecordStore struct {
	pool *Pool
}

// NewHouseholdRecordStore creates a new HouseholdRecordStore.
func NewHouseholdRecordStore(pool *Pool) *HouseholdRecordStore {
	return &HouseholdRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.HouseholdRecordStore = (*HouseholdRecordStore)(nil)

const householdRecordColumns = `
	record_id, household_id, cohort_group,
	salary, food_spend, fuel_spend, health_spend, fixed_spend,
	total_spend, future_total_spend, spend_status, most_affected, created_at
`

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *HouseholdRecordStore) Insert(ctx context.Context, r *domain.HouseholdRecord) error {
	query := `
		INSERT INTO household_records (` + householdRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RecordID,
		r.HouseholdID,
		string(r.Group),
		r.Salary,
		r.FoodSpend,
		r.FuelSpend,
		r.HealthSpend,
		r.FixedSpend,
		r.TotalSpend,
		r.FutureTotalSpend,
		string(r.SpendStatus),
		r.MostAffected,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert household record: %w", err)
	}
	return nil
}

// GetHistory retrieves all records for a household, newest first.
func (s *HouseholdRecordStore) GetHistory(ctx context.Context, householdID string) ([]*domain.HouseholdRecord, error) {
	query := `
		SELECT ` + householdRecordColumns + `
		FROM household_records
		WHERE household_id = $1
		ORDER BY created_at DESC, record_id DESC
	`

	rows, err := s.pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("get household history: %w", err)
	}
	defer rows.Close()

	return scanHouseholdRecords(rows)
}

// GetLatestByHousehold retrieves the most recent record for a household.
func (s *HouseholdRecordStore) GetLatestByHousehold(ctx context.Context, householdID string) (*domain.HouseholdRecord, error) {
	query := `
		SELECT ` + householdRecordColumns + `
		FROM household_records
		WHERE household_id = $1
		ORDER BY created_at DESC, record_id DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, householdID)
	record, err := scanHouseholdRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest household record: %w", err)
	}
	return record, nil
}

// GetLatestAll retrieves each household's most recent record, ordered by
// household ID ASC.
func (s *HouseholdRecordStore) GetLatestAll(ctx context.Context) ([]*domain.HouseholdRecord, error) {
	query := `
		SELECT DISTINCT ON (household_id) ` + householdRecordColumns + `
		FROM household_records
		ORDER BY household_id ASC, created_at DESC, record_id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get latest records for all households: %w", err)
	}
	defer rows.Close()

	return scanHouseholdRecords(rows)
}

// scanHouseholdRecord scans a single row.
func scanHouseholdRecord(row pgx.Row) (*domain.HouseholdRecord, error) {
	var r domain.HouseholdRecord
	var group, status string

	err := row.Scan(
		&r.RecordID,
		&r.HouseholdID,
		&group,
		&r.Salary,
		&r.FoodSpend,
		&r.FuelSpend,
		&r.HealthSpend,
		&r.FixedSpend,
		&r.TotalSpend,
		&r.FutureTotalSpend,
		&status,
		&r.MostAffected,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Group = domain.CohortGroup(group)
	r.SpendStatus = domain.SpendStatus(status)
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

// scanHouseholdRecords scans multiple rows into a slice.
func scanHouseholdRecords(rows pgx.Rows) ([]*domain.HouseholdRecord, error) {
	var records []*domain.HouseholdRecord

	for rows.Next() {
		record, err := scanHouseholdRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household record row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate household record rows: %w", err)
	}

	return records, nil
}
