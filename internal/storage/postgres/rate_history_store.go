package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// RateHistoryStore implements storage.RateHistoryStore using PostgreSQL.
type RateHistoryStore struct {
	pool *Pool
}

// NewRateHistoryStore creates a new RateHistoryStore.
func NewRateHistoryStore(pool *Pool) *RateHistoryStore {
	return &RateHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RateHistoryStore = (*RateHistoryStore)(nil)

// Insert adds one observation. Returns ErrDuplicateKey if (category, month) exists.
func (s *RateHistoryStore) Insert(ctx context.Context, r *domain.RateRecord) error {
	query := `
		INSERT INTO rate_history (category, month, rate)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query,
		string(r.Category),
		domain.MonthStart(r.Date),
		r.Rate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert rate record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple observations atomically. Fails entire batch on any duplicate.
func (s *RateHistoryStore) InsertBulk(ctx context.Context, records []*domain.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO rate_history (category, month, rate)
		VALUES ($1, $2, $3)
	`

	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			string(r.Category),
			domain.MonthStart(r.Date),
			r.Rate,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert rate record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByCategory retrieves the full series for a category, ordered by month ASC.
func (s *RateHistoryStore) GetByCategory(ctx context.Context, category domain.Category) ([]*domain.RateRecord, error) {
	query := `
		SELECT category, month, rate
		FROM rate_history
		WHERE category = $1
		ORDER BY month ASC
	`

	rows, err := s.pool.Query(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("get rate history by category: %w", err)
	}
	defer rows.Close()

	return scanRateRecords(rows)
}

// GetLatest retrieves the most recent observation for a category.
func (s *RateHistoryStore) GetLatest(ctx context.Context, category domain.Category) (*domain.RateRecord, error) {
	query := `
		SELECT category, month, rate
		FROM rate_history
		WHERE category = $1
		ORDER BY month DESC
		LIMIT 1
	`

	var r domain.RateRecord
	var cat string
	var month time.Time
	err := s.pool.QueryRow(ctx, query, string(category)).Scan(&cat, &month, &r.Rate)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest rate: %w", err)
	}

	r.Category = domain.Category(cat)
	r.Date = domain.MonthStart(month.UTC())
	return &r, nil
}

// scanRateRecords scans multiple rows into a slice of RateRecord.
func scanRateRecords(rows pgx.Rows) ([]*domain.RateRecord, error) {
	var records []*domain.RateRecord

	for rows.Next() {
		var r domain.RateRecord
		var cat string
		var month time.Time

		if err := rows.Scan(&cat, &month, &r.Rate); err != nil {
			return nil, fmt.Errorf("scan rate record row: %w", err)
		}

		r.Category = domain.Category(cat)
		r.Date = domain.MonthStart(month.UTC())
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate record rows: %w", err)
	}

	return records, nil
}
