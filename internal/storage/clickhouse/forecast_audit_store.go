package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// ForecastAuditStore implements storage.ForecastAuditStore using ClickHouse.
// Forecast series are archived append-only; MergeTree handles the volume of
// one row per forecast point far better than a row store would.
type ForecastAuditStore struct {
	conn *Conn
}

// NewForecastAuditStore creates a new ForecastAuditStore.
func NewForecastAuditStore(conn *Conn) *ForecastAuditStore {
	return &ForecastAuditStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ForecastAuditStore = (*ForecastAuditStore)(nil)

// InsertBulk archives the points of one generated series. Fails the entire
// batch on duplicate (category, dataset_hash, generated_at, offset).
func (s *ForecastAuditStore) InsertBulk(ctx context.Context, points []*domain.ForecastAuditPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		category    domain.Category
		datasetHash string
		generatedMs int64
		offset      int
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.Category, p.DatasetHash, p.GeneratedAt.UnixMilli(), p.Offset}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check against existing rows
	for _, p := range points {
		exists, err := s.exists(ctx, p)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO forecast_audit (
			category, dataset_hash, generated_at, offset_months, month,
			yhat, lower_bound, upper_bound, degraded
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		degraded := uint8(0)
		if p.Degraded {
			degraded = 1
		}
		err = batch.Append(
			string(p.Category), p.DatasetHash, p.GeneratedAt.UTC(), int32(p.Offset),
			p.Date.UTC(), p.Yhat, p.Lower, p.Upper, degraded,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByDatasetHash retrieves archived points for a (category, dataset hash),
// ordered by generated_at ASC, offset ASC.
func (s *ForecastAuditStore) GetByDatasetHash(ctx context.Context, category domain.Category, datasetHash string) ([]*domain.ForecastAuditPoint, error) {
	query := `
		SELECT category, dataset_hash, generated_at, offset_months, month,
		       yhat, lower_bound, upper_bound, degraded
		FROM forecast_audit
		WHERE category = ? AND dataset_hash = ?
		ORDER BY generated_at ASC, offset_months ASC
	`

	rows, err := s.conn.Query(ctx, query, string(category), datasetHash)
	if err != nil {
		return nil, fmt.Errorf("query by dataset hash: %w", err)
	}
	defer rows.Close()

	return scanForecastAuditPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *ForecastAuditStore) exists(ctx context.Context, p *domain.ForecastAuditPoint) (bool, error) {
	query := `
		SELECT count(*) FROM forecast_audit
		WHERE category = ? AND dataset_hash = ? AND generated_at = ? AND offset_months = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query,
		string(p.Category), p.DatasetHash, p.GeneratedAt.UTC(), int32(p.Offset),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanForecastAuditPoints scans multiple rows into a slice.
func scanForecastAuditPoints(rows chRows) ([]*domain.ForecastAuditPoint, error) {
	var points []*domain.ForecastAuditPoint

	for rows.Next() {
		var p domain.ForecastAuditPoint
		var category string
		var offset int32
		var month time.Time
		var degraded uint8

		err := rows.Scan(
			&category, &p.DatasetHash, &p.GeneratedAt, &offset, &month,
			&p.Yhat, &p.Lower, &p.Upper, &degraded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan forecast audit row: %w", err)
		}

		p.Category = domain.Category(category)
		p.GeneratedAt = p.GeneratedAt.UTC()
		p.Offset = int(offset)
		p.Date = domain.MonthStart(month.UTC())
		p.Degraded = degraded != 0
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forecast audit rows: %w", err)
	}

	return points, nil
}
