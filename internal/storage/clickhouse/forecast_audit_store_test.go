package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

func auditPoint(category domain.Category, hash string, generatedAt time.Time, offset int) *domain.ForecastAuditPoint {
	return &domain.ForecastAuditPoint{
		Category:    category,
		DatasetHash: hash,
		GeneratedAt: generatedAt,
		Offset:      offset,
		Date:        time.Date(2024, time.Month(1+offset%12), 1, 0, 0, 0, 0, time.UTC),
		Yhat:        6.0 + float64(offset)*0.1,
		Lower:       5.0,
		Upper:       7.5,
		Degraded:    false,
	}
}

func TestForecastAuditStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewForecastAuditStore(conn)

	generatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	points := []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryFood, "hash-a", generatedAt, 0),
		auditPoint(domain.CategoryFood, "hash-a", generatedAt, 1),
		auditPoint(domain.CategoryFood, "hash-a", generatedAt, 2),
	}
	require.NoError(t, store.InsertBulk(ctx, points))

	// Different hash must not be returned
	other := []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryFood, "hash-b", generatedAt, 0),
	}
	require.NoError(t, store.InsertBulk(ctx, other))

	got, err := store.GetByDatasetHash(ctx, domain.CategoryFood, "hash-a")
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i, p := range got {
		assert.Equal(t, i, p.Offset)
		assert.Equal(t, domain.CategoryFood, p.Category)
		assert.Equal(t, "hash-a", p.DatasetHash)
		assert.True(t, p.GeneratedAt.Equal(generatedAt))
		assert.InDelta(t, 6.0+float64(i)*0.1, p.Yhat, 0.0001)
		assert.False(t, p.Degraded)
	}
}

func TestForecastAuditStore_InsertBulkDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewForecastAuditStore(conn)

	generatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	// Intra-batch duplicate
	batch := []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryFuel, "hash-dup", generatedAt, 0),
		auditPoint(domain.CategoryFuel, "hash-dup", generatedAt, 0),
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Duplicate against an existing archived point
	require.NoError(t, store.InsertBulk(ctx, []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryFuel, "hash-dup", generatedAt, 1),
	}))
	err = store.InsertBulk(ctx, []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryFuel, "hash-dup", generatedAt, 1),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestForecastAuditStore_GetOrderedByGeneration(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewForecastAuditStore(conn)

	first := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	// Two generations of the same dataset, inserted newest first
	require.NoError(t, store.InsertBulk(ctx, []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryHealthcare, "hash-h", second, 0),
		auditPoint(domain.CategoryHealthcare, "hash-h", second, 1),
	}))
	require.NoError(t, store.InsertBulk(ctx, []*domain.ForecastAuditPoint{
		auditPoint(domain.CategoryHealthcare, "hash-h", first, 0),
		auditPoint(domain.CategoryHealthcare, "hash-h", first, 1),
	}))

	got, err := store.GetByDatasetHash(ctx, domain.CategoryHealthcare, "hash-h")
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.True(t, got[0].GeneratedAt.Equal(first))
	assert.Equal(t, 0, got[0].Offset)
	assert.Equal(t, 1, got[1].Offset)
	assert.True(t, got[2].GeneratedAt.Equal(second))
	assert.True(t, got[3].GeneratedAt.Equal(second))
}

func TestForecastAuditStore_EmptyResult(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := NewForecastAuditStore(conn).GetByDatasetHash(context.Background(), domain.CategoryFood, "no-such-hash")
	require.NoError(t, err)
	assert.Empty(t, got)
}
