package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

func rateRecord(category domain.Category, year int, month time.Month, rate float64) *domain.RateRecord {
	return &domain.RateRecord{
		Date:     time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		Category: category,
		Rate:     rate,
	}
}

func TestRateHistoryStore_InsertAndGetByCategory(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRateHistoryStore(pool)

	// Insert out of order; reads must come back chronological
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryFood, 2023, time.March, 6.4)))
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryFood, 2023, time.January, 6.1)))
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryFood, 2023, time.February, 6.3)))
	// Another category must not bleed in
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryFuel, 2023, time.January, 5.0)))

	records, err := store.GetByCategory(ctx, domain.CategoryFood)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, time.January, records[0].Date.Month())
	assert.Equal(t, time.February, records[1].Date.Month())
	assert.Equal(t, time.March, records[2].Date.Month())
	assert.InDelta(t, 6.1, records[0].Rate, 0.0001)
	for _, r := range records {
		assert.Equal(t, domain.CategoryFood, r.Category)
	}
}

func TestRateHistoryStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRateHistoryStore(pool)

	record := rateRecord(domain.CategoryFuel, 2024, time.May, 4.8)
	require.NoError(t, store.Insert(ctx, record))

	// Same (category, month) must be rejected
	err := store.Insert(ctx, rateRecord(domain.CategoryFuel, 2024, time.May, 9.9))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same month in a different category is a different key
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryHealthcare, 2024, time.May, 10.2)))
}

func TestRateHistoryStore_InsertBulkAtomic(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRateHistoryStore(pool)

	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryFood, 2024, time.February, 6.0)))

	// Batch collides with the existing February row; nothing must land
	batch := []*domain.RateRecord{
		rateRecord(domain.CategoryFood, 2024, time.January, 5.9),
		rateRecord(domain.CategoryFood, 2024, time.February, 6.1),
		rateRecord(domain.CategoryFood, 2024, time.March, 6.2),
	}
	err := store.InsertBulk(ctx, batch)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	records, err := store.GetByCategory(ctx, domain.CategoryFood)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.February, records[0].Date.Month())

	// Clean batch succeeds
	clean := []*domain.RateRecord{
		rateRecord(domain.CategoryFood, 2024, time.April, 6.3),
		rateRecord(domain.CategoryFood, 2024, time.May, 6.5),
	}
	require.NoError(t, store.InsertBulk(ctx, clean))

	records, err = store.GetByCategory(ctx, domain.CategoryFood)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRateHistoryStore_GetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRateHistoryStore(pool)

	_, err := store.GetLatest(ctx, domain.CategoryHealthcare)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryHealthcare, 2024, time.October, 10.1)))
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryHealthcare, 2024, time.December, 10.5)))
	require.NoError(t, store.Insert(ctx, rateRecord(domain.CategoryHealthcare, 2024, time.November, 10.3)))

	latest, err := store.GetLatest(ctx, domain.CategoryHealthcare)
	require.NoError(t, err)
	assert.Equal(t, time.December, latest.Date.Month())
	assert.InDelta(t, 10.5, latest.Rate, 0.0001)
}
