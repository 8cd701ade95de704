package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// RateHistoryStore is an in-memory implementation of storage.RateHistoryStore.
type RateHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RateRecord // keyed by (category, month)
}

// NewRateHistoryStore creates a new in-memory rate history store.
func NewRateHistoryStore() *RateHistoryStore {
	return &RateHistoryStore{
		data: make(map[string]*domain.RateRecord),
	}
}

// Compile-time interface check.
var _ storage.RateHistoryStore = (*RateHistoryStore)(nil)

// rateKey generates a unique key for an observation.
func rateKey(category domain.Category, r *domain.RateRecord) string {
	return fmt.Sprintf("%s|%s", category, r.Date.UTC().Format(domain.MonthLayout))
}

// Insert adds one observation. Returns ErrDuplicateKey if (category, date) exists.
func (s *RateHistoryStore) Insert(_ context.Context, r *domain.RateRecord) error {
	if r == nil || r.Category == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := rateKey(r.Category, r)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.data[key] = &recordCopy
	return nil
}

// InsertBulk adds multiple observations atomically. Fails entire batch on any duplicate.
func (s *RateHistoryStore) InsertBulk(_ context.Context, records []*domain.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(records))

	// First pass: check for duplicates (existing + intra-batch)
	for _, r := range records {
		if r == nil || r.Category == "" {
			return storage.ErrInvalidInput
		}
		key := rateKey(r.Category, r)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, r := range records {
		recordCopy := *r
		s.data[rateKey(r.Category, r)] = &recordCopy
	}

	return nil
}

// GetByCategory retrieves the full series for a category, ordered by date ASC.
func (s *RateHistoryStore) GetByCategory(_ context.Context, category domain.Category) ([]*domain.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RateRecord
	for _, r := range s.data {
		if r.Category == category {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// GetLatest retrieves the most recent observation for a category.
func (s *RateHistoryStore) GetLatest(_ context.Context, category domain.Category) (*domain.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.RateRecord
	for _, r := range s.data {
		if r.Category != category {
			continue
		}
		if latest == nil || r.Date.After(latest.Date) {
			latest = r
		}
	}

	if latest == nil {
		return nil, storage.ErrNotFound
	}

	recordCopy := *latest
	return &recordCopy, nil
}
