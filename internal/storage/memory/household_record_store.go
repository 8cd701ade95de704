package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// HouseholdRecordStore is an in-memory implementation of storage.HouseholdRecordStore.
type HouseholdRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.HouseholdRecord // keyed by record_id
}

// NewHouseholdRecordStore creates a new in-memory household record store.
func NewHouseholdRecordStore() *HouseholdRecordStore {
	return &HouseholdRecordStore{
		data: make(map[string]*domain.HouseholdRecord),
	}
}

// Compile-time interface check.
var _ storage.HouseholdRecordStore = (*HouseholdRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *HouseholdRecordStore) Insert(_ context.Context, r *domain.HouseholdRecord) error {
	if r == nil || r.RecordID == "" || r.HouseholdID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RecordID]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *r
	s.data[r.RecordID] = &recordCopy
	return nil
}

// GetHistory retrieves all records for a household, newest first.
func (s *HouseholdRecordStore) GetHistory(_ context.Context, householdID string) ([]*domain.HouseholdRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.HouseholdRecord
	for _, r := range s.data {
		if r.HouseholdID == householdID {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].RecordID > result[j].RecordID
	})

	return result, nil
}

// GetLatestByHousehold retrieves the most recent record for a household.
func (s *HouseholdRecordStore) GetLatestByHousehold(ctx context.Context, householdID string) (*domain.HouseholdRecord, error) {
	history, err := s.GetHistory(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, storage.ErrNotFound
	}
	return history[0], nil
}

// GetLatestAll retrieves each household's most recent record, ordered by
// household ID ASC for deterministic aggregation input.
func (s *HouseholdRecordStore) GetLatestAll(_ context.Context) ([]*domain.HouseholdRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]*domain.HouseholdRecord)
	for _, r := range s.data {
		cur, ok := latest[r.HouseholdID]
		if !ok || r.CreatedAt.After(cur.CreatedAt) ||
			(r.CreatedAt.Equal(cur.CreatedAt) && r.RecordID > cur.RecordID) {
			latest[r.HouseholdID] = r
		}
	}

	result := make([]*domain.HouseholdRecord, 0, len(latest))
	for _, r := range latest {
		recordCopy := *r
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].HouseholdID < result[j].HouseholdID
	})

	return result, nil
}
