package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

// ForecastAuditStore is an in-memory implementation of storage.ForecastAuditStore.
type ForecastAuditStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ForecastAuditPoint // keyed by (category, hash, generated_at, offset)
}

// NewForecastAuditStore creates a new in-memory forecast audit store.
func NewForecastAuditStore() *ForecastAuditStore {
	return &ForecastAuditStore{
		data: make(map[string]*domain.ForecastAuditPoint),
	}
}

// Compile-time interface check.
var _ storage.ForecastAuditStore = (*ForecastAuditStore)(nil)

// auditKey generates a unique key for an archived point.
func auditKey(p *domain.ForecastAuditPoint) string {
	return fmt.Sprintf("%s|%s|%d|%d", p.Category, p.DatasetHash, p.GeneratedAt.UnixMilli(), p.Offset)
}

// InsertBulk adds the points of one generated series. Fails entire batch on duplicate.
func (s *ForecastAuditStore) InsertBulk(_ context.Context, points []*domain.ForecastAuditPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Category == "" || p.DatasetHash == "" {
			return storage.ErrInvalidInput
		}
		key := auditKey(p)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[auditKey(p)] = &pointCopy
	}

	return nil
}

// GetByDatasetHash retrieves archived points for a (category, dataset hash),
// ordered by generated_at ASC, offset ASC.
func (s *ForecastAuditStore) GetByDatasetHash(_ context.Context, category domain.Category, datasetHash string) ([]*domain.ForecastAuditPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ForecastAuditPoint
	for _, p := range s.data {
		if p.Category == category && p.DatasetHash == datasetHash {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].GeneratedAt.Equal(result[j].GeneratedAt) {
			return result[i].GeneratedAt.Before(result[j].GeneratedAt)
		}
		return result[i].Offset < result[j].Offset
	})

	return result, nil
}
