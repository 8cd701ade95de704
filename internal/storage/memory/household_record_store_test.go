package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/storage"
)

func makeRecord(recordID, householdID string, createdAt time.Time) *domain.HouseholdRecord {
	return &domain.HouseholdRecord{
		RecordID:         recordID,
		HouseholdID:      householdID,
		Group:            domain.GroupUrbanPoor,
		Salary:           50000,
		FoodSpend:        8000,
		FuelSpend:        3000,
		HealthSpend:      2000,
		FixedSpend:       15000,
		TotalSpend:       28000,
		FutureTotalSpend: 29020,
		SpendStatus:      domain.StatusSurplus,
		MostAffected:     string(domain.CategoryFood),
		CreatedAt:        createdAt,
	}
}

func TestHouseholdRecordStore_InsertAndHistory(t *testing.T) {
	store := NewHouseholdRecordStore()
	ctx := context.Background()

	t0 := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	records := []*domain.HouseholdRecord{
		makeRecord("r1", "hh-1", t0),
		makeRecord("r2", "hh-1", t0.Add(24*time.Hour)),
		makeRecord("r3", "hh-2", t0),
	}
	for _, r := range records {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	history, err := store.GetHistory(ctx, "hh-1")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records for hh-1, got %d", len(history))
	}
	// Newest first
	if history[0].RecordID != "r2" {
		t.Errorf("expected newest record r2 first, got %s", history[0].RecordID)
	}
}

func TestHouseholdRecordStore_DuplicateKey(t *testing.T) {
	store := NewHouseholdRecordStore()
	ctx := context.Background()

	r := makeRecord("r1", "hh-1", time.Now().UTC())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.Insert(ctx, makeRecord("r1", "hh-other", time.Now().UTC()))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestHouseholdRecordStore_GetLatestByHousehold(t *testing.T) {
	store := NewHouseholdRecordStore()
	ctx := context.Background()

	if _, err := store.GetLatestByHousehold(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	t0 := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	if err := store.Insert(ctx, makeRecord("r1", "hh-1", t0)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, makeRecord("r2", "hh-1", t0.Add(time.Hour))); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	latest, err := store.GetLatestByHousehold(ctx, "hh-1")
	if err != nil {
		t.Fatalf("GetLatestByHousehold failed: %v", err)
	}
	if latest.RecordID != "r2" {
		t.Errorf("expected r2, got %s", latest.RecordID)
	}
}

func TestHouseholdRecordStore_GetLatestAll(t *testing.T) {
	store := NewHouseholdRecordStore()
	ctx := context.Background()

	// Empty store yields an empty slice, not an error
	all, err := store.GetLatestAll(ctx)
	if err != nil {
		t.Fatalf("GetLatestAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty result, got %d", len(all))
	}

	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []*domain.HouseholdRecord{
		makeRecord("r1", "hh-b", t0),
		makeRecord("r2", "hh-b", t0.Add(time.Hour)),
		makeRecord("r3", "hh-a", t0),
		makeRecord("r4", "hh-c", t0),
	}
	for _, r := range records {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	all, err = store.GetLatestAll(ctx)
	if err != nil {
		t.Fatalf("GetLatestAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 households, got %d", len(all))
	}

	// Ordered by household ID ASC, one latest record each
	wantIDs := []string{"hh-a", "hh-b", "hh-c"}
	for i, want := range wantIDs {
		if all[i].HouseholdID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].HouseholdID)
		}
	}
	if all[1].RecordID != "r2" {
		t.Errorf("expected latest record r2 for hh-b, got %s", all[1].RecordID)
	}
}
