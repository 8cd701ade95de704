package projection

import (
	"time"

	"github.com/Pravee02/HIEI/internal/datahash"
	"github.com/Pravee02/HIEI/internal/domain"
)

// BuildRecord flattens a projection outcome into the persisted household
// record shape. The record ID is a deterministic hash of (household, time),
// so replaying the same save produces the same key instead of a silent
// duplicate row.
func BuildRecord(householdID string, group domain.CohortGroup, snapshot *domain.HouseholdSnapshot, result *domain.ProjectionResult, createdAt time.Time) *domain.HouseholdRecord {
	return &domain.HouseholdRecord{
		RecordID:    datahash.ComputeRecordID(householdID, createdAt),
		HouseholdID: householdID,
		Group:       group,

		Salary:      snapshot.Salary,
		FoodSpend:   snapshot.CategorySpend[domain.CategoryFood],
		FuelSpend:   snapshot.CategorySpend[domain.CategoryFuel],
		HealthSpend: snapshot.CategorySpend[domain.CategoryHealthcare],
		FixedSpend:  snapshot.FixedSpend,

		TotalSpend:       result.TotalCurrentSpend,
		FutureTotalSpend: result.TotalFutureSpend,
		SpendStatus:      result.Status,
		MostAffected:     result.MostAffected,

		CreatedAt: createdAt.UTC(),
	}
}
