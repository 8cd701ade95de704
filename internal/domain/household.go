package domain

import "time"

// SpendStatus is the household-facing savings status derived from a live
// projection. It is computed from projected savings against salary and is
// intentionally separate from PolicyStatus, which is derived at aggregation
// time from persisted records with different thresholds.
type SpendStatus string

const (
	// StatusSurplus: projected savings at or above 10% of salary.
	StatusSurplus SpendStatus = "SURPLUS"
	// StatusAtRisk: projected savings non-negative but below 10% of salary.
	StatusAtRisk SpendStatus = "AT_RISK"
	// StatusDeficit: projected savings negative.
	StatusDeficit SpendStatus = "DEFICIT"
)

// MostAffectedNone is reported when no category's projected cost increased.
const MostAffectedNone = "None"

// HouseholdSnapshot is the caller-owned input to a projection: current
// monthly finances as of a given date.
type HouseholdSnapshot struct {
	Salary        float64
	CategorySpend map[Category]float64
	FixedSpend    float64 // EMI and other inflation-insensitive spend
	AsOf          time.Time
}

// TotalCurrentSpend sums variable category spend plus fixed spend.
func (s *HouseholdSnapshot) TotalCurrentSpend() float64 {
	total := s.FixedSpend
	for _, c := range Categories() {
		total += s.CategorySpend[c]
	}
	return total
}

// CategoryProjection is the projected future cost for one expense category.
type CategoryProjection struct {
	FutureCost        float64 `json:"future_cost"`
	AppliedAnnualRate float64 `json:"applied_annual_rate"` // percent per year
}

// ProjectionResult is the output of one projection call. It is created fresh
// per call; persistence is the caller's responsibility.
type ProjectionResult struct {
	HorizonMonths     int                             `json:"horizon_months"`
	Categories        map[Category]CategoryProjection `json:"categories"`
	TotalCurrentSpend float64                         `json:"total_current_spend"`
	TotalFutureSpend  float64                         `json:"total_future_spend"`
	ExtraCost         float64                         `json:"extra_cost"`
	ProjectedSavings  float64                         `json:"projected_savings"`
	Status            SpendStatus                     `json:"status"`
	MostAffected      string                          `json:"most_affected_category"`
}

// HouseholdRecord is a persisted projection outcome for one household, the
// unit the policy layer aggregates over. Mirrors the snapshot inputs plus
// the projection totals.
type HouseholdRecord struct {
	RecordID    string
	HouseholdID string
	Group       CohortGroup

	Salary      float64
	FoodSpend   float64
	FuelSpend   float64
	HealthSpend float64
	FixedSpend  float64

	TotalSpend       float64
	FutureTotalSpend float64
	SpendStatus      SpendStatus
	MostAffected     string

	CreatedAt time.Time
}
