// Package reporting produces the offline policy report from stored data.
package reporting

import (
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/policy"
)

// Report is the policy report structure rendered to markdown and CSV.
type Report struct {
	GeneratedAt time.Time

	// Latest observed inflation rate per category, in canonical order.
	// Categories with no history are absent.
	LatestRates []LatestRateRow

	// Cohort aggregation over each household's latest record.
	Insights *policy.Insights
}

// LatestRateRow is one row of the observed-rates table.
type LatestRateRow struct {
	Category domain.Category
	Month    time.Time
	Rate     float64 // percent per year
}
