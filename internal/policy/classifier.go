// Package policy classifies persisted household records for the policy
// dashboard and rolls them up into cohort-level risk summaries. Both
// operations are pure functions over their inputs.
package policy

import "github.com/Pravee02/HIEI/internal/domain"

// WatchlistSalaryShare is the fraction of salary above which projected spend
// puts a household on the watchlist.
const WatchlistSalaryShare = 0.9

// Classify derives the policy status of a saved household record. The
// thresholds compare projected future spend against salary directly and are
// deliberately separate from the household-facing SURPLUS/AT_RISK/DEFICIT
// labels stored on the record itself.
func Classify(record *domain.HouseholdRecord) domain.PolicyStatus {
	switch {
	case record.FutureTotalSpend > record.Salary:
		return domain.PolicyCritical
	case record.FutureTotalSpend > WatchlistSalaryShare*record.Salary:
		return domain.PolicyWatch
	default:
		return domain.PolicyStable
	}
}
