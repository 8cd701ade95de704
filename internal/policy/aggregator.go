package policy

import (
	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/observability"
)

// Cohort risk bands over the group's mean severity score.
const (
	highRiskSeverity   = 2.5
	mediumRiskSeverity = 1.5
)

// Insights is the system-wide aggregation over each household's latest
// record: executive metrics plus per-group rollups.
//
// HasData distinguishes "zero critical out of zero households" from "zero
// critical out of many"; when it is false every other field is zero-valued
// and must not be rendered as a real summary.
type Insights struct {
	HasData bool `json:"has_data"`

	TotalHouseholds int     `json:"total_households"`
	CriticalCount   int     `json:"critical_count"`
	CriticalShare   float64 `json:"critical_share"` // fraction of tracked households
	StableCount     int     `json:"stable_count"`

	// Modal most-affected category across households that reported a
	// category increase, and the fraction of those households sharing it.
	ModalMostAffected string  `json:"modal_most_affected"`
	ModalShare        float64 `json:"modal_share"`

	Groups []domain.CohortSummary `json:"groups"`
}

// Aggregate recomputes policy insights from the given latest-per-household
// records. The input is read-only; callers fetch it from the record store.
//
// Groups appear in declared report order and only when they have at least one
// household. An empty input yields the explicit no-data state.
func Aggregate(records []*domain.HouseholdRecord) *Insights {
	observability.RecordAggregation(len(records))

	if len(records) == 0 {
		return &Insights{HasData: false, ModalMostAffected: domain.MostAffectedNone}
	}

	insights := &Insights{
		HasData:         true,
		TotalHouseholds: len(records),
	}

	byGroup := make(map[domain.CohortGroup][]*domain.HouseholdRecord)
	affectedCounts := make(map[domain.Category]int)
	affectedTotal := 0

	for _, record := range records {
		switch Classify(record) {
		case domain.PolicyCritical:
			insights.CriticalCount++
		case domain.PolicyStable:
			insights.StableCount++
		}

		byGroup[record.Group] = append(byGroup[record.Group], record)

		if category, err := domain.ParseCategory(record.MostAffected); err == nil {
			affectedCounts[category]++
			affectedTotal++
		}
	}

	insights.CriticalShare = float64(insights.CriticalCount) / float64(len(records))
	insights.ModalMostAffected, insights.ModalShare = modalCategory(affectedCounts, affectedTotal)

	for _, group := range domain.CohortGroups() {
		members := byGroup[group]
		if len(members) == 0 {
			continue
		}
		insights.Groups = append(insights.Groups, summarizeGroup(group, members))
	}

	return insights
}

// summarizeGroup computes the per-group rollup. Risk level is banded on the
// mean severity score of the members' policy statuses.
func summarizeGroup(group domain.CohortGroup, members []*domain.HouseholdRecord) domain.CohortSummary {
	var incomeSum, impactSum float64
	severitySum := 0
	affectedCounts := make(map[domain.Category]int)
	affectedTotal := 0

	for _, record := range members {
		incomeSum += record.Salary
		impactSum += record.FutureTotalSpend - record.TotalSpend
		severitySum += Classify(record).SeverityScore()

		if category, err := domain.ParseCategory(record.MostAffected); err == nil {
			affectedCounts[category]++
			affectedTotal++
		}
	}

	n := float64(len(members))
	meanSeverity := float64(severitySum) / n

	var risk domain.RiskLevel
	switch {
	case meanSeverity > highRiskSeverity:
		risk = domain.RiskHigh
	case meanSeverity > mediumRiskSeverity:
		risk = domain.RiskMedium
	default:
		risk = domain.RiskLow
	}

	dominant, _ := modalCategory(affectedCounts, affectedTotal)

	return domain.CohortSummary{
		Group:         group,
		Households:    len(members),
		MeanIncome:    incomeSum / n,
		MeanImpact:    impactSum / n,
		MeanSeverity:  meanSeverity,
		RiskLevel:     risk,
		DominantIssue: dominant,
	}
}

// modalCategory picks the most frequent category; ties resolve to the first
// category in canonical order so repeated aggregations agree. With no counted
// households at all the mode is "None".
func modalCategory(counts map[domain.Category]int, total int) (string, float64) {
	if total == 0 {
		return domain.MostAffectedNone, 0
	}

	best := domain.MostAffectedNone
	bestCount := 0
	for _, category := range domain.Categories() {
		if counts[category] > bestCount {
			best = string(category)
			bestCount = counts[category]
		}
	}

	return best, float64(bestCount) / float64(total)
}
