package domain

import "fmt"

// CohortGroup is a household-declared demographic bucket used for aggregate
// policy reporting. The set is closed: free-text labels fragment cohorts, so
// unknown labels are rejected at the boundary.
type CohortGroup string

// Declared household groups, in report order.
const (
	GroupUrbanPoor CohortGroup = "Urban Poor"
	GroupUrbanRich CohortGroup = "Urban Rich"
	GroupRuralPoor CohortGroup = "Rural Poor"
	GroupRuralRich CohortGroup = "Rural Rich"
)

// CohortGroups returns all declared groups in report order.
func CohortGroups() []CohortGroup {
	return []CohortGroup{GroupUrbanPoor, GroupUrbanRich, GroupRuralPoor, GroupRuralRich}
}

// ParseCohortGroup validates a raw group label.
func ParseCohortGroup(s string) (CohortGroup, error) {
	switch CohortGroup(s) {
	case GroupUrbanPoor, GroupUrbanRich, GroupRuralPoor, GroupRuralRich:
		return CohortGroup(s), nil
	}
	return "", fmt.Errorf("unknown cohort group %q", s)
}

// PolicyStatus is the policy-facing classification of a persisted household
// record. Thresholds compare future spend against salary directly and are
// independent of the household-facing SpendStatus taxonomy.
type PolicyStatus string

const (
	PolicyStable   PolicyStatus = "Stable"
	PolicyWatch    PolicyStatus = "Watchlist"
	PolicyCritical PolicyStatus = "Critical"
)

// SeverityScore encodes the status as a small integer for averaging across
// a cohort: Critical=3, Watchlist=2, Stable=1.
func (p PolicyStatus) SeverityScore() int {
	switch p {
	case PolicyCritical:
		return 3
	case PolicyWatch:
		return 2
	default:
		return 1
	}
}

// RiskLevel is the derived cohort-level risk band.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// CohortSummary is the per-group rollup recomputed on each aggregation
// request from the households' latest records.
type CohortSummary struct {
	Group         CohortGroup `json:"group_id"`
	Households    int         `json:"households"`
	MeanIncome    float64     `json:"mean_income"`
	MeanImpact    float64     `json:"mean_impact"` // mean(future_spend - current_spend)
	MeanSeverity  float64     `json:"mean_severity"`
	RiskLevel     RiskLevel   `json:"risk_level"`
	DominantIssue string      `json:"dominant_issue"`
}
