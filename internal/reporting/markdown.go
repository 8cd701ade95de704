package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Household Inflation Policy Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Observed rates
	sb.WriteString("## Latest Observed Inflation Rates\n\n")
	if len(r.LatestRates) > 0 {
		sb.WriteString("| Category | Month | Rate (%/yr) |\n")
		sb.WriteString("|----------|-------|-------------|\n")
		for _, row := range r.LatestRates {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f |\n",
				row.Category, row.Month.Format(domain.MonthLayout), row.Rate))
		}
	} else {
		sb.WriteString("No rate history loaded.\n")
	}
	sb.WriteString("\n")

	// Executive metrics
	sb.WriteString("## Household Overview\n\n")
	insights := r.Insights
	if insights == nil || !insights.HasData {
		sb.WriteString("No household data saved yet.\n\n")
		return sb.String()
	}

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Households Tracked | %d |\n", insights.TotalHouseholds))
	sb.WriteString(fmt.Sprintf("| Critical | %d (%.1f%%) |\n", insights.CriticalCount, insights.CriticalShare*100))
	sb.WriteString(fmt.Sprintf("| Stable | %d |\n", insights.StableCount))
	if insights.ModalMostAffected != domain.MostAffectedNone {
		sb.WriteString(fmt.Sprintf("| Most Affected Category | %s (%.1f%% of households) |\n",
			insights.ModalMostAffected, insights.ModalShare*100))
	} else {
		sb.WriteString("| Most Affected Category | None |\n")
	}
	sb.WriteString("\n")

	// Per-group rollups
	sb.WriteString("## Cohort Risk\n\n")
	if len(insights.Groups) > 0 {
		sb.WriteString("| Group | Households | Mean Income | Mean Impact | Mean Severity | Risk | Dominant Issue |\n")
		sb.WriteString("|-------|------------|-------------|-------------|---------------|------|----------------|\n")
		for _, g := range insights.Groups {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %s | %s |\n",
				g.Group, g.Households, g.MeanIncome, g.MeanImpact, g.MeanSeverity, g.RiskLevel, g.DominantIssue))
		}
	} else {
		sb.WriteString("No cohort groups populated.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
