package reporting

import (
	"fmt"
	"strings"

	"github.com/Pravee02/HIEI/internal/domain"
)

// RenderCSV renders the per-group rollups as a CSV string.
func RenderCSV(groups []domain.CohortSummary) string {
	var sb strings.Builder

	sb.WriteString("group,households,mean_income,mean_impact,mean_severity,risk_level,dominant_issue\n")

	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%s,%s\n",
			g.Group,
			g.Households,
			g.MeanIncome,
			g.MeanImpact,
			g.MeanSeverity,
			g.RiskLevel,
			g.DominantIssue,
		))
	}

	return sb.String()
}
