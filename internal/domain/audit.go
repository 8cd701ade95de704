package domain

import "time"

// ForecastAuditPoint is one archived row of a generated forecast series.
// The archive exists so that identical forecast calls (same category, same
// dataset hash) can be compared against previously persisted output.
type ForecastAuditPoint struct {
	Category    Category
	DatasetHash string
	GeneratedAt time.Time
	Offset      int // month offset of this point from the dataset anchor
	Date        time.Time
	Yhat        float64
	Lower       float64
	Upper       float64
	Degraded    bool
}

// AuditPoints flattens a forecast series into archive rows.
func AuditPoints(s *ForecastSeries, generatedAt time.Time) []*ForecastAuditPoint {
	points := make([]*ForecastAuditPoint, len(s.Points))
	for i, p := range s.Points {
		points[i] = &ForecastAuditPoint{
			Category:    s.Category,
			DatasetHash: s.DatasetHash,
			GeneratedAt: generatedAt,
			Offset:      s.FirstOffset + i,
			Date:        p.Date,
			Yhat:        p.Yhat,
			Lower:       p.Lower,
			Upper:       p.Upper,
			Degraded:    s.Degraded,
		}
	}
	return points
}
