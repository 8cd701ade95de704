package domain

import "time"

// ForecastPoint is one month of a category forecast: the point estimate and
// uncertainty band, all in percent annualized inflation.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Yhat  float64   `json:"point_estimate"`
	Lower float64   `json:"lower_bound"`
	Upper float64   `json:"upper_bound"`
}

// ForecastSeries is an ordered monthly sequence of forecast points for one
// category: fitted values over the tail of observed history followed by the
// forward horizon. A fresh series is generated per forecast request and
// discarded by the caller; it holds no references into the fitted model.
//
// The series is anchored to the first date of the historical dataset so that
// callers can map an arbitrary target date to a point by month offset.
// Points[0] sits FirstOffset months after Anchor.
type ForecastSeries struct {
	Category    Category
	Anchor      time.Time // first date in the historical dataset
	FirstOffset int       // month offset of Points[0] from Anchor
	Degraded    bool      // fitted on too little history for confident bounds
	DatasetHash string    // content hash of the history the fit consumed
	Points      []ForecastPoint
}

// At returns the point for the given month offset from Anchor, clamping to
// the series boundaries. The forecast horizon is finite; clamping keeps the
// lookup defined for any requested offset.
func (s *ForecastSeries) At(offset int) ForecastPoint {
	idx := offset - s.FirstOffset
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.Points)-1 {
		idx = len(s.Points) - 1
	}
	return s.Points[idx]
}

// AtDate returns the clamped point for a target calendar date.
func (s *ForecastSeries) AtDate(target time.Time) ForecastPoint {
	return s.At(MonthOffset(s.Anchor, target))
}
