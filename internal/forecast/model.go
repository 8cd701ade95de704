package forecast

import (
	"math"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
)

// MinFitObservations is the minimum history length for confident bounds.
// Shorter series still fit, but the model is flagged degraded and its
// uncertainty band widened.
const MinFitObservations = 24

// zInterval80 is the normal quantile for an 80% central interval, the
// interval width the bands are calibrated to.
const zInterval80 = 1.2816

// degradedBandMultiplier widens the band when history is too short for the
// residual variance to be trusted.
const degradedBandMultiplier = 2.0

// fittedModel is an additive seasonal-trend decomposition of one category's
// monthly rate series: a least-squares linear trend over the month index
// plus a centered per-calendar-month seasonal term. The fit is closed-form,
// so identical input always produces identical forecasts.
type fittedModel struct {
	anchor    time.Time // first observed month; offsets count from here
	lastOffset int      // month offset of the last observation
	slope     float64
	intercept float64
	seasonal  [domain.MonthsPerYear]float64 // indexed by calendar month - 1
	sigma     float64                       // residual sample stddev
	degraded  bool
}

// fitModel fits the decomposition to a chronologically ordered series.
// Records must be non-empty; the caller validates availability.
func fitModel(records []*domain.RateRecord) *fittedModel {
	n := len(records)
	anchor := domain.MonthStart(records[0].Date)

	m := &fittedModel{
		anchor:     anchor,
		lastOffset: domain.MonthOffset(anchor, records[n-1].Date),
		degraded:   n < MinFitObservations,
	}

	offsets := make([]float64, n)
	rates := make([]float64, n)
	for i, r := range records {
		offsets[i] = float64(domain.MonthOffset(anchor, r.Date))
		rates[i] = r.Rate
	}

	m.slope, m.intercept = fitTrend(offsets, rates)

	// Seasonal terms: per-calendar-month mean of detrended residuals,
	// centered so the in-sample seasonal mean is zero.
	var seasonalSum, seasonalCount [domain.MonthsPerYear]float64
	for i, r := range records {
		residual := rates[i] - (m.intercept + m.slope*offsets[i])
		idx := int(r.Date.Month()) - 1
		seasonalSum[idx] += residual
		seasonalCount[idx]++
	}
	for idx := range m.seasonal {
		if seasonalCount[idx] > 0 {
			m.seasonal[idx] = seasonalSum[idx] / seasonalCount[idx]
		}
	}
	center := 0.0
	for _, r := range records {
		center += m.seasonal[int(r.Date.Month())-1]
	}
	center /= float64(n)
	for idx := range m.seasonal {
		m.seasonal[idx] -= center
	}

	// Residual spread after trend and seasonality drives the band width.
	sumSq := 0.0
	for i, r := range records {
		e := rates[i] - (m.intercept + m.slope*offsets[i]) - m.seasonal[int(r.Date.Month())-1]
		sumSq += e * e
	}
	if n >= 2 {
		m.sigma = math.Sqrt(sumSq / float64(n-1))
	}

	return m
}

// fitTrend computes the least-squares line over (offset, rate) pairs.
// A single observation yields a flat line through it.
func fitTrend(offsets, rates []float64) (slope, intercept float64) {
	n := float64(len(rates))
	if len(rates) == 1 {
		return 0, rates[0]
	}

	var sumX, sumY float64
	for i := range rates {
		sumX += offsets[i]
		sumY += rates[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i := range rates {
		dx := offsets[i] - meanX
		num += dx * (rates[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}

	slope = num / den
	intercept = meanY - slope*meanX
	return slope, intercept
}

// predict returns the point estimate and band for a month offset from the
// model's anchor.
func (m *fittedModel) predict(offset int) domain.ForecastPoint {
	date := domain.AddMonths(m.anchor, offset)
	yhat := m.intercept + m.slope*float64(offset) + m.seasonal[int(date.Month())-1]

	half := zInterval80 * m.sigma
	if m.degraded {
		half *= degradedBandMultiplier
	}

	return domain.ForecastPoint{
		Date:  date,
		Yhat:  yhat,
		Lower: yhat - half,
		Upper: yhat + half,
	}
}
