// Package projection converts a household's current spending into projected
// future spending under forecast inflation rates. Project is a pure function
// of its inputs; persistence belongs to the caller.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/Pravee02/HIEI/internal/domain"
)

// AtRiskSavingsShare is the savings-to-salary threshold below which a
// non-negative projection is still flagged at risk.
const AtRiskSavingsShare = 0.10

// ErrInvalidHorizon means the requested projection horizon is non-positive.
var ErrInvalidHorizon = errors.New("invalid projection horizon")

// Project maps the snapshot's spending to the target date
// AsOf + horizonMonths using the per-category forecast series.
//
// The rate applied to a category is the annualized point estimate at the
// target date's month offset from the series anchor, clamped to the series
// boundaries: the forecast horizon is finite and the projector must stay
// defined for any requested horizon. A category with no forecast series
// keeps its current cost (rate 0).
//
// Future cost is compound annual growth applied fractionally for partial
// years: future = current * (1 + rate/100)^(months/12). Fixed spend is
// inflation-insensitive and passes through unchanged.
func Project(snapshot *domain.HouseholdSnapshot, forecasts map[domain.Category]*domain.ForecastSeries, horizonMonths int) (*domain.ProjectionResult, error) {
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("%w: %d months", ErrInvalidHorizon, horizonMonths)
	}

	target := domain.AddMonths(snapshot.AsOf, horizonMonths)
	years := float64(horizonMonths) / float64(domain.MonthsPerYear)

	categories := make(map[domain.Category]domain.CategoryProjection, len(domain.Categories()))
	totalCurrent := snapshot.FixedSpend
	totalFuture := snapshot.FixedSpend

	for _, category := range domain.Categories() {
		spend := snapshot.CategorySpend[category]

		rate := 0.0
		if series, ok := forecasts[category]; ok && len(series.Points) > 0 {
			rate = series.AtDate(target).Yhat
		}

		future := spend * math.Pow(1+rate/100.0, years)
		categories[category] = domain.CategoryProjection{
			FutureCost:        future,
			AppliedAnnualRate: rate,
		}

		totalCurrent += spend
		totalFuture += future
	}

	savings := snapshot.Salary - totalFuture

	var status domain.SpendStatus
	switch {
	case snapshot.Salary == 0:
		// Savings ratio is undefined at zero salary; the household is in
		// deficit by the full projected spend.
		savings = -totalFuture
		status = domain.StatusDeficit
	case savings < 0:
		status = domain.StatusDeficit
	case savings < AtRiskSavingsShare*snapshot.Salary:
		status = domain.StatusAtRisk
	default:
		status = domain.StatusSurplus
	}

	return &domain.ProjectionResult{
		HorizonMonths:     horizonMonths,
		Categories:        categories,
		TotalCurrentSpend: totalCurrent,
		TotalFutureSpend:  totalFuture,
		ExtraCost:         totalFuture - totalCurrent,
		ProjectedSavings:  savings,
		Status:            status,
		MostAffected:      mostAffected(snapshot, categories),
	}, nil
}

// mostAffected returns the category with the largest projected cost
// increase. Ties between equal positive increases resolve to the first
// category in canonical order; if nothing got more expensive the answer is
// "None", never an arbitrary category.
func mostAffected(snapshot *domain.HouseholdSnapshot, categories map[domain.Category]domain.CategoryProjection) string {
	best := domain.MostAffectedNone
	bestIncrease := 0.0

	for _, category := range domain.Categories() {
		increase := categories[category].FutureCost - snapshot.CategorySpend[category]
		if increase > 0 && increase > bestIncrease {
			best = string(category)
			bestIncrease = increase
		}
	}

	return best
}
