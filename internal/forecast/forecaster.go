// Package forecast fits per-category seasonal-trend models to historical
// monthly inflation rates and produces forward rate series with uncertainty
// bands. Fits are deterministic: identical history yields identical output.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pravee02/HIEI/internal/datahash"
	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/observability"
	"github.com/Pravee02/HIEI/internal/storage"
)

// HistoryTailMonths is how much trailing observed history a forecast series
// includes ahead of the forward horizon, so callers can display continuity
// between recent actuals and the forecast.
const HistoryTailMonths = 24

// MaxHorizonMonths bounds a forecast request. Horizons beyond ten years are
// rejected rather than clamped; the caller asked for something absurd.
const MaxHorizonMonths = 120

// Errors returned by the forecaster.
var (
	// ErrDataUnavailable means the historical dataset is missing or empty.
	// Callers recover by substituting domain.FallbackAnnualRates.
	ErrDataUnavailable = errors.New("rate history unavailable")

	// ErrInvalidHorizon means the requested horizon is non-positive or
	// beyond MaxHorizonMonths.
	ErrInvalidHorizon = errors.New("invalid forecast horizon")
)

// Forecaster produces per-category forecast series from a rate history
// store. Fitted models are memoized per dataset content hash: refitting on
// every call is pure waste, and a changed dataset changes the key.
type Forecaster struct {
	rateStore storage.RateHistoryStore

	mu    sync.Mutex
	cache map[string]*fittedModel // keyed by dataset hash
}

// NewForecaster creates a forecaster over the given rate history store.
func NewForecaster(rateStore storage.RateHistoryStore) *Forecaster {
	return &Forecaster{
		rateStore: rateStore,
		cache:     make(map[string]*fittedModel),
	}
}

// Forecast fits (or reuses) the category model and returns a series covering
// the trailing HistoryTailMonths of observed history plus horizonMonths of
// forecast. Returns ErrDataUnavailable when the category has no history and
// ErrInvalidHorizon for a non-positive or oversized horizon.
func (f *Forecaster) Forecast(ctx context.Context, category domain.Category, horizonMonths int) (*domain.ForecastSeries, error) {
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	if horizonMonths <= 0 || horizonMonths > MaxHorizonMonths {
		return nil, fmt.Errorf("%w: %d months (want 1..%d)", ErrInvalidHorizon, horizonMonths, MaxHorizonMonths)
	}

	records, err := f.rateStore.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load rate history for %s: %w", category, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no %s observations", ErrDataUnavailable, category)
	}

	hash := datahash.ComputeDatasetHash(category, records)
	model := f.fitCached(category, hash, records)

	firstOffset := model.lastOffset + 1 - HistoryTailMonths
	if firstOffset < 0 {
		firstOffset = 0
	}
	lastOffset := model.lastOffset + horizonMonths

	points := make([]domain.ForecastPoint, 0, lastOffset-firstOffset+1)
	for offset := firstOffset; offset <= lastOffset; offset++ {
		points = append(points, model.predict(offset))
	}

	return &domain.ForecastSeries{
		Category:    category,
		Anchor:      model.anchor,
		FirstOffset: firstOffset,
		Degraded:    model.degraded,
		DatasetHash: hash,
		Points:      points,
	}, nil
}

// ForecastAll runs Forecast for every tracked category.
func (f *Forecaster) ForecastAll(ctx context.Context, horizonMonths int) (map[domain.Category]*domain.ForecastSeries, error) {
	result := make(map[domain.Category]*domain.ForecastSeries, len(domain.Categories()))
	for _, category := range domain.Categories() {
		series, err := f.Forecast(ctx, category, horizonMonths)
		if err != nil {
			return nil, err
		}
		result[category] = series
	}
	return result, nil
}

// LatestRate returns the most recently observed rate for the category as a
// fraction per year (8.0% becomes 0.08). Returns ErrDataUnavailable when the
// category has no history; callers substitute the fallback table.
func (f *Forecaster) LatestRate(ctx context.Context, category domain.Category) (float64, error) {
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return 0, err
	}

	latest, err := f.rateStore.GetLatest(ctx, category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%w: no %s observations", ErrDataUnavailable, category)
		}
		return 0, fmt.Errorf("load latest rate for %s: %w", category, err)
	}

	return latest.Rate / 100.0, nil
}

// LatestRates returns the latest observed rate for every tracked category as
// fractions. Fails with ErrDataUnavailable if any category has no history,
// so callers fall back to the whole fixed table rather than mixing sources.
func (f *Forecaster) LatestRates(ctx context.Context) (map[domain.Category]float64, error) {
	result := make(map[domain.Category]float64, len(domain.Categories()))
	for _, category := range domain.Categories() {
		rate, err := f.LatestRate(ctx, category)
		if err != nil {
			return nil, err
		}
		result[category] = rate
	}
	return result, nil
}

// fitCached returns the memoized model for the dataset hash, fitting on miss.
func (f *Forecaster) fitCached(category domain.Category, hash string, records []*domain.RateRecord) *fittedModel {
	f.mu.Lock()
	defer f.mu.Unlock()

	if model, ok := f.cache[hash]; ok {
		observability.RecordForecastCache(true)
		return model
	}
	observability.RecordForecastCache(false)

	start := time.Now()
	model := fitModel(records)
	observability.RecordForecastFit(string(category), model.degraded, time.Since(start).Seconds())

	f.cache[hash] = model
	return model
}
