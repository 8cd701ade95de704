package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
	"github.com/Pravee02/HIEI/internal/forecast"
	"github.com/Pravee02/HIEI/internal/observability"
	"github.com/Pravee02/HIEI/internal/policy"
	"github.com/Pravee02/HIEI/internal/projection"
	"github.com/Pravee02/HIEI/internal/storage"
)

// server holds the request handlers and their dependencies.
type server struct {
	forecaster  *forecast.Forecaster
	rateStore   storage.RateHistoryStore
	recordStore storage.HouseholdRecordStore
	auditStore  storage.ForecastAuditStore // nil disables archiving

	backend   string
	startedAt time.Time
	logger    *log.Logger
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.instrument("/health", s.handleHealth))
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.instrument("/status", s.handleStatus))

	mux.HandleFunc("/api/inflation/forecast", s.instrument("/api/inflation/forecast", s.handleForecast))
	mux.HandleFunc("/api/inflation/rates", s.instrument("/api/inflation/rates", s.handleRates))
	mux.HandleFunc("/api/projection", s.instrument("/api/projection", s.handleProjection))
	mux.HandleFunc("/api/household/history", s.instrument("/api/household/history", s.handleHouseholdHistory))
	mux.HandleFunc("/api/insights", s.instrument("/api/insights", s.handleInsights))
	mux.HandleFunc("/api/cohorts", s.instrument("/api/cohorts", s.handleCohorts))

	return mux
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request metrics.
func (s *server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(recorder, r)
		observability.RecordHTTPRequest(route, strconv.Itoa(recorder.code), time.Since(start).Seconds())
	}
}

func (s *server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"backend":        s.backend,
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
	})
}

// handleForecast serves GET /api/inflation/forecast?months=N.
func (s *server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	months := 12
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid months %q", raw))
			return
		}
		months = parsed
	}

	series, err := s.forecaster.ForecastAll(r.Context(), months)
	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrInvalidHorizon):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, forecast.ErrDataUnavailable):
			s.writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			s.logger.Printf("forecast: %v", err)
			s.writeError(w, http.StatusInternalServerError, "forecast failed")
		}
		return
	}

	s.archiveForecasts(r.Context(), series)

	type forecastPayload struct {
		Degraded bool                   `json:"degraded"`
		Points   []domain.ForecastPoint `json:"points"`
	}
	payload := make(map[string]forecastPayload, len(series))
	for category, sr := range series {
		payload[string(category)] = forecastPayload{Degraded: sr.Degraded, Points: sr.Points}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"months":    months,
		"forecasts": payload,
	})
}

// handleRates serves GET /api/inflation/rates: the latest observed rate per
// category as fractions, or the fixed fallback table when history is missing.
func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	source := "observed"
	rates, err := s.forecaster.LatestRates(r.Context())
	if err != nil {
		if !errors.Is(err, forecast.ErrDataUnavailable) {
			s.logger.Printf("latest rates: %v", err)
			s.writeError(w, http.StatusInternalServerError, "rate lookup failed")
			return
		}
		rates = domain.FallbackAnnualRates
		source = "fallback"
	}

	payload := make(map[string]float64, len(rates))
	for category, rate := range rates {
		payload[string(category)] = rate
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"rates": payload, "source": source})
}

// projectionRequest is the POST /api/projection body.
type projectionRequest struct {
	HouseholdID string  `json:"household_id"`
	Group       string  `json:"group"`
	Salary      float64 `json:"salary"`
	FoodSpend   float64 `json:"food_spend"`
	FuelSpend   float64 `json:"fuel_spend"`
	HealthSpend float64 `json:"health_spend"`
	FixedSpend  float64 `json:"fixed_spend"`
	Months      int     `json:"months"`
}

// handleProjection runs a projection for one household and persists the
// outcome as that household's latest record.
func (s *server) handleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordProjectionError("bad_request")
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Months == 0 {
		req.Months = 12
	}

	group, err := s.validateProjectionRequest(&req)
	if err != nil {
		observability.RecordProjectionError("bad_request")
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	snapshot := &domain.HouseholdSnapshot{
		Salary: req.Salary,
		CategorySpend: map[domain.Category]float64{
			domain.CategoryFood:       req.FoodSpend,
			domain.CategoryFuel:       req.FuelSpend,
			domain.CategoryHealthcare: req.HealthSpend,
		},
		FixedSpend: req.FixedSpend,
		AsOf:       domain.MonthStart(now),
	}

	forecasts, err := s.loadForecasts(r.Context(), snapshot.AsOf, req.Months)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidHorizon) {
			observability.RecordProjectionError("invalid_horizon")
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		observability.RecordProjectionError("forecast_failed")
		s.logger.Printf("projection forecast: %v", err)
		s.writeError(w, http.StatusInternalServerError, "forecast failed")
		return
	}

	result, err := projection.Project(snapshot, forecasts, req.Months)
	if err != nil {
		observability.RecordProjectionError("invalid_horizon")
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	observability.RecordProjection(string(result.Status))

	record := projection.BuildRecord(req.HouseholdID, group, snapshot, result, now)
	if err := s.recordStore.Insert(r.Context(), record); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.logger.Printf("persist household record: %v", err)
		s.writeError(w, http.StatusInternalServerError, "persist failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"record_id":  record.RecordID,
		"projection": result,
	})
}

func (s *server) validateProjectionRequest(req *projectionRequest) (domain.CohortGroup, error) {
	if req.HouseholdID == "" {
		return "", errors.New("household_id is required")
	}
	group, err := domain.ParseCohortGroup(req.Group)
	if err != nil {
		return "", err
	}
	for name, v := range map[string]float64{
		"salary":       req.Salary,
		"food_spend":   req.FoodSpend,
		"fuel_spend":   req.FuelSpend,
		"health_spend": req.HealthSpend,
		"fixed_spend":  req.FixedSpend,
	} {
		if v < 0 {
			return "", fmt.Errorf("%s must be non-negative", name)
		}
	}
	return group, nil
}

// loadForecasts fetches per-category forecast series reaching the projection
// target. When history is missing entirely, flat series from the fallback
// rate table keep the projector usable.
func (s *server) loadForecasts(ctx context.Context, asOf time.Time, months int) (map[domain.Category]*domain.ForecastSeries, error) {
	series, err := s.forecaster.ForecastAll(ctx, months)
	if err == nil {
		s.archiveForecasts(ctx, series)
		return series, nil
	}
	if !errors.Is(err, forecast.ErrDataUnavailable) {
		return nil, err
	}

	fallback := make(map[domain.Category]*domain.ForecastSeries, len(domain.Categories()))
	for _, category := range domain.Categories() {
		rate := domain.FallbackAnnualRates[category] * 100
		points := make([]domain.ForecastPoint, months+1)
		for i := range points {
			points[i] = domain.ForecastPoint{
				Date:  domain.AddMonths(asOf, i),
				Yhat:  rate,
				Lower: rate,
				Upper: rate,
			}
		}
		fallback[category] = &domain.ForecastSeries{
			Category: category,
			Anchor:   asOf,
			Points:   points,
		}
	}
	return fallback, nil
}

// archiveForecasts persists generated series to the audit store when one is
// configured. Failures are logged, never surfaced: archiving is best-effort.
func (s *server) archiveForecasts(ctx context.Context, series map[domain.Category]*domain.ForecastSeries) {
	if s.auditStore == nil {
		return
	}
	generatedAt := time.Now().UTC()
	for _, sr := range series {
		if err := s.auditStore.InsertBulk(ctx, domain.AuditPoints(sr, generatedAt)); err != nil &&
			!errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Printf("archive %s forecast: %v", sr.Category, err)
		}
	}
}

// handleHouseholdHistory serves GET /api/household/history?id=X.
func (s *server) handleHouseholdHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	householdID := r.URL.Query().Get("id")
	if householdID == "" {
		s.writeError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	history, err := s.recordStore.GetHistory(r.Context(), householdID)
	if err != nil {
		s.logger.Printf("household history: %v", err)
		s.writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"household_id": householdID,
		"records":      historyPayload(history),
	})
}

// handleInsights serves GET /api/insights: the full cohort aggregation.
func (s *server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, ok := s.aggregate(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, insights)
}

// handleCohorts serves GET /api/cohorts: per-group rollups only.
func (s *server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	insights, ok := s.aggregate(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"has_data": insights.HasData,
		"groups":   insights.Groups,
	})
}

func (s *server) aggregate(w http.ResponseWriter, r *http.Request) (*policy.Insights, bool) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET only")
		return nil, false
	}

	records, err := s.recordStore.GetLatestAll(r.Context())
	if err != nil {
		s.logger.Printf("latest records: %v", err)
		s.writeError(w, http.StatusInternalServerError, "aggregation failed")
		return nil, false
	}
	return policy.Aggregate(records), true
}

// recordPayload is the JSON shape of one persisted household record.
type recordPayload struct {
	RecordID         string  `json:"record_id"`
	Group            string  `json:"group"`
	Salary           float64 `json:"salary"`
	FoodSpend        float64 `json:"food_spend"`
	FuelSpend        float64 `json:"fuel_spend"`
	HealthSpend      float64 `json:"health_spend"`
	FixedSpend       float64 `json:"fixed_spend"`
	TotalSpend       float64 `json:"total_spend"`
	FutureTotalSpend float64 `json:"future_total_spend"`
	SpendStatus      string  `json:"spend_status"`
	MostAffected     string  `json:"most_affected_category"`
	CreatedAt        string  `json:"created_at"`
}

func historyPayload(records []*domain.HouseholdRecord) []recordPayload {
	payload := make([]recordPayload, len(records))
	for i, r := range records {
		payload[i] = recordPayload{
			RecordID:         r.RecordID,
			Group:            string(r.Group),
			Salary:           r.Salary,
			FoodSpend:        r.FoodSpend,
			FuelSpend:        r.FuelSpend,
			HealthSpend:      r.HealthSpend,
			FixedSpend:       r.FixedSpend,
			TotalSpend:       r.TotalSpend,
			FutureTotalSpend: r.FutureTotalSpend,
			SpendStatus:      string(r.SpendStatus),
			MostAffected:     r.MostAffected,
			CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		}
	}
	return payload
}
