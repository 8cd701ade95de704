package domain

import (
	"testing"
	"time"
)

func TestMonthOffset(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same month", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), 0},
		{"next month", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), 1},
		{"across year", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), 14},
		{"five years", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 60},
		{"backwards", time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthOffset(tt.a, tt.b); got != tt.want {
				t.Errorf("MonthOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestForecastSeries_AtClamps(t *testing.T) {
	anchor := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	series := &ForecastSeries{
		Category:    CategoryFood,
		Anchor:      anchor,
		FirstOffset: 36,
		Points: []ForecastPoint{
			{Date: AddMonths(anchor, 36), Yhat: 6.0},
			{Date: AddMonths(anchor, 37), Yhat: 6.5},
			{Date: AddMonths(anchor, 38), Yhat: 7.0},
		},
	}

	// Inside the series
	if got := series.At(37); got.Yhat != 6.5 {
		t.Errorf("At(37).Yhat = %v, want 6.5", got.Yhat)
	}

	// Before the first point clamps to the first
	if got := series.At(0); got.Yhat != 6.0 {
		t.Errorf("At(0).Yhat = %v, want 6.0", got.Yhat)
	}

	// Beyond the last point clamps to the last, and the clamp is idempotent
	last := series.At(38)
	if got := series.At(500); got != last {
		t.Errorf("At(500) = %+v, want last point %+v", got, last)
	}

	// Date lookup uses the same clamped offset math
	if got := series.AtDate(time.Date(2031, 7, 1, 0, 0, 0, 0, time.UTC)); got != last {
		t.Errorf("AtDate(far future) = %+v, want last point %+v", got, last)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil {
			t.Errorf("ParseCategory(%q) failed: %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %q", c, got)
		}
	}

	if _, err := ParseCategory("Rent"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestParseCohortGroup(t *testing.T) {
	for _, g := range CohortGroups() {
		if _, err := ParseCohortGroup(string(g)); err != nil {
			t.Errorf("ParseCohortGroup(%q) failed: %v", g, err)
		}
	}

	// Free-text labels fragment cohorts and are rejected
	if _, err := ParseCohortGroup("urban poor"); err == nil {
		t.Error("expected error for non-canonical label")
	}
}

func TestPolicyStatusSeverityScore(t *testing.T) {
	tests := []struct {
		status PolicyStatus
		want   int
	}{
		{PolicyCritical, 3},
		{PolicyWatch, 2},
		{PolicyStable, 1},
	}
	for _, tt := range tests {
		if got := tt.status.SeverityScore(); got != tt.want {
			t.Errorf("%s severity = %d, want %d", tt.status, got, tt.want)
		}
	}
}
