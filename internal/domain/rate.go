package domain

import "time"

// MonthLayout is the month-granularity date format used in rate history
// files and report output.
const MonthLayout = "2006-01"

// MonthsPerYear is used for annualized rate conversions.
const MonthsPerYear = 12

// RateRecord is one observed inflation rate: percent-per-year for a category
// at a month-granularity date. Records are immutable and ordered
// chronologically per category with monthly cadence.
type RateRecord struct {
	Date     time.Time // first day of the observation month, UTC
	Category Category
	Rate     float64 // percent annualized, e.g. 8.25 means 8.25%/year
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthOffset returns the number of whole months from a to b.
// Negative when b precedes a.
func MonthOffset(a, b time.Time) int {
	return (b.Year()-a.Year())*MonthsPerYear + int(b.Month()) - int(a.Month())
}

// AddMonths returns the month-start date n months after t.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}
