// Package ingestion loads historical inflation rates into the rate history
// store, either from CSV files or from the synthetic generator.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Pravee02/HIEI/internal/domain"
)

// csvDateLayouts are accepted date formats, most specific first. Exported
// datasets carry full dates on month boundaries; hand-written files often
// carry just the month.
var csvDateLayouts = []string{
	"2006-01-02",
	domain.MonthLayout,
}

// ReadRateCSV parses rate observations from CSV with a date,category,rate
// header. Dates are truncated to month start; unknown categories are an
// error, not a skip, so a typo cannot silently drop a series.
func ReadRateCSV(r io.Reader) ([]*domain.RateRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []*domain.RateRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		date, err := parseCSVDate(row[cols.date])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		category, err := domain.ParseCategory(strings.TrimSpace(row[cols.category]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(row[cols.rate]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse rate %q: %w", line, row[cols.rate], err)
		}

		records = append(records, &domain.RateRecord{
			Date:     domain.MonthStart(date),
			Category: category,
			Rate:     rate,
		})
	}

	return records, nil
}

type columnIndex struct {
	date, category, rate int
}

func mapColumns(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, category: -1, rate: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "category":
			cols.category = i
		case "rate":
			cols.rate = i
		}
	}
	if cols.date < 0 || cols.category < 0 || cols.rate < 0 {
		return cols, fmt.Errorf("csv header missing date/category/rate columns: %v", header)
	}
	return cols, nil
}

func parseCSVDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", raw)
}
