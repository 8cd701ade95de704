package domain

import "fmt"

// Category is one of the tracked household expense classes.
type Category string

// Tracked expense categories, in canonical order.
const (
	CategoryFood       Category = "Food"
	CategoryFuel       Category = "Fuel"
	CategoryHealthcare Category = "Healthcare"
)

// Categories returns all tracked categories in canonical order.
// Order matters: tie-breaks in projection and aggregation resolve to the
// first category in this order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryFuel, CategoryHealthcare}
}

// ParseCategory validates a raw category label.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFood, CategoryFuel, CategoryHealthcare:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// FallbackAnnualRates are the fixed fraction-per-year rates used when the
// historical dataset is unavailable.
var FallbackAnnualRates = map[Category]float64{
	CategoryFood:       0.08,
	CategoryFuel:       0.06,
	CategoryHealthcare: 0.10,
}
