package model

import "time"

// Category classifies a product.
type Category string

// Valid product categories.
const (
	CategoryBeverage Category = "Beverage"
	CategoryMeal     Category = "Meal"
	CategorySnack    Category = "Snack"
	CategoryOther    Category = "Other"
)

// Categories lists all valid product categories in display order.
var Categories = []Category{CategoryBeverage, CategoryMeal, CategorySnack, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBeverage, CategoryMeal, CategorySnack, CategoryOther:
		return true
	}
	return false
}

// Location tags a concession with where it operates relative to the terminal.
type Location string

// Valid concession locations.
const (
	LocationAirside  Location = "Airside"
	LocationLandside Location = "Landside"
	LocationCity     Location = "City"
)

// Locations lists all valid locations in display order.
var Locations = []Location{LocationAirside, LocationLandside, LocationCity}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	switch l {
	case LocationAirside, LocationLandside, LocationCity:
		return true
	}
	return false
}

// Product represents a benchmarked product (e.g. a bottle of water, a coffee).
// Names are unique and case-sensitive.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  Category  `json:"category" db:"category"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Concession represents a vendor outlet selling products at or around the airport.
type Concession struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Location  Location  `json:"location" db:"location"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Price is a single immutable price observation for a product at a concession
// on a given date. Multiple observations may exist for the same pair at
// different (or even identical) dates. Product and Concession carry resolved
// names, not raw foreign keys; ID is the insertion sequence and is used as the
// deterministic tie-break when two observations share a date.
type Price struct {
	ID         int64     `json:"id" db:"id"`
	Product    string    `json:"product" db:"product"`
	Concession string    `json:"concession" db:"concession"`
	Amount     float64   `json:"amount" db:"amount"`
	Date       time.Time `json:"date" db:"effective_date"`
	Notes      string    `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// DateLayout is the wire and export format for observation dates.
const DateLayout = "2006-01-02"
