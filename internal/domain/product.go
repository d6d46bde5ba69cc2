package domain

import "time"

// Product is a catalog entry. THCMgPerUnit is zero for non-THC items
// (accessories, CBD-only goods); the dosage aggregator treats those as
// contributing nothing to the daily total.
type Product struct {
	ID           string
	DispensaryID string
	Name         string
	Category     string
	PriceCents   int64
	THCMgPerUnit float64
	Active       bool
	CreatedAt    time.Time
}
