package models

import (
	"time"
)

const (
	AvailabilityInStock    = "In Stock"
	AvailabilityOnOrder    = "On Order"
	AvailabilityOutOfStock = "Out of Stock"
)

// ProductCategories is the fixed set of catalog categories.
var ProductCategories = []string{
	"Engine Parts",
	"Transmission",
	"Suspension",
	"Brakes",
	"Electrical",
	"Body Parts",
	"Interior",
	"Other",
}

// ValidCategory reports whether c is a known catalog category.
func ValidCategory(c string) bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidAvailability reports whether a is a known availability status.
func ValidAvailability(a string) bool {
	return a == AvailabilityInStock || a == AvailabilityOnOrder || a == AvailabilityOutOfStock
}

// Product is a catalog entry offered to buyers.
type Product struct {
	ID           string
	Name         string
	OEMNumber    string // unique manufacturer part number
	Description  string
	Price        float64
	Category     string
	Brand        string
	Images       []string // external image URLs
	Availability string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
