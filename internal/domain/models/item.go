package models

import (
	"strings"
	"time"
)

// Category enumerates the shelves an item can be stocked under.
type Category string

const (
	CategoryStationary  Category = "stationary"
	CategoryElectronics Category = "electronics"
	CategoryAccessories Category = "accessories"
	CategoryOther       Category = "other"
)

// Categories lists every supported category in display order.
var Categories = []Category{
	CategoryStationary,
	CategoryElectronics,
	CategoryAccessories,
	CategoryOther,
}

// ParseCategory normalizes a caller-supplied category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, c := range Categories {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// Item is one catalog entry. Stock never goes below zero.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	InitialStock int       `json:"initialStock,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ItemInput carries the editable fields of an item.
type ItemInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// ItemFilter narrows catalog listings.
type ItemFilter struct {
	Search   string
	Category string
}

// Matches reports whether the item satisfies the filter. An empty or "all"
// category matches every item.
func (f ItemFilter) Matches(item Item) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, "all") && !strings.EqualFold(f.Category, string(item.Category)) {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), strings.ToLower(strings.TrimSpace(f.Search)))
}
