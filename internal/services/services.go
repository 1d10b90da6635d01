// package services defines interface CatalogSource for reading catalog data over HTTP
//
// SWAPI (swapi.dev and compatible mirrors)
package services

import (
	"context"
	"strconv"
	"strings"
)

// CatalogSource is a paginated upstream of planets, people and vehicles.
type CatalogSource interface {
	// Planets fetches one 1-based page of planets.
	Planets(ctx context.Context, page int) (*Page[SWAPIPlanet], error)

	// People fetches one 1-based page of characters.
	People(ctx context.Context, page int) (*Page[SWAPIPerson], error)

	// Vehicles fetches one 1-based page of vehicles.
	Vehicles(ctx context.Context, page int) (*Page[SWAPIVehicle], error)

	// Name returns the name of the source (e.g., "SWAPI")
	Name() string
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether more pages follow.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// TotalPages derives the page count from Count and the size of this page.
func (p *Page[T]) TotalPages() int {
	size := len(p.Results)
	if size == 0 || p.Count == 0 {
		return 1
	}
	return (p.Count + size - 1) / size
}

// ParseInt reads SWAPI numeric strings such as "1,000", "30-165" or "unknown".
// Ranges yield their lower bound and unparseable values yield 0.
func ParseInt(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if i := strings.IndexAny(s, "- "); i > 0 {
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseFloat reads SWAPI decimal strings such as "9.5", "1,500" or "n/a".
func ParseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// Known normalizes SWAPI placeholders ("unknown", "n/a", "none") to an empty string.
func Known(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown", "n/a", "none":
		return ""
	}
	return strings.TrimSpace(s)
}
