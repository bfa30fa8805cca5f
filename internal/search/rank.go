package search

import (
	"cmp"
	"slices"
	"strings"

	"cafe_finder/internal/domain"
)

type SortKey string

const (
	SortByRating   SortKey = "rating"
	SortByDistance SortKey = "distance"
	SortByName     SortKey = "name"
	SortByPrice    SortKey = "priceLevel"
)

// RankCafes is the listing order: nearest first when a reference location
// was given, otherwise best rated first. Ties keep input order.
func RankCafes(cafes []domain.Cafe, byDistance bool) []domain.Cafe {
	if byDistance {
		return SortCafes(cafes, SortByDistance)
	}
	return SortCafes(cafes, SortByRating)
}

// SortCafes returns a stably sorted copy. Unknown keys sort by rating.
func SortCafes(cafes []domain.Cafe, key SortKey) []domain.Cafe {
	out := slices.Clone(cafes)
	var less func(a, b domain.Cafe) int
	switch key {
	case SortByDistance:
		less = func(a, b domain.Cafe) int { return cmp.Compare(distanceOf(a), distanceOf(b)) }
	case SortByName:
		less = func(a, b domain.Cafe) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByPrice:
		less = func(a, b domain.Cafe) int { return cmp.Compare(a.PriceLevel, b.PriceLevel) }
	default:
		less = func(a, b domain.Cafe) int { return cmp.Compare(b.Rating, a.Rating) }
	}
	slices.SortStableFunc(out, less)
	return out
}

func distanceOf(c domain.Cafe) float64 {
	if c.Distance == nil {
		return 0
	}
	return *c.Distance
}
