package search

import (
	"slices"
	"strings"
	"time"

	"cafe_finder/internal/domain"
)

// FilterCafes keeps the cafés that satisfy every present static facet of f.
// Open-now and location are separate passes. Input order is preserved.
func FilterCafes(cafes []domain.Cafe, f domain.SearchFilters) []domain.Cafe {
	query := ""
	if f.Query != nil {
		query = strings.ToLower(strings.TrimSpace(*f.Query))
	}

	out := make([]domain.Cafe, 0, len(cafes))
	for _, c := range cafes {
		if query != "" && !strings.Contains(searchableText(c), query) {
			continue
		}
		if len(f.Amenities) > 0 && !hasAllAmenities(c.Amenities, f.Amenities) {
			continue
		}
		if len(f.PriceLevels) > 0 && !slices.Contains(f.PriceLevels, c.PriceLevel) {
			continue
		}
		if f.Rating != nil && c.Rating < *f.Rating {
			continue
		}
		if len(f.NoiseLevels) > 0 && !slices.Contains(f.NoiseLevels, c.NoiseLevel) {
			continue
		}
		if f.StudyFriendly != nil && *f.StudyFriendly && !c.StudyFriendly {
			continue
		}
		out = append(out, c)
	}
	return out
}

func searchableText(c domain.Cafe) string {
	parts := make([]string, 0, 3+len(c.Tags)+len(c.Amenities))
	parts = append(parts, c.Name, c.Description, c.Address)
	parts = append(parts, c.Tags...)
	parts = append(parts, c.Amenities...)
	return strings.ToLower(strings.Join(parts, " "))
}

// hasAllAmenities: every wanted amenity must be a substring of at least one
// of the café's amenities, ignoring case.
func hasAllAmenities(have, want []string) bool {
	for _, w := range want {
		w = strings.ToLower(w)
		found := false
		for _, h := range have {
			if strings.Contains(strings.ToLower(h), w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterOpenNow keeps cafés whose hours table says they are open at now.
func FilterOpenNow(cafes []domain.Cafe, now time.Time) []domain.Cafe {
	out := make([]domain.Cafe, 0, len(cafes))
	for _, c := range cafes {
		if IsOpenNow(c.Hours, now) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyLocation annotates each café with its distance from f.Location and,
// when a positive radius is set, drops cafés farther than the radius.
// Without a location the input is returned as a copy.
func ApplyLocation(cafes []domain.Cafe, f domain.SearchFilters) []domain.Cafe {
	if f.Location == nil {
		return slices.Clone(cafes)
	}
	radius, limited := f.Radius()

	out := make([]domain.Cafe, 0, len(cafes))
	for _, c := range cafes {
		d := Distance(f.Location.Lat, f.Location.Lng, c.Latitude, c.Longitude)
		if limited && d > radius {
			continue
		}
		c.Distance = &d
		out = append(out, c)
	}
	return out
}

// Search runs the full listing pipeline: static facets, open-now, location,
// then ranking.
func Search(cafes []domain.Cafe, f domain.SearchFilters, now time.Time) []domain.Cafe {
	out := FilterCafes(cafes, f)
	if f.WantsOpenNow() {
		out = FilterOpenNow(out, now)
	}
	out = ApplyLocation(out, f)
	return RankCafes(out, f.Location != nil)
}
