package search

import (
	"strings"

	"cafe_finder/internal/domain"
)

// MinSuggestQuery is the shortest query that produces suggestions.
const MinSuggestQuery = 2

// Suggest collects distinct café names, tags and amenities containing q,
// in the order they are found, capped at limit.
func Suggest(cafes []domain.Cafe, q string, limit int) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []string{}
	if len([]rune(q)) < MinSuggestQuery || limit <= 0 {
		return out
	}

	seen := make(map[string]struct{})
	add := func(s string) bool {
		if !strings.Contains(strings.ToLower(s), q) {
			return false
		}
		if _, ok := seen[s]; ok {
			return false
		}
		seen[s] = struct{}{}
		out = append(out, s)
		return len(out) >= limit
	}

	for _, c := range cafes {
		if add(c.Name) {
			return out
		}
		for _, t := range c.Tags {
			if add(t) {
				return out
			}
		}
		for _, a := range c.Amenities {
			if add(a) {
				return out
			}
		}
	}
	return out
}
