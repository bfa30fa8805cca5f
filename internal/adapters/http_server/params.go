package httpserver

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"cafe_finder/internal/app"
	"cafe_finder/internal/domain"
)

// parseFilters reads listing facets from the query string. Lists are
// comma-separated; numbers that fail to parse are treated as absent, and
// booleans only count when "true". A non-positive distance is rejected.
func parseFilters(q url.Values) (domain.SearchFilters, error) {
	var f domain.SearchFilters

	if s := strings.TrimSpace(q.Get("query")); s != "" {
		f.Query = &s
	}
	f.Amenities = splitList(q.Get("amenities"))
	for _, s := range splitList(q.Get("priceLevel")) {
		if n, err := strconv.Atoi(s); err == nil {
			f.PriceLevels = append(f.PriceLevels, n)
		}
	}
	for _, s := range splitList(q.Get("noiseLevel")) {
		f.NoiseLevels = append(f.NoiseLevels, domain.NoiseLevel(strings.ToLower(s)))
	}
	if v, ok := parseFloat(q.Get("rating")); ok {
		f.Rating = &v
	}
	if q.Get("studyFriendly") == "true" {
		t := true
		f.StudyFriendly = &t
	}
	if q.Get("openNow") == "true" {
		t := true
		f.OpenNow = &t
	}
	if v, ok := parseFloat(q.Get("distance")); ok {
		if v <= 0 {
			return domain.SearchFilters{}, fmt.Errorf("distance must be positive, got %v", v)
		}
		f.Distance = &v
	}
	lat, okLat := parseFloat(q.Get("lat"))
	lng, okLng := parseFloat(q.Get("lng"))
	if okLat && okLng {
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return domain.SearchFilters{}, errors.New("lat/lng out of range")
		}
		f.Location = &domain.Coords{Lat: lat, Lng: lng}
	}
	return f, nil
}

func parseReviewQuery(q url.Values) (domain.ReviewQuery, error) {
	rq := domain.ReviewQuery{Page: 1, Limit: app.DefaultReviewLimit, Sort: q.Get("sortBy")}
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return rq, errors.New("page must be a positive integer")
		}
		rq.Page = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > app.MaxReviewLimit {
			return rq, fmt.Errorf("limit must be an integer between 1 and %d", app.MaxReviewLimit)
		}
		rq.Limit = n
	}
	return rq, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseFloat rejects NaN and infinities along with unparseable input.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
