package search_test

import (
	"math"
	"testing"

	"cafe_finder/internal/search"
)

// milesToLatDegrees converts a north-south distance to degrees of latitude.
func milesToLatDegrees(miles float64) float64 {
	return miles / (search.EarthRadiusMiles * math.Pi / 180)
}

func TestDistance_SymmetricAndZero(t *testing.T) {
	points := [][2]float64{
		{40.7128, -74.0060},
		{34.0522, -118.2437},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{0, 0},
	}
	for _, a := range points {
		if d := search.Distance(a[0], a[1], a[0], a[1]); d != 0 {
			t.Fatalf("distance(a,a) = %v for %v", d, a)
		}
		for _, b := range points {
			ab := search.Distance(a[0], a[1], b[0], b[1])
			ba := search.Distance(b[0], b[1], a[0], a[1])
			if math.Abs(ab-ba) > 1e-9 {
				t.Fatalf("asymmetric: %v vs %v for %v %v", ab, ba, a, b)
			}
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	// one degree of latitude along a meridian
	d := search.Distance(0, 0, 1, 0)
	want := search.EarthRadiusMiles * math.Pi / 180
	if math.Abs(d-want) > 1e-6 {
		t.Fatalf("got %v want %v", d, want)
	}

	// New York -> Los Angeles is roughly 2445 miles
	nyla := search.Distance(40.7128, -74.0060, 34.0522, -118.2437)
	if nyla < 2400 || nyla > 2500 {
		t.Fatalf("NY-LA out of range: %v", nyla)
	}

	if got := search.Distance(0, 0, milesToLatDegrees(5), 0); math.Abs(got-5) > 1e-6 {
		t.Fatalf("expected 5 miles, got %v", got)
	}
}
