package search_test

import (
	"reflect"
	"testing"

	"cafe_finder/internal/domain"
	"cafe_finder/internal/search"
)

func TestRankCafes_ByRatingDescStable(t *testing.T) {
	in := []domain.Cafe{
		{ID: "a", Rating: 4.0},
		{ID: "b", Rating: 4.5},
		{ID: "c", Rating: 4.0},
		{ID: "d", Rating: 3.0},
	}
	got := search.RankCafes(in, false)
	if !reflect.DeepEqual(ids(got), []string{"b", "a", "c", "d"}) {
		t.Fatalf("got %v", ids(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Rating > got[i-1].Rating {
			t.Fatalf("not non-increasing at %d", i)
		}
	}
	if in[0].ID != "a" || in[1].ID != "b" {
		t.Fatal("input reordered")
	}
}

func TestRankCafes_ByDistanceAsc(t *testing.T) {
	in := []domain.Cafe{
		{ID: "a", Distance: ptr(3.0), Rating: 5},
		{ID: "b", Distance: ptr(1.0), Rating: 1},
		{ID: "c", Distance: ptr(3.0), Rating: 2},
		{ID: "d", Distance: ptr(0.5), Rating: 3},
	}
	got := search.RankCafes(in, true)
	if !reflect.DeepEqual(ids(got), []string{"d", "b", "a", "c"}) {
		t.Fatalf("got %v", ids(got))
	}
	for i := 1; i < len(got); i++ {
		if *got[i].Distance < *got[i-1].Distance {
			t.Fatalf("not non-decreasing at %d", i)
		}
	}
}

func TestSortCafes_Keys(t *testing.T) {
	in := []domain.Cafe{
		{ID: "1", Name: "zebra", PriceLevel: 3, Rating: 4.1},
		{ID: "2", Name: "Apple", PriceLevel: 1, Rating: 4.9},
		{ID: "3", Name: "mango", PriceLevel: 1, Rating: 3.2},
	}
	cases := []struct {
		key  search.SortKey
		want []string
	}{
		{search.SortByName, []string{"2", "3", "1"}},
		{search.SortByPrice, []string{"2", "3", "1"}},
		{search.SortByRating, []string{"2", "1", "3"}},
		{search.SortKey("bogus"), []string{"2", "1", "3"}},
		// no distances: all compare equal, order kept
		{search.SortByDistance, []string{"1", "2", "3"}},
	}
	for _, tc := range cases {
		if got := ids(search.SortCafes(in, tc.key)); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.key, got, tc.want)
		}
	}
}
