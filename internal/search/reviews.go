package search

import (
	"cmp"
	"slices"

	"cafe_finder/internal/domain"
)

type ReviewSort string

const (
	ReviewsNewest  ReviewSort = "newest"
	ReviewsOldest  ReviewSort = "oldest"
	ReviewsRating  ReviewSort = "rating"
	ReviewsHelpful ReviewSort = "helpful"
)

// ParseReviewSort maps a query value to a sort key, defaulting to newest.
func ParseReviewSort(s string) ReviewSort {
	switch k := ReviewSort(s); k {
	case ReviewsOldest, ReviewsRating, ReviewsHelpful:
		return k
	}
	return ReviewsNewest
}

// RankReviews returns a stably sorted copy of reviews.
func RankReviews(reviews []domain.Review, key ReviewSort) []domain.Review {
	out := slices.Clone(reviews)
	var less func(a, b domain.Review) int
	switch ParseReviewSort(string(key)) {
	case ReviewsOldest:
		less = func(a, b domain.Review) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case ReviewsRating:
		less = func(a, b domain.Review) int { return cmp.Compare(b.Rating, a.Rating) }
	case ReviewsHelpful:
		less = func(a, b domain.Review) int { return cmp.Compare(b.Helpful, a.Helpful) }
	default:
		less = func(a, b domain.Review) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	slices.SortStableFunc(out, less)
	return out
}

type Page[T any] struct {
	Items []T
	domain.Pagination
}

// Paginate slices a 1-based page out of items. Pages past the end are empty;
// page < 1 reads as page 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	total := len(items)
	p := Page[T]{Pagination: domain.Pagination{
		Page:    page,
		Limit:   size,
		Total:   total,
		HasPrev: page > 1,
	}}
	if size < 1 {
		p.Items = []T{}
		return p
	}
	p.TotalPages = (total + size - 1) / size

	start := total
	if page-1 <= total/size {
		start = min((page-1)*size, total)
	}
	end := min(start+size, total)

	p.Items = make([]T, end-start)
	copy(p.Items, items[start:end])
	p.HasNext = end < total
	return p
}
