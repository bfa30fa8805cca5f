package domain

import (
	"context"
	"time"
)

type CafeRepository interface {
	// Write paths
	UpsertCafe(ctx context.Context, c Cafe) error
	DeleteCafe(ctx context.Context, id string) error
	// AdjustRating applies Cafe.ApplyReviewRating atomically and stamps
	// UpdatedAt with at.
	AdjustRating(ctx context.Context, id string, rating, delta int, at time.Time) (Cafe, error)

	// Read paths
	ListCafes(ctx context.Context) ([]Cafe, error)
	GetCafe(ctx context.Context, id string) (Cafe, error)
}

type ReviewRepository interface {
	// Write paths
	AddReview(ctx context.Context, r Review) error
	IncrementHelpful(ctx context.Context, id string) (Review, error)
	SetReviewStatus(ctx context.Context, id string, status ReviewStatus) (Review, error)

	// Read paths
	GetReview(ctx context.Context, id string) (Review, error)
	// ListReviews returns reviews in insertion order; an empty cafeID lists all.
	ListReviews(ctx context.Context, cafeID string) ([]Review, error)
}

type Repository interface {
	CafeRepository
	ReviewRepository
}

// PlacesClient talks to a third-party places directory. Payloads are kept
// raw and mapped by the app layer.
type PlacesClient interface {
	SearchNearby(ctx context.Context, center Coords, radiusMeters int, keyword string) ([]map[string]any, error)
	SearchText(ctx context.Context, query string, center *Coords, radiusMeters int) ([]map[string]any, error)
	GetDetails(ctx context.Context, placeID string) (map[string]any, error)
	PhotoURL(ref string, maxWidth int) string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// Read models & queries

type CafeList struct {
	Cafes   []Cafe        `json:"cafes"`
	Total   int           `json:"total"`
	Filters SearchFilters `json:"filters"`
}

type OpenStatus struct {
	Open       bool   `json:"open"`
	Label      string `json:"status"`
	NextChange string `json:"nextChange,omitempty"`
}

type CafeDetail struct {
	Cafe        Cafe       `json:"cafe"`
	Reviews     []Review   `json:"reviews"`
	ReviewCount int        `json:"reviewCount"`
	Status      OpenStatus `json:"businessStatus"`
	PriceSymbol string     `json:"priceSymbol"`
}

type ReviewQuery struct {
	Page  int
	Limit int
	Sort  string
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type ReviewsPage struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}

type Stats struct {
	TotalCafes         int                  `json:"totalCafes"`
	TotalReviews       int                  `json:"totalReviews"`
	AverageRating      float64              `json:"averageRating"`
	StudyFriendlyCafes int                  `json:"studyFriendlyCafes"`
	ReviewsByStatus    map[ReviewStatus]int `json:"reviewsByStatus"`
}
