// Package memory is the default process-local store. Nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"cafe_finder/internal/domain"
)

// Repo is a single-writer store; reads return snapshots.
type Repo struct {
	mu      sync.RWMutex
	cafes   []domain.Cafe
	reviews []domain.Review
}

func New(cafes []domain.Cafe, reviews []domain.Review) *Repo {
	return &Repo{cafes: slices.Clone(cafes), reviews: slices.Clone(reviews)}
}

// NewSeeded returns a store loaded with the demo catalogue.
func NewSeeded() *Repo { return New(SeedCafes(), SeedReviews()) }

func (r *Repo) ListCafes(ctx context.Context) ([]domain.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.cafes), nil
}

func (r *Repo) GetCafe(ctx context.Context, id string) (domain.Cafe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.cafeIndex(id); i >= 0 {
		return r.cafes[i], nil
	}
	return domain.Cafe{}, fmt.Errorf("cafe %s: %w", id, domain.ErrNotFound)
}

func (r *Repo) UpsertCafe(ctx context.Context, c domain.Cafe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.cafeIndex(c.ID); i >= 0 {
		r.cafes[i] = c
		return nil
	}
	r.cafes = append(r.cafes, c)
	return nil
}

func (r *Repo) AdjustRating(ctx context.Context, id string, rating, delta int, at time.Time) (domain.Cafe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.cafeIndex(id)
	if i < 0 {
		return domain.Cafe{}, fmt.Errorf("cafe %s: %w", id, domain.ErrNotFound)
	}
	r.cafes[i].ApplyReviewRating(rating, delta)
	r.cafes[i].UpdatedAt = at
	return r.cafes[i], nil
}

// DeleteCafe drops the café and its reviews.
func (r *Repo) DeleteCafe(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.cafeIndex(id)
	if i < 0 {
		return fmt.Errorf("cafe %s: %w", id, domain.ErrNotFound)
	}
	r.cafes = slices.Delete(r.cafes, i, i+1)
	r.reviews = slices.DeleteFunc(r.reviews, func(rv domain.Review) bool { return rv.CafeID == id })
	return nil
}

func (r *Repo) AddReview(ctx context.Context, rv domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cafeIndex(rv.CafeID) < 0 {
		return fmt.Errorf("cafe %s: %w", rv.CafeID, domain.ErrNotFound)
	}
	r.reviews = append(r.reviews, rv)
	return nil
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.reviewIndex(id); i >= 0 {
		return r.reviews[i], nil
	}
	return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
}

func (r *Repo) ListReviews(ctx context.Context, cafeID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cafeID == "" {
		return slices.Clone(r.reviews), nil
	}
	out := make([]domain.Review, 0)
	for _, rv := range r.reviews {
		if rv.CafeID == cafeID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *Repo) IncrementHelpful(ctx context.Context, id string) (domain.Review, error) {
	return r.updateReview(id, func(rv *domain.Review) { rv.Helpful++ })
}

func (r *Repo) SetReviewStatus(ctx context.Context, id string, status domain.ReviewStatus) (domain.Review, error) {
	return r.updateReview(id, func(rv *domain.Review) { rv.Status = status })
}

func (r *Repo) updateReview(id string, fn func(*domain.Review)) (domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.reviewIndex(id)
	if i < 0 {
		return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	fn(&r.reviews[i])
	return r.reviews[i], nil
}

// callers hold mu
func (r *Repo) cafeIndex(id string) int {
	return slices.IndexFunc(r.cafes, func(c domain.Cafe) bool { return c.ID == id })
}

func (r *Repo) reviewIndex(id string) int {
	return slices.IndexFunc(r.reviews, func(rv domain.Review) bool { return rv.ID == id })
}
