package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cafe_finder/internal/domain"
	"cafe_finder/internal/storage/memory"
)

func TestSeedInvariants(t *testing.T) {
	cafes := memory.SeedCafes()
	known := map[string]bool{}
	for _, c := range cafes {
		if c.Rating < 0 || c.Rating > 5 {
			t.Fatalf("cafe %s rating out of range: %v", c.ID, c.Rating)
		}
		if c.PriceLevel < 1 || c.PriceLevel > 4 {
			t.Fatalf("cafe %s price level out of range: %d", c.ID, c.PriceLevel)
		}
		if !c.NoiseLevel.Valid() {
			t.Fatalf("cafe %s noise level %q", c.ID, c.NoiseLevel)
		}
		known[c.ID] = true
	}
	for _, r := range memory.SeedReviews() {
		if !known[r.CafeID] {
			t.Fatalf("review %s points at unknown cafe %s", r.ID, r.CafeID)
		}
		if r.Rating < 1 || r.Rating > 5 || r.Comment == "" || !r.Status.Valid() {
			t.Fatalf("invalid seed review: %+v", r)
		}
	}
}

func TestRepo_CafeCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.New(nil, nil)

	if _, err := repo.GetCafe(ctx, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpsertCafe(ctx, domain.Cafe{ID: "x", Name: "One"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertCafe(ctx, domain.Cafe{ID: "y", Name: "Two"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertCafe(ctx, domain.Cafe{ID: "x", Name: "One v2"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	all, _ := repo.ListCafes(ctx)
	if len(all) != 2 || all[0].Name != "One v2" || all[1].ID != "y" {
		t.Fatalf("unexpected cafes: %+v", all)
	}

	// snapshot reads
	all[0].Name = "mutated"
	c, _ := repo.GetCafe(ctx, "x")
	if c.Name != "One v2" {
		t.Fatalf("list result aliases the store")
	}

	if err := repo.AddReview(ctx, domain.Review{ID: "r", CafeID: "x", Rating: 5, Comment: "ok"}); err != nil {
		t.Fatalf("add review: %v", err)
	}
	if err := repo.DeleteCafe(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteCafe(ctx, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if rs, _ := repo.ListReviews(ctx, ""); len(rs) != 0 {
		t.Fatalf("reviews of deleted cafe survived: %+v", rs)
	}
}

func TestRepo_Reviews(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSeeded()

	if err := repo.AddReview(ctx, domain.Review{ID: "z", CafeID: "nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown cafe, got %v", err)
	}

	rs, _ := repo.ListReviews(ctx, "1")
	if len(rs) != 3 {
		t.Fatalf("expected 3 reviews for cafe 1, got %d", len(rs))
	}

	before, _ := repo.GetReview(ctx, "r1")
	after, err := repo.IncrementHelpful(ctx, "r1")
	if err != nil || after.Helpful != before.Helpful+1 {
		t.Fatalf("helpful: %v %+v", err, after)
	}

	got, err := repo.SetReviewStatus(ctx, "r7", domain.ReviewRejected)
	if err != nil || got.Status != domain.ReviewRejected {
		t.Fatalf("status: %v %+v", err, got)
	}
	if _, err := repo.SetReviewStatus(ctx, "missing", domain.ReviewApproved); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ConcurrentHelpful(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSeeded()
	before, _ := repo.GetReview(ctx, "r2")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.IncrementHelpful(ctx, "r2")
			_, _ = repo.ListCafes(ctx)
		}()
	}
	wg.Wait()

	after, _ := repo.GetReview(ctx, "r2")
	if after.Helpful != before.Helpful+50 {
		t.Fatalf("lost updates: %d -> %d", before.Helpful, after.Helpful)
	}
}

func TestRepo_AdjustRating(t *testing.T) {
	ctx := context.Background()
	repo := memory.New([]domain.Cafe{{ID: "x", Rating: 4, ReviewCount: 1}}, nil)
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	c, err := repo.AdjustRating(ctx, "x", 5, 1, at)
	if err != nil || c.ReviewCount != 2 || c.Rating != 4.5 || !c.UpdatedAt.Equal(at) {
		t.Fatalf("add: %v %+v", err, c)
	}
	c, _ = repo.AdjustRating(ctx, "x", 5, -1, at)
	if c.ReviewCount != 1 || c.Rating != 4 {
		t.Fatalf("remove: %+v", c)
	}
	c, _ = repo.AdjustRating(ctx, "x", 4, -1, at)
	if c.ReviewCount != 0 || c.Rating != 0 {
		t.Fatalf("last review removed: %+v", c)
	}
	if _, err := repo.AdjustRating(ctx, "nope", 5, 1, at); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
