package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"cafe_finder/internal/domain"
)

// ImportService copies cafés from the places directory into the repository.
type ImportService struct {
	places  domain.PlacesClient
	repo    domain.CafeRepository
	cache   domain.Cache
	workers int64
	now     Clock
}

func NewImportService(p domain.PlacesClient, r domain.CafeRepository, c domain.Cache, workers int, now Clock) *ImportService {
	if workers <= 0 {
		workers = 4
	}
	if now == nil {
		now = ClockIn(nil)
	}
	return &ImportService{places: p, repo: r, cache: c, workers: int64(workers), now: now}
}

type ImportResult struct {
	Found    int `json:"found"`
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportNearby searches around center and upserts every result, fetching
// details with at most `workers` requests in flight. A failing place is
// logged and counted, never fatal; a details 404 falls back to the summary.
func (s *ImportService) ImportNearby(ctx context.Context, center domain.Coords, radiusMeters int, keyword string) (ImportResult, error) {
	summaries, err := s.places.SearchNearby(ctx, center, radiusMeters, keyword)
	if err != nil {
		return ImportResult{}, fmt.Errorf("nearby search: %w", err)
	}

	sem := semaphore.NewWeighted(s.workers)
	var (
		imported, failed atomic.Int64
		wg               sync.WaitGroup
	)
	for _, summary := range summaries {
		id := lookupStr(summary, "place_id")
		if id == "" {
			failed.Add(1)
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(id string, summary map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.importOne(ctx, id, summary); err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("cafe_id", id).Msg("import failed")
				return
			}
			imported.Add(1)
		}(id, summary)
	}
	wg.Wait()

	res := ImportResult{Found: len(summaries), Imported: int(imported.Load()), Failed: int(failed.Load())}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// keepLocal carries over what the directory does not own on re-import:
// the creation time, aggregates from local reviews and the study
// attributes an admin may have corrected.
func keepLocal(c *domain.Cafe, prev domain.Cafe) {
	c.CreatedAt = prev.CreatedAt
	c.Rating, c.ReviewCount = prev.Rating, prev.ReviewCount
	c.Wifi = prev.Wifi
	c.PowerOutlets = prev.PowerOutlets
	c.NoiseLevel = prev.NoiseLevel
	c.StudyFriendly = prev.StudyFriendly
}

func (s *ImportService) importOne(ctx context.Context, id string, summary map[string]any) error {
	payload, err := s.places.GetDetails(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Debug().Str("cafe_id", id).Msg("details missing, using search summary")
		payload = summary
	case err != nil:
		return err
	}

	c := mapPlace(payload, func(ref string) string { return s.places.PhotoURL(ref, 400) }, s.now())
	if c.ID == "" {
		c.ID = id
	}
	if prev, err := s.repo.GetCafe(ctx, c.ID); err == nil {
		keepLocal(&c, prev)
	}
	if err := s.repo.UpsertCafe(ctx, c); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cafeKey(c.ID)); err != nil {
			log.Warn().Err(err).Str("cafe_id", c.ID).Msg("cache invalidation failed")
		}
	}
	return nil
}
