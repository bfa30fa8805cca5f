package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"cafe_finder/internal/domain"
)

// ---- fakes ----

// fakeCache stores JSON like the redis adapter does, so values round-trip
// through any destination type.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	hits  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type fakePlaces struct {
	mu        sync.Mutex
	nearby    []map[string]any
	text      []map[string]any
	details   map[string]map[string]any
	detailErr map[string]error
	textQuery string
	calls     int
}

func (f *fakePlaces) SearchNearby(ctx context.Context, center domain.Coords, radiusMeters int, keyword string) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.nearby, nil
}

func (f *fakePlaces) SearchText(ctx context.Context, query string, center *domain.Coords, radiusMeters int) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.textQuery = query
	return f.text, nil
}

func (f *fakePlaces) GetDetails(ctx context.Context, placeID string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.detailErr[placeID]; err != nil {
		return nil, err
	}
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePlaces) PhotoURL(ref string, maxWidth int) string { return "photo:" + ref }

// monday10 is Monday 2024-01-15 10:00 UTC.
func monday10() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) }

func ptr[T any](v T) *T { return &v }

func place(id, name string, lat, lng, rating float64, types ...any) map[string]any {
	return map[string]any{
		"place_id":           id,
		"name":               name,
		"formatted_address":  name + " St, Berkeley",
		"geometry":           map[string]any{"location": map[string]any{"lat": lat, "lng": lng}},
		"rating":             rating,
		"user_ratings_total": 50.0,
		"types":              types,
		"photos":             []any{map[string]any{"photo_reference": id + "-ref"}},
	}
}
