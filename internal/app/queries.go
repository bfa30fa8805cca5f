package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"cafe_finder/internal/adapters/observability"
	"cafe_finder/internal/domain"
	"cafe_finder/internal/search"
)

const (
	DefaultReviewLimit = 10
	MaxReviewLimit     = 100
	suggestionLimit    = 8
	metersPerMile      = 1609.344
)

// Clock returns the current time in the service's time zone.
type Clock func() time.Time

func ClockIn(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

type QueryService struct {
	repo     domain.Repository
	cache    domain.Cache
	cacheTTL time.Duration
	places   domain.PlacesClient
	now      Clock
}

// NewQueryService wires the read side. cache may be nil.
func NewQueryService(r domain.Repository, c domain.Cache, ttl time.Duration, now Clock) *QueryService {
	if now == nil {
		now = ClockIn(time.UTC)
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, now: now}
}

// WithPlaces enables live lookups through p.
func (s *QueryService) WithPlaces(p domain.PlacesClient) *QueryService {
	s.places = p
	return s
}

func (s *QueryService) ListCafes(ctx context.Context, f domain.SearchFilters) (domain.CafeList, error) {
	all, err := s.repo.ListCafes(ctx)
	if err != nil {
		return domain.CafeList{}, err
	}
	out := search.Search(all, f, s.now())
	observability.ObserveSearch("store", len(out))
	return domain.CafeList{Cafes: out, Total: len(out), Filters: f}, nil
}

func (s *QueryService) GetCafe(ctx context.Context, id string) (domain.CafeDetail, error) {
	c, err := s.cafe(ctx, id)
	if err != nil {
		return domain.CafeDetail{}, err
	}
	rs, err := s.visibleReviews(ctx, id)
	if err != nil {
		return domain.CafeDetail{}, err
	}
	rs = search.RankReviews(rs, search.ReviewsNewest)
	return domain.CafeDetail{
		Cafe:        c,
		Reviews:     rs,
		ReviewCount: len(rs),
		Status:      search.BusinessStatus(c.Hours, s.now()),
		PriceSymbol: c.PriceSymbol(),
	}, nil
}

func (s *QueryService) ListReviews(ctx context.Context, cafeID string, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	sortKey := search.ParseReviewSort(q.Sort)
	limit := q.Limit
	if limit < 1 {
		limit = DefaultReviewLimit
	}
	limit = min(limit, MaxReviewLimit)
	page := max(q.Page, 1)

	key := reviewsKey(cafeID, string(sortKey), page, limit)
	var out domain.ReviewsPage
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	if _, err := s.cafe(ctx, cafeID); err != nil {
		return domain.ReviewsPage{}, err
	}
	rs, err := s.visibleReviews(ctx, cafeID)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	p := search.Paginate(search.RankReviews(rs, sortKey), page, limit)
	out = domain.ReviewsPage{Reviews: p.Items, Pagination: p.Pagination}

	// optional size guard
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		s.cacheSet(ctx, key, out)
	}
	return out, nil
}

func (s *QueryService) Suggestions(ctx context.Context, q string) ([]string, error) {
	if len([]rune(strings.TrimSpace(q))) < search.MinSuggestQuery {
		return []string{}, nil
	}
	all, err := s.repo.ListCafes(ctx)
	if err != nil {
		return nil, err
	}
	return search.Suggest(all, q, suggestionLimit), nil
}

// NearbyPlaces runs a live directory lookup and pushes the results through
// the listing pipeline. A query selects text search, otherwise the search is
// centred on the filter location.
func (s *QueryService) NearbyPlaces(ctx context.Context, f domain.SearchFilters) (domain.CafeList, error) {
	if s.places == nil {
		return domain.CafeList{}, domain.ErrPlacesDisabled
	}
	radius := 0
	if miles, ok := f.Radius(); ok {
		radius = int(math.Round(miles * metersPerMile))
	}

	var (
		raw []map[string]any
		err error
	)
	switch {
	case f.Query != nil && strings.TrimSpace(*f.Query) != "":
		raw, err = s.places.SearchText(ctx, *f.Query, f.Location, radius)
	case f.Location != nil:
		raw, err = s.places.SearchNearby(ctx, *f.Location, radius, "")
	default:
		return domain.CafeList{}, fmt.Errorf("%w: location or query is required", domain.ErrValidation)
	}
	if err != nil {
		return domain.CafeList{}, fmt.Errorf("places lookup: %w", err)
	}

	now := s.now()
	cafes := make([]domain.Cafe, 0, len(raw))
	for _, p := range raw {
		c := mapPlace(p, s.photoURL, now)
		if c.ID == "" {
			continue
		}
		cafes = append(cafes, c)
	}

	// the directory already matched the text query
	local := f
	local.Query = nil
	out := search.Search(cafes, local, now)
	observability.ObserveSearch("places", len(out))
	return domain.CafeList{Cafes: out, Total: len(out), Filters: f}, nil
}

func (s *QueryService) photoURL(ref string) string { return s.places.PhotoURL(ref, 400) }

/********** admin reads **********/

// ManageCafes lists cafés whose name or address contains q, sorted by
// sortKey (name when empty).
func (s *QueryService) ManageCafes(ctx context.Context, q, sortKey string) ([]domain.Cafe, error) {
	all, err := s.repo.ListCafes(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Cafe, 0, len(all))
	for _, c := range all {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Address), needle) {
			out = append(out, c)
		}
	}
	if sortKey == "" {
		sortKey = string(search.SortByName)
	}
	return search.SortCafes(out, search.SortKey(sortKey)), nil
}

// ModerationQueue lists reviews of every café, newest first. status is a
// review status or "all"/"" for every status.
func (s *QueryService) ModerationQueue(ctx context.Context, status, q string) ([]domain.Review, error) {
	want := domain.ReviewStatus(strings.ToLower(strings.TrimSpace(status)))
	all := want == "" || want == "all"
	if !all && !want.Valid() {
		return nil, fmt.Errorf("%w: unknown review status %q", domain.ErrValidation, status)
	}

	rs, err := s.repo.ListReviews(ctx, "")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Review, 0, len(rs))
	for _, r := range rs {
		if !all && r.Status != want {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Comment), needle) &&
			!strings.Contains(strings.ToLower(r.UserName), needle) {
			continue
		}
		out = append(out, r)
	}
	return search.RankReviews(out, search.ReviewsNewest), nil
}

func (s *QueryService) Stats(ctx context.Context) (domain.Stats, error) {
	cafes, err := s.repo.ListCafes(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	rs, err := s.repo.ListReviews(ctx, "")
	if err != nil {
		return domain.Stats{}, err
	}

	st := domain.Stats{
		TotalCafes:   len(cafes),
		TotalReviews: len(rs),
		ReviewsByStatus: map[domain.ReviewStatus]int{
			domain.ReviewApproved: 0,
			domain.ReviewPending:  0,
			domain.ReviewFlagged:  0,
			domain.ReviewRejected: 0,
		},
	}
	sum := 0.0
	for _, c := range cafes {
		sum += c.Rating
		if c.StudyFriendly {
			st.StudyFriendlyCafes++
		}
	}
	if len(cafes) > 0 {
		st.AverageRating = math.Round(sum/float64(len(cafes))*10) / 10
	}
	for _, r := range rs {
		st.ReviewsByStatus[r.Status]++
	}
	return st, nil
}

/********** helpers **********/

func cafeKey(id string) string { return "cafe:" + id }

func reviewsPrefix(cafeID string) string { return "reviews:" + cafeID + ":" }

func reviewsKey(cafeID, sort string, page, limit int) string {
	return fmt.Sprintf("%s%s:%d:%d", reviewsPrefix(cafeID), sort, page, limit)
}

// cafe is a cache-aside read of the café record.
func (s *QueryService) cafe(ctx context.Context, id string) (domain.Cafe, error) {
	var c domain.Cafe
	if s.cacheGet(ctx, cafeKey(id), &c) {
		return c, nil
	}
	c, err := s.repo.GetCafe(ctx, id)
	if err != nil {
		return domain.Cafe{}, err
	}
	s.cacheSet(ctx, cafeKey(id), c)
	return c, nil
}

func (s *QueryService) visibleReviews(ctx context.Context, cafeID string) ([]domain.Review, error) {
	rs, err := s.repo.ListReviews(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rs))
	for _, r := range rs {
		if r.Status.Visible() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
