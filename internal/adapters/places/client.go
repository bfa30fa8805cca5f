package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cafe_finder/internal/adapters/observability"
	"cafe_finder/internal/domain"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailFields is the field mask requested from the details endpoint.
var detailFields = []string{
	"place_id", "name", "formatted_address", "geometry", "rating", "user_ratings_total",
	"price_level", "opening_hours", "photos", "types", "formatted_phone_number", "website",
	"editorial_summary", "business_status",
}

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// SearchNearby lists cafés around center. Zero results is not an error.
func (c *Client) SearchNearby(ctx context.Context, center domain.Coords, radiusMeters int, keyword string) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("location", latLng(center))
	q.Set("radius", strconv.Itoa(radiusOrDefault(radiusMeters)))
	q.Set("type", "cafe")
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	var out envelope
	if err := c.call(ctx, "nearbysearch", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// SearchText runs a free-text search biased towards coffee shops.
func (c *Client) SearchText(ctx context.Context, query string, center *domain.Coords, radiusMeters int) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("query", strings.TrimSpace(query)+" cafe coffee shop")
	q.Set("type", "cafe")
	if center != nil {
		q.Set("location", latLng(*center))
		q.Set("radius", strconv.Itoa(radiusOrDefault(radiusMeters)))
	}
	var out envelope
	if err := c.call(ctx, "textsearch", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) GetDetails(ctx context.Context, placeID string) (map[string]any, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", strings.Join(detailFields, ","))
	var out envelope
	if err := c.call(ctx, "details", q, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, ErrNotFound
	}
	return out.Result, nil
}

// PhotoURL builds a photo link for a photo reference. The key is embedded,
// as the photo endpoint is fetched directly by browsers.
func (c *Client) PhotoURL(ref string, maxWidth int) string {
	if ref == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 400
	}
	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(maxWidth))
	q.Set("photoreference", ref)
	q.Set("key", c.key)
	return c.base + "/photo?" + q.Encode()
}

// ---- Internals ----

var (
	ErrNotFound      = fmt.Errorf("places: %w", domain.ErrNotFound)
	ErrUnauthorized  = errors.New("places: unauthorized")
	ErrForbidden     = errors.New("places: forbidden")
	ErrRequestDenied = errors.New("places: request denied")
	ErrInvalid       = errors.New("places: invalid request")
)

// envelope is the common shape of every JSON endpoint.
type envelope struct {
	Status       string           `json:"status"`
	ErrorMessage string           `json:"error_message"`
	Results      []map[string]any `json:"results"`
	Result       map[string]any   `json:"result"`
}

func latLng(c domain.Coords) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func radiusOrDefault(m int) int {
	if m <= 0 {
		return 5000
	}
	return min(m, 50000)
}

// call hits /<endpoint>/json and maps the payload status onto errors.
// OVER_QUERY_LIMIT is retried like a 429.
func (c *Client) call(ctx context.Context, endpoint string, q url.Values, out *envelope) error {
	q.Set("key", c.key)
	u := fmt.Sprintf("%s/%s/json?%s", c.base, endpoint, q.Encode())

	for i := 0; i < 4; i++ {
		if err := c.get(ctx, endpoint, u, out); err != nil {
			return err
		}
		switch out.Status {
		case "OK", "ZERO_RESULTS":
			return nil
		case "NOT_FOUND":
			return ErrNotFound
		case "REQUEST_DENIED":
			return fmt.Errorf("%w: %s", ErrRequestDenied, out.ErrorMessage)
		case "INVALID_REQUEST":
			return fmt.Errorf("%w: %s", ErrInvalid, out.ErrorMessage)
		case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				*out = envelope{}
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("places %s: %s", endpoint, out.Status)
		default:
			return fmt.Errorf("places %s: unexpected status %q", endpoint, out.Status)
		}
	}
	return fmt.Errorf("places %s: retries exhausted", endpoint)
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// stripURL drops the request URL, which carries the API key, from
// transport errors.
func stripURL(endpoint string, err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("places %s: %s: %w", endpoint, ue.Op, ue.Err)
	}
	return err
}

func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return stripURL(endpoint, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "cafe-finder/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("places", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = stripURL(endpoint, err)
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date); 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 200ms doubling per attempt plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
