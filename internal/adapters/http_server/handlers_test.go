package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "cafe_finder/internal/adapters/http_server"
	"cafe_finder/internal/adapters/observability"
	"cafe_finder/internal/app"
	"cafe_finder/internal/domain"
	"cafe_finder/internal/storage/memory"
)

// monday10 is Monday 2024-01-15 10:00 UTC.
func monday10() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := memory.NewSeeded()
	q := app.NewQueryService(repo, nil, time.Minute, monday10)
	c := app.NewCommandService(repo, nil, monday10, domain.ReviewApproved)

	srv := httpserver.New(httpserver.Options{RequestTimeout: 5 * time.Second})
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&httpserver.Handlers{Q: q, C: c})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, hdr ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status %d, want %d; body=%s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return v
}

func ids(cs []domain.Cafe) string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return strings.Join(out, ",")
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, "GET", "/healthz", "")
	expectStatus(t, resp, body, 200)
	if string(body) != "ok" {
		t.Fatalf("healthz body %q", body)
	}

	_, _ = do(t, ts, "GET", "/v1/cafes", "")
	resp, body = do(t, ts, "GET", "/metrics", "")
	expectStatus(t, resp, body, 200)
	if !strings.Contains(string(body), "cafe_http_requests_total") {
		t.Fatal("expected http metrics in /metrics output")
	}
}

func TestListCafes_FiltersAndETag(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, "GET", "/v1/cafes?rating=4.5", "")
	expectStatus(t, resp, body, 200)
	list := decode[domain.CafeList](t, body)
	if ids(list.Cafes) != "1,5,2" || list.Total != 3 {
		t.Fatalf("unexpected listing: %s", ids(list.Cafes))
	}

	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("missing weak ETag: %q", etag)
	}
	resp, body = do(t, ts, "GET", "/v1/cafes?rating=4.5", "", "If-None-Match", etag)
	expectStatus(t, resp, body, http.StatusNotModified)

	resp, body = do(t, ts, "GET", "/v1/cafes?lat=37.8695&lng=-122.2585&distance=0.5", "")
	expectStatus(t, resp, body, 200)
	list = decode[domain.CafeList](t, body)
	if ids(list.Cafes) != "1,5,2" || list.Cafes[0].Distance == nil {
		t.Fatalf("unexpected nearby listing: %s", ids(list.Cafes))
	}

	resp, body = do(t, ts, "GET", "/v1/cafes?amenities=Free%20WiFi,Book%20Collection&priceLevel=2,x&noiseLevel=quiet", "")
	expectStatus(t, resp, body, 200)
	list = decode[domain.CafeList](t, body)
	if ids(list.Cafes) != "5" {
		t.Fatalf("unexpected facet listing: %s", ids(list.Cafes))
	}

	// unparseable numbers are absent
	resp, body = do(t, ts, "GET", "/v1/cafes?rating=abc&distance=far", "")
	expectStatus(t, resp, body, 200)
	if decode[domain.CafeList](t, body).Total != 6 {
		t.Fatalf("expected all cafes, got %s", body)
	}
}

func TestListCafes_RejectsNonPositiveDistance(t *testing.T) {
	ts := newTestServer(t)
	for _, d := range []string{"0", "-5"} {
		resp, body := do(t, ts, "GET", "/v1/cafes?lat=37.87&lng=-122.26&distance="+d, "")
		expectStatus(t, resp, body, 400)
		if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("content type %q", ct)
		}
	}
}

func TestGetCafe(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, "GET", "/v1/cafes/1", "")
	expectStatus(t, resp, body, 200)
	d := decode[domain.CafeDetail](t, body)
	if d.Cafe.ID != "1" || d.ReviewCount != 2 || !d.Status.Open || d.Status.Label != "Open now" || d.PriceSymbol != "$$" {
		t.Fatalf("unexpected detail: %+v", d)
	}

	resp, body = do(t, ts, "GET", "/v1/cafes/404", "")
	expectStatus(t, resp, body, 404)
}

func TestReviews_ListAndCreate(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, "GET", "/v1/cafes/1/reviews?page=2&limit=1&sortBy=helpful", "")
	expectStatus(t, resp, body, 200)
	page := decode[domain.ReviewsPage](t, body)
	if len(page.Reviews) != 1 || page.Reviews[0].ID != "r2" || !page.Pagination.HasPrev || page.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}

	for _, bad := range []string{"limit=0", "limit=101", "limit=x", "page=0"} {
		resp, body = do(t, ts, "GET", "/v1/cafes/1/reviews?"+bad, "")
		expectStatus(t, resp, body, 400)
	}

	resp, body = do(t, ts, "POST", "/v1/cafes/2/reviews", `{"userName":"Ana","rating":5,"comment":"Lovely","wifiRating":4}`)
	expectStatus(t, resp, body, 201)
	rv := decode[domain.Review](t, body)
	if rv.ID == "" || rv.CafeID != "2" || rv.Status != domain.ReviewApproved || rv.WifiRating == nil || *rv.WifiRating != 4 {
		t.Fatalf("unexpected review: %+v", rv)
	}

	cases := []struct {
		path, body string
		want       int
	}{
		{"/v1/cafes/2/reviews", `{"userName":"Ana","rating":7,"comment":"x"}`, 400},
		{"/v1/cafes/2/reviews", `{"userName":"Ana","comment":"x"}`, 400},
		{"/v1/cafes/2/reviews", `{"userName":"Ana","rating":5,"comment":"x","extra":1}`, 400},
		{"/v1/cafes/2/reviews", `{"userName":"Ana"`, 400},
		{"/v1/cafes/nope/reviews", `{"userName":"Ana","rating":5,"comment":"x"}`, 404},
	}
	for _, tc := range cases {
		resp, body := do(t, ts, "POST", tc.path, tc.body)
		expectStatus(t, resp, body, tc.want)
	}

	resp, body = do(t, ts, "POST", "/v1/reviews/r1/helpful", "")
	expectStatus(t, resp, body, 200)
	if decode[domain.Review](t, body).Helpful != 13 {
		t.Fatalf("helpful not incremented: %s", body)
	}
	resp, body = do(t, ts, "POST", "/v1/reviews/missing/helpful", "")
	expectStatus(t, resp, body, 404)
}

func TestSuggestionsAndPlaces(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, "GET", "/v1/search/suggestions?q=qu", "")
	expectStatus(t, resp, body, 200)
	got := decode[map[string][]string](t, body)["suggestions"]
	if strings.Join(got, "|") != "quiet|Quiet Zone" {
		t.Fatalf("unexpected suggestions: %v", got)
	}

	resp, body = do(t, ts, "GET", "/v1/places/nearby?lat=37.87&lng=-122.26", "")
	expectStatus(t, resp, body, http.StatusServiceUnavailable)
}

func TestAdminFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, "GET", "/v1/admin/stats", "")
	expectStatus(t, resp, body, 200)
	if st := decode[domain.Stats](t, body); st.TotalCafes != 6 || st.ReviewsByStatus[domain.ReviewPending] != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	resp, body = do(t, ts, "POST", "/v1/admin/cafes",
		`{"name":"Latte Lab","address":"1 Main St","latitude":37.8,"longitude":-122.2,"priceLevel":2,"noiseLevel":"quiet"}`)
	expectStatus(t, resp, body, 201)
	created := decode[domain.Cafe](t, body)
	if resp.Header.Get("Location") != "/v1/cafes/"+created.ID {
		t.Fatalf("location header %q", resp.Header.Get("Location"))
	}

	resp, body = do(t, ts, "POST", "/v1/admin/cafes", `{"name":"","address":"x","priceLevel":9,"noiseLevel":"loud"}`)
	expectStatus(t, resp, body, 400)

	resp, body = do(t, ts, "PATCH", "/v1/admin/cafes/"+created.ID, `{"studyFriendly":true,"rating":4.2}`)
	expectStatus(t, resp, body, 200)
	if c := decode[domain.Cafe](t, body); !c.StudyFriendly || c.Rating != 4.2 || c.Name != "Latte Lab" {
		t.Fatalf("unexpected patched cafe: %+v", c)
	}

	resp, body = do(t, ts, "GET", "/v1/admin/cafes?q=latte", "")
	expectStatus(t, resp, body, 200)
	if !strings.Contains(string(body), `"total":1`) {
		t.Fatalf("admin search: %s", body)
	}

	resp, body = do(t, ts, "DELETE", "/v1/admin/cafes/"+created.ID, "")
	expectStatus(t, resp, body, 204)
	resp, body = do(t, ts, "DELETE", "/v1/admin/cafes/"+created.ID, "")
	expectStatus(t, resp, body, 404)

	resp, body = do(t, ts, "GET", "/v1/admin/reviews?status=pending", "")
	expectStatus(t, resp, body, 200)
	if !strings.Contains(string(body), `"id":"r7"`) {
		t.Fatalf("pending queue: %s", body)
	}
	resp, body = do(t, ts, "GET", "/v1/admin/reviews?status=bogus", "")
	expectStatus(t, resp, body, 400)

	resp, body = do(t, ts, "PATCH", "/v1/admin/reviews/r7", `{"status":"rejected"}`)
	expectStatus(t, resp, body, 200)
	if decode[domain.Review](t, body).Status != domain.ReviewRejected {
		t.Fatalf("status not updated: %s", body)
	}
	resp, body = do(t, ts, "PATCH", "/v1/admin/reviews/r7", `{"status":"gone"}`)
	expectStatus(t, resp, body, 400)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, "GET", "/v1/cafes", "", "Origin", "http://example.com")
	expectStatus(t, resp, body, 200)
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("allow origin %q", got)
	}
}
