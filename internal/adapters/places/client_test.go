package places_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cafe_finder/internal/adapters/places"
	"cafe_finder/internal/domain"
)

func newClient(t *testing.T, h http.HandlerFunc) *places.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := places.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := places.New("", "", 1); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestSearchNearby_QueryAndResults(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "OK",
			"results": []map[string]any{{"place_id": "abc", "name": "Bean There"}},
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := cl.SearchNearby(ctx, domain.Coords{Lat: 37.87, Lng: -122.26}, 0, "study")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["place_id"] != "abc" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if gotPath != "/nearbysearch/json" {
		t.Fatalf("path: %s", gotPath)
	}
	want := map[string]string{
		"location": "37.87,-122.26", "radius": "5000", "type": "cafe", "keyword": "study", "key": "test-key",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestSearchText_AppendsCoffeeTerms(t *testing.T) {
	var q string
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})
	got, err := cl.SearchText(context.Background(), "berkeley ", nil, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
	if q != "berkeley cafe coffee shop" {
		t.Fatalf("query = %q", q)
	}
}

func TestGetDetails_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			_, _ = w.Write([]byte(`{"status":"OVER_QUERY_LIMIT"}`))
		default:
			_, _ = w.Write([]byte(`{"status":"OK","result":{"place_id":"abc","rating":4.6}}`))
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.GetDetails(ctx, "abc")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["rating"] != 4.6 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
		want error
	}{
		{"denied", `{"status":"REQUEST_DENIED","error_message":"bad key"}`, 200, places.ErrRequestDenied},
		{"invalid", `{"status":"INVALID_REQUEST"}`, 200, places.ErrInvalid},
		{"not found status", `{"status":"NOT_FOUND"}`, 200, domain.ErrNotFound},
		{"http 404", ``, 404, domain.ErrNotFound},
		{"http 403", ``, 403, places.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := cl.GetDetails(context.Background(), "x")
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPhotoURL(t *testing.T) {
	cl, _ := places.New("", "k", 1)
	u := cl.PhotoURL("ref123", 0)
	if !strings.HasPrefix(u, places.DefaultBaseURL+"/photo?") {
		t.Fatalf("unexpected url: %s", u)
	}
	for _, part := range []string{"maxwidth=400", "photoreference=ref123", "key=k"} {
		if !strings.Contains(u, part) {
			t.Fatalf("missing %s in %s", part, u)
		}
	}
	if cl.PhotoURL("", 400) != "" {
		t.Fatal("empty reference should give empty url")
	}
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("hijacking not supported")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		_ = conn.Close()
	}))
	t.Cleanup(ts.Close)

	cl, err := places.New(ts.URL, "SECRET-KEY-123", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = cl.SearchNearby(ctx, domain.Coords{Lat: 1, Lng: 2}, 100, "")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "SECRET-KEY-123") || strings.Contains(err.Error(), "key=") {
		t.Fatalf("error leaks the API key: %v", err)
	}
	if !strings.Contains(err.Error(), "nearbysearch") {
		t.Fatalf("error should name the endpoint: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n < 4 {
		t.Fatalf("expected retries, got %d attempts", n)
	}
}
