package maps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ridepool/pkg/cache"
)

func TestNominatimGeocodeAndReverse(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Query().Get("format") != "jsonv2" {
			t.Errorf("format = %q", r.URL.Query().Get("format"))
		}
		switch r.URL.Path {
		case "/search":
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"place_id": 42, "lat": "52.3791283", "lon": "4.9003029", "display_name": "Amsterdam Centraal, Amsterdam", "class": "railway", "type": "station"},
			})
		case "/reverse":
			if r.URL.Query().Get("lat") == "0.0000000" {
				json.NewEncoder(w).Encode(map[string]string{"error": "Unable to geocode"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"place_id": 42, "lat": "52.3791283", "lon": "4.9003029", "display_name": "Amsterdam Centraal, Amsterdam",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n := NewNominatimProvider(srv.URL+"/", "ridepool-test")
	ctx := context.Background()

	resp, err := n.Geocode(ctx, "Amsterdam Centraal")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	first, err := resp.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if first.PlaceID != "42" || first.Coordinates.Latitude != 52.3791283 {
		t.Fatalf("unexpected result %+v", first)
	}
	if gotAgent != "ridepool-test" {
		t.Errorf("User-Agent = %q", gotAgent)
	}

	rev, err := n.ReverseGeocode(ctx, 52.3791, 4.9003)
	if err != nil {
		t.Fatalf("ReverseGeocode: %v", err)
	}
	if r, _ := rev.First(); r == nil || r.Address != "Amsterdam Centraal, Amsterdam" {
		t.Fatalf("unexpected reverse result %+v", rev)
	}

	empty, err := n.ReverseGeocode(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ReverseGeocode(0,0): %v", err)
	}
	if _, err := empty.First(); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestMapboxSearchPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "pk.test" {
			t.Errorf("missing access token")
		}
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"features": []map[string]interface{}{
				{"id": "poi.1", "text": "Vondelpark", "place_name": "Vondelpark, Amsterdam", "center": []float64{4.868, 52.358}},
				{"id": "broken", "place_name": "no center"},
			},
		})
	}))
	defer srv.Close()

	m := NewMapboxProvider("pk.test")
	m.baseURL = srv.URL

	resp, err := m.SearchPlaces(context.Background(), &PlaceSearchRequest{Query: "vondelpark", Limit: 3})
	if err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(resp.Results))
	}
	if got := resp.Results[0]; got.Name != "Vondelpark" || got.Location.Latitude != 52.358 || got.Location.Longitude != 4.868 {
		t.Fatalf("unexpected place %+v", got)
	}
}

type stubProvider struct {
	name    string
	results []GeocodeResult
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &GeocodeResponse{Results: s.results}, nil
}

func (s *stubProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	return s.Geocode(ctx, "")
}

func (s *stubProvider) SearchPlaces(ctx context.Context, request *PlaceSearchRequest) (*PlaceSearchResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := &PlaceSearchResponse{}
	for _, r := range s.results {
		out.Results = append(out.Results, PlaceResult{Name: r.Address, Address: r.Address, Location: r.Coordinates})
	}
	return out, nil
}

func TestFallbackProvider(t *testing.T) {
	failing := &stubProvider{name: "google", err: errors.New("quota exceeded")}
	empty := &stubProvider{name: "mapbox"}
	public := &stubProvider{name: "nominatim", results: []GeocodeResult{{Address: "Utrecht"}}}

	f := NewFallbackProvider(nil, failing, empty, public)
	resp, err := f.Geocode(context.Background(), "utrecht")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if r, _ := resp.First(); r.Address != "Utrecht" {
		t.Fatalf("got %+v", resp)
	}
	if failing.calls != 1 || empty.calls != 1 || public.calls != 1 {
		t.Fatalf("calls = %d/%d/%d", failing.calls, empty.calls, public.calls)
	}

	allDown := NewFallbackProvider(nil, failing)
	if _, err := allDown.Geocode(context.Background(), "x"); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

type memCache struct {
	data map[string][]byte
}

func (m *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestCachedProvider(t *testing.T) {
	inner := &stubProvider{name: "nominatim", results: []GeocodeResult{{Address: "Den Haag", Coordinates: Location{Latitude: 52.07, Longitude: 4.3}}}}
	store := &memCache{data: map[string][]byte{}}
	c := NewCachedProvider(inner, store, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := c.Geocode(ctx, "  Den   HAAG ")
		if err != nil {
			t.Fatalf("Geocode: %v", err)
		}
		if r, _ := resp.First(); r.Coordinates.Latitude != 52.07 {
			t.Fatalf("unexpected result %+v", resp)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner called %d times, want 1", inner.calls)
	}
	if _, ok := store.data["geocode:den haag"]; !ok {
		t.Fatalf("cache keys = %v", store.data)
	}

	none := &stubProvider{name: "nominatim"}
	c = NewCachedProvider(none, store, time.Hour, nil)
	c.Geocode(ctx, "nowhere")
	c.Geocode(ctx, "nowhere")
	if none.calls != 2 {
		t.Fatalf("empty answers should not be cached, calls = %d", none.calls)
	}
}
