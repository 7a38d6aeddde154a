package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

func TestStaticGeocoder(t *testing.T) {
	ctx := context.Background()

	loc, err := StaticGeocoder{}.Resolve(ctx, "London, UK")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.Name != "London, UK" || loc.Latitude != 51.5074 {
		t.Errorf("unexpected location %+v", loc)
	}

	// Lookup is case-insensitive and trims whitespace
	if _, err := (StaticGeocoder{}).Resolve(ctx, "  chennai, INDIA "); err != nil {
		t.Errorf("normalized lookup failed: %v", err)
	}

	if _, err := (StaticGeocoder{}).Resolve(ctx, "Nowhereville"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// fixedGeocoder resolves everything to one location
type fixedGeocoder struct {
	loc model.Location
	err error
}

func (g fixedGeocoder) Resolve(context.Context, string) (model.Location, error) {
	return g.loc, g.err
}

func TestFallbackGeocoder(t *testing.T) {
	ctx := context.Background()
	want := model.Location{Name: "Fallback City", Latitude: 1, Longitude: 2}

	chain := NewFallbackGeocoder(
		fixedGeocoder{err: errors.New("first down")},
		fixedGeocoder{loc: want},
	)
	loc, err := chain.Resolve(ctx, "anywhere")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.Name != want.Name {
		t.Errorf("got %q, want %q", loc.Name, want.Name)
	}

	allFail := NewFallbackGeocoder(
		fixedGeocoder{err: errors.New("first down")},
		fixedGeocoder{err: errors.New("second down")},
	)
	if _, err := allFail.Resolve(ctx, "anywhere"); err == nil {
		t.Error("expected error when every geocoder fails")
	}

	empty := NewFallbackGeocoder()
	if _, err := empty.Resolve(ctx, "anywhere"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("empty chain: expected ErrNotFound, got %v", err)
	}
}

func TestLongitudeOffset(t *testing.T) {
	tests := []struct {
		lon  float64
		want time.Duration
	}{
		{0, 0},
		{15, time.Hour},
		{-74, -5 * time.Hour},
		{139.65, 9 * time.Hour},
		{-7.5, -time.Hour}, // rounds away from zero at the half-degree
	}
	for _, tt := range tests {
		if got := longitudeOffset(tt.lon); got != tt.want {
			t.Errorf("longitudeOffset(%v) = %v, want %v", tt.lon, got, tt.want)
		}
	}
}

func TestZoneResolverFallsBackToLongitude(t *testing.T) {
	loc := model.Location{Name: "Unknown Place", Latitude: 10, Longitude: 75}
	offset, err := ZoneResolver{}.OffsetFor(context.Background(), time.Date(1990, 1, 1, 12, 0, 0, 0, time.UTC), loc)
	if err != nil {
		t.Fatalf("OffsetFor: %v", err)
	}
	if offset != 5*time.Hour {
		t.Errorf("offset %v, want 5h from longitude 75", offset)
	}
}

func TestZoneResolverKnownZone(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Kolkata"); err != nil {
		t.Skip("zone database unavailable")
	}

	loc := model.Location{Name: "Chennai, India", Latitude: 13.0827, Longitude: 80.2707}
	offset, err := ZoneResolver{}.OffsetFor(context.Background(), time.Date(1990, 6, 15, 6, 0, 0, 0, time.UTC), loc)
	if err != nil {
		t.Fatalf("OffsetFor: %v", err)
	}
	if offset != 5*time.Hour+30*time.Minute {
		t.Errorf("offset %v, want +5h30m for India", offset)
	}
}

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{Offset: -3 * time.Hour}
	offset, err := r.OffsetFor(context.Background(), time.Now(), model.Location{})
	if err != nil {
		t.Fatalf("OffsetFor: %v", err)
	}
	if offset != -3*time.Hour {
		t.Errorf("offset %v, want -3h", offset)
	}
}

func testGeoConfig(endpoint string) model.GeoConfig {
	return model.GeoConfig{
		Endpoint:          endpoint,
		Timeout:           5 * time.Second,
		UserAgent:         "rectifica-test",
		MaxBodyBytes:      1 << 20,
		RequestsPerSecond: 100,
	}
}

func TestHTTPGeocoderResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "rectifica-test" {
			t.Errorf("user agent %q, want rectifica-test", got)
		}
		if q := r.URL.Query().Get("q"); q != "Springfield" {
			t.Errorf("query %q, want Springfield", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"39.7817","lon":"-89.6501","display_name":"Springfield, Illinois"}]`))
	}))
	defer srv.Close()

	loc, err := NewHTTPGeocoder(testGeoConfig(srv.URL)).Resolve(context.Background(), "Springfield")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if loc.Name != "Springfield, Illinois" {
		t.Errorf("name %q, want Springfield, Illinois", loc.Name)
	}
	if loc.Latitude != 39.7817 || loc.Longitude != -89.6501 {
		t.Errorf("coordinates %v, %v", loc.Latitude, loc.Longitude)
	}
}

func TestHTTPGeocoderNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewHTTPGeocoder(testGeoConfig(srv.URL)).Resolve(context.Background(), "Atlantis")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPGeocoderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPGeocoder(testGeoConfig(srv.URL)).Resolve(context.Background(), "anywhere"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestHTTPGeocoderBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	if _, err := NewHTTPGeocoder(testGeoConfig(srv.URL)).Resolve(context.Background(), "anywhere"); err == nil {
		t.Error("expected error for malformed response")
	}
}
