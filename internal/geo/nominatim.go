package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/rectifica/internal/model"
)

// HTTPGeocoder resolves locations against a Nominatim-compatible search
// endpoint returning a JSON array of candidates
type HTTPGeocoder struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *hostLimiter
}

// NewHTTPGeocoder creates a geocoder from the geo configuration
func NewHTTPGeocoder(cfg model.GeoConfig) *HTTPGeocoder {
	return &HTTPGeocoder{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   newHostLimiter(cfg.RequestsPerSecond, 1),
	}
}

// nominatimResult is one candidate from the search endpoint
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve looks the location text up and returns the first candidate
func (g *HTTPGeocoder) Resolve(ctx context.Context, locationText string) (model.Location, error) {
	reqURL := fmt.Sprintf("%s?q=%s&format=json&limit=1", g.endpoint, url.QueryEscape(locationText))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	if err := g.limiter.wait(ctx, req.URL.Host); err != nil {
		return model.Location{}, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("geocode %q: %w", locationText, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Location{}, fmt.Errorf("geocode %q: unexpected status %d", locationText, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBytes))
	if err != nil {
		return model.Location{}, fmt.Errorf("read response: %w", err)
	}

	var candidates []nominatimResult
	if err := json.Unmarshal(body, &candidates); err != nil {
		return model.Location{}, fmt.Errorf("decode response: %w", err)
	}
	if len(candidates) == 0 {
		return model.Location{}, fmt.Errorf("%w: no match for %q", model.ErrNotFound, locationText)
	}

	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return model.Location{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return model.Location{}, fmt.Errorf("parse longitude: %w", err)
	}

	return model.Location{
		Name:      candidates[0].DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
