package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

// gazetteer covers major cities so common lookups work offline and tests
// stay deterministic. The HTTP geocoder handles everything else.
var gazetteer = map[string]model.Location{
	"new york, usa":     {Name: "New York, USA", Latitude: 40.7128, Longitude: -74.0060},
	"new york":          {Name: "New York, USA", Latitude: 40.7128, Longitude: -74.0060},
	"london, uk":        {Name: "London, UK", Latitude: 51.5074, Longitude: -0.1278},
	"london":            {Name: "London, UK", Latitude: 51.5074, Longitude: -0.1278},
	"paris, france":     {Name: "Paris, France", Latitude: 48.8566, Longitude: 2.3522},
	"tokyo, japan":      {Name: "Tokyo, Japan", Latitude: 35.6762, Longitude: 139.6503},
	"delhi, india":      {Name: "Delhi, India", Latitude: 28.7041, Longitude: 77.1025},
	"mumbai, india":     {Name: "Mumbai, India", Latitude: 19.0760, Longitude: 72.8777},
	"chennai, india":    {Name: "Chennai, India", Latitude: 13.0827, Longitude: 80.2707},
	"moscow, russia":    {Name: "Moscow, Russia", Latitude: 55.7558, Longitude: 37.6173},
	"sydney, australia": {Name: "Sydney, Australia", Latitude: -33.8688, Longitude: 151.2093},
}

// StaticGeocoder resolves from the built-in gazetteer only
type StaticGeocoder struct{}

// Resolve matches the normalized location text against the gazetteer
func (StaticGeocoder) Resolve(_ context.Context, locationText string) (model.Location, error) {
	key := strings.ToLower(strings.TrimSpace(locationText))
	if loc, ok := gazetteer[key]; ok {
		return loc, nil
	}
	return model.Location{}, fmt.Errorf("%w: %q not in gazetteer", model.ErrNotFound, locationText)
}

// FallbackGeocoder tries each geocoder in order until one resolves
type FallbackGeocoder struct {
	chain []Geocoder
}

// NewFallbackGeocoder builds a chain; typical wiring is gazetteer first,
// HTTP second
func NewFallbackGeocoder(chain ...Geocoder) *FallbackGeocoder {
	return &FallbackGeocoder{chain: chain}
}

// Resolve returns the first successful resolution, or the last error
func (g *FallbackGeocoder) Resolve(ctx context.Context, locationText string) (model.Location, error) {
	var lastErr error = fmt.Errorf("%w: empty geocoder chain", model.ErrNotFound)
	for _, gc := range g.chain {
		loc, err := gc.Resolve(ctx, locationText)
		if err == nil {
			return loc, nil
		}
		lastErr = err
	}
	return model.Location{}, lastErr
}

// StaticResolver returns a fixed UTC offset regardless of time and place.
// Used in tests and when the caller already knows the offset.
type StaticResolver struct {
	Offset time.Duration
}

// OffsetFor returns the fixed offset
func (r StaticResolver) OffsetFor(context.Context, time.Time, model.Location) (time.Duration, error) {
	return r.Offset, nil
}
