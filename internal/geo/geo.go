// Package geo holds the external collaborators the engine consumes as black
// boxes: geocoding and timezone resolution. The engine never retries these;
// retry policy belongs to the caller.
package geo

import (
	"context"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

// Geocoder resolves free-text locations to coordinates
type Geocoder interface {
	// Resolve returns coordinates for the location text, or an error
	// wrapping model.ErrNotFound when nothing matches
	Resolve(ctx context.Context, locationText string) (model.Location, error)
}

// TimezoneResolver resolves the UTC offset in effect at a time and place
type TimezoneResolver interface {
	// OffsetFor returns the offset east of UTC, or an error wrapping
	// model.ErrNotFound when the zone cannot be determined
	OffsetFor(ctx context.Context, civil time.Time, loc model.Location) (time.Duration, error)
}
