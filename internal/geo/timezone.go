package geo

import (
	"context"
	"math"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

// knownZones maps gazetteer cities to IANA zone names so historical DST
// rules apply when the zone database carries them
var knownZones = map[string]string{
	"New York, USA":     "America/New_York",
	"London, UK":        "Europe/London",
	"Paris, France":     "Europe/Paris",
	"Tokyo, Japan":      "Asia/Tokyo",
	"Delhi, India":      "Asia/Kolkata",
	"Mumbai, India":     "Asia/Kolkata",
	"Chennai, India":    "Asia/Kolkata",
	"Moscow, Russia":    "Europe/Moscow",
	"Sydney, Australia": "Australia/Sydney",
}

// ZoneResolver resolves offsets from the IANA zone database for known
// locations and falls back to a longitude estimate otherwise
type ZoneResolver struct{}

// OffsetFor returns the UTC offset in effect at the civil time and location
func (ZoneResolver) OffsetFor(_ context.Context, civil time.Time, loc model.Location) (time.Duration, error) {
	if name, ok := knownZones[loc.Name]; ok {
		if zone, err := time.LoadLocation(name); err == nil {
			// Interpret the civil wall-clock in the zone to pick up the
			// offset (including DST) in effect on that date
			local := time.Date(civil.Year(), civil.Month(), civil.Day(),
				civil.Hour(), civil.Minute(), 0, 0, zone)
			_, offsetSec := local.Zone()
			return time.Duration(offsetSec) * time.Second, nil
		}
	}
	return longitudeOffset(loc.Longitude), nil
}

// longitudeOffset estimates the offset from the longitude alone: the Earth
// turns 15 degrees per hour. Wrong where political zones diverge from solar
// time, but a serviceable fallback when no zone data is available.
func longitudeOffset(longitudeEast float64) time.Duration {
	hours := math.Round(longitudeEast / 15)
	return time.Duration(hours) * time.Hour
}
