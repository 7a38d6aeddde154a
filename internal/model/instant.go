package model

import (
	"fmt"
	"time"
)

// Location is a geographic point on Earth
type Location struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`  // degrees north, [-90, 90]
	Longitude float64 `json:"longitude"` // degrees east, [-180, 180]
	Elevation float64 `json:"elevation,omitempty"` // meters, optional
}

// Validate checks that the coordinates are on the globe
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.4f out of range", ErrInvalidInput, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.4f out of range", ErrInvalidInput, l.Longitude)
	}
	return nil
}

// Instant is a civil date-time anchored to a location with a resolved UTC
// offset. Immutable once constructed: all methods return new values.
type Instant struct {
	Civil    time.Time `json:"civil"` // wall-clock time in the resolved fixed-offset zone
	Location Location  `json:"location"`
	Resolved bool      `json:"resolved"` // whether the UTC offset was resolved
}

// NewInstant builds an Instant from a civil date ("2006-01-02"), a clock time
// ("15:04"), a location and a resolved UTC offset (east of UTC)
func NewInstant(date, clock string, loc Location, offset time.Duration) (Instant, error) {
	if err := loc.Validate(); err != nil {
		return Instant{}, err
	}

	zone := time.FixedZone("", int(offset/time.Second))
	civil, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, zone)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: parse %q %q: %v", ErrInvalidInput, date, clock, err)
	}

	return Instant{
		Civil:    civil,
		Location: loc,
		Resolved: true,
	}, nil
}

// UTC returns the instant as a UTC time.Time
func (in Instant) UTC() time.Time {
	return in.Civil.UTC()
}

// Add returns a new Instant shifted by d, keeping location and zone
func (in Instant) Add(d time.Duration) Instant {
	out := in
	out.Civil = in.Civil.Add(d)
	return out
}

// Sub returns the duration between two instants
func (in Instant) Sub(other Instant) time.Duration {
	return in.Civil.Sub(other.Civil)
}

// Before reports whether in precedes other
func (in Instant) Before(other Instant) bool {
	return in.Civil.Before(other.Civil)
}

// Equal reports whether two instants denote the same moment
func (in Instant) Equal(other Instant) bool {
	return in.Civil.Equal(other.Civil)
}

func (in Instant) String() string {
	return in.Civil.Format("2006-01-02 15:04:05 -07:00")
}

// Window is a closed interval of candidate birth instants. The rectification
// loop only ever narrows a window, never widens it.
type Window struct {
	Earliest Instant `json:"earliest"`
	Latest   Instant `json:"latest"`
}

// NewWindow builds a window, validating the bounds ordering
func NewWindow(earliest, latest Instant) (Window, error) {
	if latest.Before(earliest) {
		return Window{}, fmt.Errorf("%w: window latest precedes earliest", ErrInvalidInput)
	}
	return Window{Earliest: earliest, Latest: latest}, nil
}

// Midpoint returns the instant halfway between the bounds
func (w Window) Midpoint() Instant {
	return w.Earliest.Add(w.Latest.Sub(w.Earliest) / 2)
}

// Length returns the span of the window
func (w Window) Length() time.Duration {
	return w.Latest.Sub(w.Earliest)
}

// Halves splits the window at its midpoint
func (w Window) Halves() (Window, Window) {
	mid := w.Midpoint()
	return Window{Earliest: w.Earliest, Latest: mid}, Window{Earliest: mid, Latest: w.Latest}
}

// Intersect returns the overlap of two windows and whether it is non-empty
func (w Window) Intersect(other Window) (Window, bool) {
	lo := w.Earliest
	if other.Earliest.Civil.After(lo.Civil) {
		lo = other.Earliest
	}
	hi := w.Latest
	if other.Latest.Before(hi) {
		hi = other.Latest
	}
	if hi.Before(lo) {
		return Window{}, false
	}
	return Window{Earliest: lo, Latest: hi}, true
}
