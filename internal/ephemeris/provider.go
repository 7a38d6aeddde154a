package ephemeris

import (
	"fmt"

	"github.com/ppiankov/rectifica/internal/model"
)

// Provider computes sidereal positions for the fixed body set at an instant.
// Implementations must be deterministic: the same instant always yields
// bit-identical positions.
type Provider interface {
	Positions(in model.Instant) ([]model.PlanetaryPosition, error)
}

// speedStep is the half-interval for the central-difference daily motion
const speedStep = 0.5 // days

// Analytic is a self-contained ephemeris built on low-precision mean-element
// series: Keplerian elements for the planets, a truncated lunar series for
// the Moon, and the mean node for Rahu/Ketu. Accuracy is within a few arc
// minutes for longitudes, which is ample for sensitivity analysis.
type Analytic struct {
	ayanamsa Ayanamsa
}

// NewAnalytic creates an analytic provider with the given ayanamsa model
func NewAnalytic(ayanamsa Ayanamsa) *Analytic {
	if ayanamsa == nil {
		ayanamsa = LahiriAyanamsa
	}
	return &Analytic{ayanamsa: ayanamsa}
}

// AyanamsaAt returns the sidereal correction applied at the Julian day
func (a *Analytic) AyanamsaAt(jd float64) float64 {
	return a.ayanamsa(jd)
}

// tropical returns the tropical ecliptic longitude and latitude in degrees
// for one body at t Julian centuries from J2000
func tropical(body model.Body, t float64) (lon, lat float64) {
	switch body {
	case model.BodySun:
		return sunEcliptic(t)
	case model.BodyMoon:
		return moonEcliptic(t)
	case model.BodyMercury:
		return geocentricEcliptic("mercury", t)
	case model.BodyVenus:
		return geocentricEcliptic("venus", t)
	case model.BodyMars:
		return geocentricEcliptic("mars", t)
	case model.BodyJupiter:
		return geocentricEcliptic("jupiter", t)
	case model.BodySaturn:
		return geocentricEcliptic("saturn", t)
	case model.BodyRahu:
		return meanLunarNode(t), 0
	case model.BodyKetu:
		return meanLunarNode(t) + 180, 0
	}
	return 0, 0
}

// Positions computes the full body set for the instant. Fails when the
// instant's UTC offset was never resolved.
func (a *Analytic) Positions(in model.Instant) ([]model.PlanetaryPosition, error) {
	if !in.Resolved {
		return nil, fmt.Errorf("%w: instant has no resolved UTC offset", model.ErrInvalidInstant)
	}

	jd := JulianDay(in.UTC())
	t := JulianCenturies(jd)
	ay := a.ayanamsa(jd)

	positions := make([]model.PlanetaryPosition, 0, len(model.AllBodies))
	for _, body := range model.AllBodies {
		lon, lat := tropical(body, t)

		// Daily motion by central difference of the tropical longitude;
		// the ayanamsa drift over a day is negligible
		before, _ := tropical(body, JulianCenturies(jd-speedStep))
		after, _ := tropical(body, JulianCenturies(jd+speedStep))
		speed := wrappedDelta(after, before) / (2 * speedStep)

		positions = append(positions, model.PlanetaryPosition{
			Body:      body,
			Longitude: model.NormalizeDegrees(lon - ay),
			Latitude:  lat,
			Speed:     speed,
		})
	}

	return positions, nil
}

// wrappedDelta returns a-b in degrees, mapped to (-180, 180]
func wrappedDelta(a, b float64) float64 {
	d := model.NormalizeDegrees(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}
