package ephemeris

import (
	"math"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

// J2000 is the Julian day of the standard epoch 2000-01-01T12:00 TT
const J2000 = 2451545.0

// JulianDay converts a UTC time to a Julian day number
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	y := t.Year()
	m := int(t.Month())
	if m <= 2 {
		y--
		m += 12
	}

	a := y / 100
	b := 2 - a + a/4

	dayFrac := float64(t.Hour())/24 + float64(t.Minute())/1440 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/86400

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(t.Day()) + dayFrac + float64(b) - 1524.5
}

// JulianCenturies returns Julian centuries elapsed since J2000
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// Obliquity returns the mean obliquity of the ecliptic in degrees
func Obliquity(jd float64) float64 {
	t := JulianCenturies(jd)
	return 23.43929111 - 0.0130041667*t - 1.6667e-7*t*t
}

// GMST returns the Greenwich mean sidereal time in degrees, [0, 360)
func GMST(jd float64) float64 {
	t := JulianCenturies(jd)
	gmst := 280.46061837 + 360.98564736629*(jd-J2000) +
		0.000387933*t*t - t*t*t/38710000.0
	return model.NormalizeDegrees(gmst)
}

// LocalSiderealTime returns the local sidereal time in degrees for a
// longitude given east-positive
func LocalSiderealTime(jd, longitudeEast float64) float64 {
	return model.NormalizeDegrees(GMST(jd) + longitudeEast)
}
