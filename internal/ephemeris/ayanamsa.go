package ephemeris

// Ayanamsa is the sidereal correction in degrees at a given Julian day
type Ayanamsa func(jd float64) float64

// Precession rate in degrees per Julian year (50.29 arcsec)
const precessionPerYear = 50.29 / 3600

// lahiriAtJ2000 is the Lahiri (Chitrapaksha) ayanamsa at the J2000 epoch
const lahiriAtJ2000 = 23.85

// LahiriAyanamsa returns the widely used Lahiri ayanamsa under a linear
// precession model
func LahiriAyanamsa(jd float64) float64 {
	years := (jd - J2000) / 365.25
	return lahiriAtJ2000 + years*precessionPerYear
}

// FixedAyanamsa returns an ayanamsa model pinned to a constant offset
func FixedAyanamsa(deg float64) Ayanamsa {
	return func(float64) float64 { return deg }
}
