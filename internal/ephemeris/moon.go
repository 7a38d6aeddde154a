package ephemeris

import "math"

// moonEcliptic returns the geocentric ecliptic longitude and latitude of the
// Moon in degrees, using a truncated form of the standard lunar series. The
// leading terms keep longitude within a few arc minutes of the full theory,
// plenty for house and aspect work.
func moonEcliptic(t float64) (lon, lat float64) {
	// Fundamental arguments, degrees
	lp := 218.3164477 + 481267.88123421*t // mean longitude
	d := 297.8501921 + 445267.1114034*t   // mean elongation
	m := 357.5291092 + 35999.0502909*t    // Sun's mean anomaly
	mp := 134.9633964 + 477198.8675055*t  // Moon's mean anomaly
	f := 93.2720950 + 483202.0175233*t    // argument of latitude

	sin := func(deg float64) float64 { return math.Sin(deg * degToRad) }

	lon = lp +
		6.288774*sin(mp) +
		1.274027*sin(2*d-mp) +
		0.658314*sin(2*d) +
		0.213618*sin(2*mp) -
		0.185116*sin(m) -
		0.114332*sin(2*f) +
		0.058793*sin(2*d-2*mp) +
		0.057066*sin(2*d-m-mp)

	lat = 5.128122*sin(f) +
		0.280602*sin(mp+f) +
		0.277693*sin(mp-f) +
		0.173237*sin(2*d-f)

	return lon, lat
}

// meanLunarNode returns the mean longitude of the Moon's ascending node
// (Rahu) in degrees. The node regresses, so its daily motion is negative.
func meanLunarNode(t float64) float64 {
	return 125.0445479 - 1934.1362891*t + 0.0020754*t*t
}
