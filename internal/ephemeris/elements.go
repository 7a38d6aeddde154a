package ephemeris

import "math"

// orbitalElements are mean Keplerian elements at J2000 plus linear rates per
// Julian century, after the standard low-precision planetary tables. Angles
// are in degrees, the semi-major axis in astronomical units.
type orbitalElements struct {
	a, aDot       float64 // semi-major axis
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination
	l, lDot       float64 // mean longitude
	peri, periDot float64 // longitude of perihelion
	node, nodeDot float64 // longitude of ascending node
}

var planetElements = map[string]orbitalElements{
	"mercury": {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	"venus": {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	"earth": {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0},
	"mars": {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	"jupiter": {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	"saturn": {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
}

const degToRad = math.Pi / 180

// at evaluates the elements at t Julian centuries from J2000
func (o orbitalElements) at(t float64) orbitalElements {
	return orbitalElements{
		a:    o.a + o.aDot*t,
		e:    o.e + o.eDot*t,
		i:    o.i + o.iDot*t,
		l:    o.l + o.lDot*t,
		peri: o.peri + o.periDot*t,
		node: o.node + o.nodeDot*t,
	}
}

// solveKepler iterates Kepler's equation for the eccentric anomaly.
// meanAnomaly in radians; converges in a handful of steps for e < 0.1.
func solveKepler(meanAnomaly, e float64) float64 {
	ecc := meanAnomaly
	for iter := 0; iter < 20; iter++ {
		delta := (ecc - e*math.Sin(ecc) - meanAnomaly) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-10 {
			break
		}
	}
	return ecc
}

// heliocentric returns the heliocentric ecliptic rectangular coordinates of
// the planet in astronomical units at t Julian centuries from J2000
func heliocentric(name string, t float64) (x, y, z float64) {
	o := planetElements[name].at(t)

	m := (o.l - o.peri) * degToRad // mean anomaly
	w := (o.peri - o.node) * degToRad
	node := o.node * degToRad
	inc := o.i * degToRad

	ecc := solveKepler(math.Mod(m, 2*math.Pi), o.e)

	// Position in the orbital plane
	xp := o.a * (math.Cos(ecc) - o.e)
	yp := o.a * math.Sqrt(1-o.e*o.e) * math.Sin(ecc)

	// Rotate through argument of perihelion, inclination, ascending node
	cosW, sinW := math.Cos(w), math.Sin(w)
	cosN, sinN := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(inc), math.Sin(inc)

	x = (cosW*cosN-sinW*sinN*cosI)*xp + (-sinW*cosN-cosW*sinN*cosI)*yp
	y = (cosW*sinN+sinW*cosN*cosI)*xp + (-sinW*sinN+cosW*cosN*cosI)*yp
	z = (sinW*sinI)*xp + (cosW*sinI)*yp
	return x, y, z
}

// geocentricEcliptic returns the geocentric ecliptic longitude and latitude
// in degrees for a planet, by differencing heliocentric vectors
func geocentricEcliptic(name string, t float64) (lon, lat float64) {
	px, py, pz := heliocentric(name, t)
	ex, ey, ez := heliocentric("earth", t)

	gx, gy, gz := px-ex, py-ey, pz-ez
	lon = math.Atan2(gy, gx) / degToRad
	lat = math.Atan2(gz, math.Sqrt(gx*gx+gy*gy)) / degToRad
	return lon, lat
}

// sunEcliptic returns the geocentric ecliptic longitude and latitude of the
// Sun in degrees: the anti-direction of Earth's heliocentric position
func sunEcliptic(t float64) (lon, lat float64) {
	ex, ey, ez := heliocentric("earth", t)
	lon = math.Atan2(-ey, -ex) / degToRad
	lat = math.Atan2(-ez, math.Sqrt(ex*ex+ey*ey)) / degToRad
	return lon, lat
}
