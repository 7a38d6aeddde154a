package model

import "math"

// Body identifies one of the nine bodies used in sidereal chart work
type Body string

const (
	BodySun     Body = "Sun"
	BodyMoon    Body = "Moon"
	BodyMars    Body = "Mars"
	BodyMercury Body = "Mercury"
	BodyJupiter Body = "Jupiter"
	BodyVenus   Body = "Venus"
	BodySaturn  Body = "Saturn"
	BodyRahu    Body = "Rahu" // ascending lunar node
	BodyKetu    Body = "Ketu" // descending lunar node
)

// AllBodies is the fixed, ordered body set every chart must contain
var AllBodies = []Body{
	BodySun, BodyMoon, BodyMars, BodyMercury, BodyJupiter,
	BodyVenus, BodySaturn, BodyRahu, BodyKetu,
}

// PlanetaryPosition is a body's sidereal position at one instant.
// Produced fresh per instant and never mutated after creation.
type PlanetaryPosition struct {
	Body      Body    `json:"body"`
	Longitude float64 `json:"longitude"` // sidereal ecliptic longitude, [0, 360)
	Latitude  float64 `json:"latitude"`  // ecliptic latitude, [-90, 90]
	Speed     float64 `json:"speed"`     // degrees/day, negative when retrograde
	House     int     `json:"house,omitempty"` // 1-12, assigned during chart assembly
}

// HouseCusp is the boundary degree opening one of the 12 houses. House N
// spans from cusp N to cusp N+1, wrapping at 12 back to 1.
type HouseCusp struct {
	House  int     `json:"house"`  // 1-12
	Degree float64 `json:"degree"` // [0, 360)
}

// AspectType names an angular relationship between two bodies
type AspectType string

const (
	AspectConjunction AspectType = "conjunction" // 0 deg
	AspectSextile     AspectType = "sextile"     // 60 deg
	AspectSquare      AspectType = "square"      // 90 deg
	AspectTrine       AspectType = "trine"       // 120 deg
	AspectOpposition  AspectType = "opposition"  // 180 deg
)

// AspectAngles maps each aspect type to its exact angle in degrees
var AspectAngles = map[AspectType]float64{
	AspectConjunction: 0,
	AspectSextile:     60,
	AspectSquare:      90,
	AspectTrine:       120,
	AspectOpposition:  180,
}

// Aspect records a detected angular relationship. At most one aspect is
// recorded per unordered body pair.
type Aspect struct {
	First      Body       `json:"first"`
	Second     Body       `json:"second"`
	Type       AspectType `json:"type"`
	Separation float64    `json:"separation"` // angular separation, [0, 180]
	Orb        float64    `json:"orb"`        // absolute deviation from the exact angle
}

// Chart is a fully assembled birth chart for one candidate instant. A chart
// is owned exclusively by the iteration that created it.
type Chart struct {
	Instant   Instant             `json:"instant"`
	Ascendant float64             `json:"ascendant"` // sidereal degree of house 1's cusp
	Ayanamsa  float64             `json:"ayanamsa"`  // sidereal correction applied, degrees
	Positions []PlanetaryPosition `json:"positions"`
	Cusps     []HouseCusp         `json:"cusps"`
	Aspects   []Aspect            `json:"aspects"`
}

// Position returns the position of the given body, if present
func (c *Chart) Position(b Body) (PlanetaryPosition, bool) {
	for _, p := range c.Positions {
		if p.Body == b {
			return p, true
		}
	}
	return PlanetaryPosition{}, false
}

// SignNames are the twelve zodiac signs in ecliptic order
var SignNames = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NormalizeDegrees wraps d into [0, 360)
func NormalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// SignIndex returns the zodiac sign index (0-11) containing the longitude
func SignIndex(longitude float64) int {
	return int(NormalizeDegrees(longitude) / 30)
}

// SignName returns the zodiac sign name containing the longitude
func SignName(longitude float64) string {
	return SignNames[SignIndex(longitude)]
}

// DegreeInSign returns the degree within the sign, [0, 30)
func DegreeInSign(longitude float64) float64 {
	return math.Mod(NormalizeDegrees(longitude), 30)
}
