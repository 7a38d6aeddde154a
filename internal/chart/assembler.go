// Package chart assembles normalized birth charts from planetary positions:
// house cusps, planet-to-house assignment, and pairwise aspects.
package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/ppiankov/rectifica/internal/ephemeris"
	"github.com/ppiankov/rectifica/internal/model"
)

// Assembler builds charts under the equal-house system: twelve 30-degree
// houses anchored at the Ascendant. Other house systems would slot in here,
// but equal-house is the documented default policy.
type Assembler struct {
	aspectOrb float64 // max deviation from an exact aspect angle, degrees
}

// NewAssembler creates an assembler with the given aspect orb tolerance
func NewAssembler(aspectOrb float64) *Assembler {
	if aspectOrb <= 0 {
		aspectOrb = 8.0
	}
	return &Assembler{aspectOrb: aspectOrb}
}

// Assemble builds a chart from the instant, its positions and the ayanamsa
// in effect. Pure transformation: no side effects, no stored state.
func (a *Assembler) Assemble(in model.Instant, positions []model.PlanetaryPosition, ayanamsa float64) (*model.Chart, error) {
	if err := checkBodySet(positions); err != nil {
		return nil, err
	}

	asc := Ascendant(in, ayanamsa)
	cusps := equalHouseCusps(asc)

	assigned := make([]model.PlanetaryPosition, len(positions))
	copy(assigned, positions)
	for i := range assigned {
		assigned[i].House = houseOf(assigned[i].Longitude, cusps)
	}

	return &model.Chart{
		Instant:   in,
		Ascendant: asc,
		Ayanamsa:  ayanamsa,
		Positions: assigned,
		Cusps:     cusps,
		Aspects:   a.aspects(assigned),
	}, nil
}

// checkBodySet verifies every body of the fixed set has exactly one position
func checkBodySet(positions []model.PlanetaryPosition) error {
	seen := make(map[model.Body]bool, len(positions))
	for _, p := range positions {
		seen[p.Body] = true
	}
	for _, body := range model.AllBodies {
		if !seen[body] {
			return fmt.Errorf("%w: missing %s", model.ErrIncompleteChartData, body)
		}
	}
	return nil
}

// Ascendant returns the sidereal degree rising on the eastern horizon at the
// instant and location, using the standard horizon formula
func Ascendant(in model.Instant, ayanamsa float64) float64 {
	jd := ephemeris.JulianDay(in.UTC())
	ramc := ephemeris.LocalSiderealTime(jd, in.Location.Longitude)
	eps := ephemeris.Obliquity(jd)

	const rad = math.Pi / 180
	lat := in.Location.Latitude * rad

	y := -math.Cos(ramc * rad)
	x := math.Sin(ramc*rad)*math.Cos(eps*rad) + math.Tan(lat)*math.Sin(eps*rad)

	tropical := model.NormalizeDegrees(math.Atan2(y, x) / rad)
	return model.NormalizeDegrees(tropical - ayanamsa)
}

// equalHouseCusps lays out twelve equal houses starting at the Ascendant
func equalHouseCusps(ascendant float64) []model.HouseCusp {
	cusps := make([]model.HouseCusp, 12)
	for i := 0; i < 12; i++ {
		cusps[i] = model.HouseCusp{
			House:  i + 1,
			Degree: model.NormalizeDegrees(ascendant + float64(i)*30),
		}
	}
	return cusps
}

// houseOf finds the house whose wrap-aware span contains the longitude.
// The spans partition [0, 360), so exactly one house matches.
func houseOf(longitude float64, cusps []model.HouseCusp) int {
	lon := model.NormalizeDegrees(longitude)
	for i, cusp := range cusps {
		next := cusps[(i+1)%12].Degree
		if spanContains(cusp.Degree, next, lon) {
			return cusp.House
		}
	}
	// Unreachable for a proper cusp set; house 1 keeps the partition total
	return 1
}

// spanContains reports whether lon lies in [from, to) going forward around
// the circle
func spanContains(from, to, lon float64) bool {
	if from <= to {
		return lon >= from && lon < to
	}
	return lon >= from || lon < to
}

// Separation returns the angular separation of two longitudes, [0, 180]
func Separation(a, b float64) float64 {
	d := math.Abs(model.NormalizeDegrees(a) - model.NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// aspects detects at most one aspect per unordered body pair: the type whose
// exact angle is nearest the separation, recorded when the orb is within
// tolerance. On an exact tie between two angles the closer type wins by
// iteration order over the fixed angle list.
func (a *Assembler) aspects(positions []model.PlanetaryPosition) []model.Aspect {
	ordered := []model.AspectType{
		model.AspectConjunction, model.AspectSextile, model.AspectSquare,
		model.AspectTrine, model.AspectOpposition,
	}

	var aspects []model.Aspect
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			sep := Separation(positions[i].Longitude, positions[j].Longitude)

			best := model.AspectType("")
			bestOrb := math.MaxFloat64
			for _, typ := range ordered {
				orb := math.Abs(sep - model.AspectAngles[typ])
				if orb < bestOrb {
					best = typ
					bestOrb = orb
				}
			}

			if bestOrb <= a.aspectOrb {
				aspects = append(aspects, model.Aspect{
					First:      positions[i].Body,
					Second:     positions[j].Body,
					Type:       best,
					Separation: sep,
					Orb:        bestOrb,
				})
			}
		}
	}

	sort.Slice(aspects, func(i, j int) bool { return aspects[i].Orb < aspects[j].Orb })
	return aspects
}
