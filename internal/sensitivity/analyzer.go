// Package sensitivity measures how much rectification value a chart carries:
// charts whose features flip under small time shifts are worth questioning.
package sensitivity

import (
	"fmt"
	"math"

	"github.com/ppiankov/rectifica/internal/chart"
	"github.com/ppiankov/rectifica/internal/model"
)

// Critical in-sign degrees. The classic bands cluster at the start, middle
// and late degrees of every sign.
var criticalDegrees = []float64{0, 13, 26}

const criticalBand = 1.0 // degrees either side of a critical degree

// Analyzer evaluates the three fixed sensitivity factors of a chart
type Analyzer struct {
	weights   model.WeightsConfig
	boundary  float64 // sign-boundary "critical zone" width, degrees
	cuspOrb   float64 // planet-to-cusp proximity orb, degrees
}

// NewAnalyzer creates an analyzer. The weights must already be validated at
// configuration load; they are trusted here.
func NewAnalyzer(weights model.WeightsConfig, chartCfg model.ChartConfig) *Analyzer {
	boundary := chartCfg.SignBoundaryThreshold
	if boundary <= 0 {
		boundary = 3.0
	}
	cuspOrb := chartCfg.CuspOrb
	if cuspOrb <= 0 {
		cuspOrb = 2.0
	}
	return &Analyzer{weights: weights, boundary: boundary, cuspOrb: cuspOrb}
}

// Analyze produces the weighted sensitivity factors in fixed order:
// ascendant, critical degrees, house cusps. The order is part of the
// contract; downstream tie-breaking depends on it.
func (a *Analyzer) Analyze(c *model.Chart) []model.Factor {
	ascRaw, ascDesc := a.ascendantScore(c)
	critRaw, critDesc := a.criticalDegreeScore(c)
	cuspRaw, cuspDesc := a.cuspProximityScore(c)

	return []model.Factor{
		a.factor(model.FactorAscendant, a.weights.Ascendant, ascRaw, ascDesc),
		a.factor(model.FactorCriticalDegrees, a.weights.CriticalDegrees, critRaw, critDesc),
		a.factor(model.FactorHouseCusps, a.weights.HouseCusps, cuspRaw, cuspDesc),
	}
}

// factor discretizes a raw score into a level and applies the weight
func (a *Analyzer) factor(name model.FactorName, weight float64, raw float64, description string) model.Factor {
	level := model.LevelFor(raw)
	return model.Factor{
		Name:         name,
		Raw:          raw,
		Level:        level,
		Weight:       weight,
		Contribution: model.LevelScore(level) * weight,
		Description:  description,
	}
}

// ascendantScore rates the Ascendant's proximity to a sign boundary. An
// ascendant in the first or last degrees of a sign flips the whole house
// layout under a small time shift, which makes questioning most valuable.
func (a *Analyzer) ascendantScore(c *model.Chart) (float64, string) {
	degInSign := model.DegreeInSign(c.Ascendant)
	dist := math.Min(degInSign, 30-degInSign)

	// Full score inside the configured boundary zone, falling off linearly
	// to zero at three times the zone width
	raw := clamp01(1 - dist/(3*a.boundary))

	return raw, fmt.Sprintf("ascendant %.2f deg into %s, %.2f deg from sign boundary",
		degInSign, model.SignName(c.Ascendant), dist)
}

// criticalDegreeScore rates how many planets sit on critical in-sign degrees
func (a *Analyzer) criticalDegreeScore(c *model.Chart) (float64, string) {
	count := 0
	for _, p := range c.Positions {
		if onCriticalDegree(p.Longitude) {
			count++
		}
	}

	// Three or more occupants saturate the factor
	raw := clamp01(float64(count) / 3)

	return raw, fmt.Sprintf("%d of %d bodies on critical degrees", count, len(c.Positions))
}

// cuspProximityScore rates how many planets hug a house cusp: a minute time
// change moves the cusp across them and changes their house
func (a *Analyzer) cuspProximityScore(c *model.Chart) (float64, string) {
	count := 0
	for _, p := range c.Positions {
		for _, cusp := range c.Cusps {
			if chart.Separation(p.Longitude, cusp.Degree) <= a.cuspOrb {
				count++
				break
			}
		}
	}

	raw := clamp01(float64(count) / 3)

	return raw, fmt.Sprintf("%d of %d bodies within %.1f deg of a house cusp",
		count, len(c.Positions), a.cuspOrb)
}

// onCriticalDegree reports whether the longitude falls within the band of
// any critical in-sign degree
func onCriticalDegree(longitude float64) bool {
	degInSign := model.DegreeInSign(longitude)
	for _, crit := range criticalDegrees {
		if math.Abs(degInSign-crit) <= criticalBand {
			return true
		}
	}
	// 29+ degrees wraps against the 0 degree band of the next sign
	return degInSign >= 30-criticalBand
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
