package rectify

import (
	"fmt"

	"github.com/ppiankov/rectifica/internal/model"
)

// Question templates per factor. Each targets a life-event correlate of the
// factor; the %s slot takes a chart detail so the question reads concretely.
var questionTemplates = map[model.FactorName][]string{
	model.FactorAscendant: {
		"People meeting you for the first time read you as strongly %s. Does that match how others describe you?",
		"A slightly earlier birth would shift your rising sign away from %s. Do descriptions of your manner and appearance fit %s traits?",
		"Did you go through a marked change in how you present yourself around ages 28-30?",
	},
	model.FactorCriticalDegrees: {
		"Charts in this window place %s at a critical degree. Have turning points in your life arrived abruptly rather than gradually?",
		"With %s on a sensitive degree here, was there a sudden decisive event (relocation, loss, windfall) that redirected your path?",
		"Do major decisions in your life tend to feel forced by circumstance rather than chosen?",
	},
	model.FactorHouseCusps: {
		"In this window %s sits on a house boundary. Did matters of career and home feel entangled during your twenties?",
		"Small shifts in birth time move %s between adjacent houses. Were siblings or close neighbors unusually central to your childhood?",
		"Have the themes of partnerships and work rivalries been hard to separate in your life?",
	},
}

// buildQuestion fills the next template for the factor with chart details.
// Cycling templates by ask count keeps repeated targeting of one factor from
// repeating the same words.
func buildQuestion(number int, factor model.Factor, c *model.Chart, askCount int, subWindow model.Window) model.Question {
	templates := questionTemplates[factor.Name]
	tmpl := templates[askCount%len(templates)]

	text := fillTemplate(tmpl, factor.Name, c, askCount)
	return model.Question{
		Number:    number,
		Factor:    factor.Name,
		Text:      text,
		SubWindow: subWindow,
	}
}

// fillTemplate substitutes chart details into the template
func fillTemplate(tmpl string, name model.FactorName, c *model.Chart, askCount int) string {
	switch name {
	case model.FactorAscendant:
		sign := model.SignName(c.Ascendant)
		return sprintfN(tmpl, sign, sign)
	case model.FactorCriticalDegrees:
		if body, ok := firstCriticalBody(c); ok {
			return sprintfN(tmpl, string(body))
		}
		return sprintfN(tmpl, "the Moon")
	case model.FactorHouseCusps:
		if body, ok := firstCuspBody(c); ok {
			return sprintfN(tmpl, string(body))
		}
		return sprintfN(tmpl, "Saturn")
	}
	return tmpl
}

// sprintfN formats with however many %s verbs the template carries
func sprintfN(tmpl string, args ...string) string {
	verbs := 0
	for i := 0; i+1 < len(tmpl); i++ {
		if tmpl[i] == '%' && tmpl[i+1] == 's' {
			verbs++
		}
	}
	if verbs == 0 {
		return tmpl
	}
	iargs := make([]interface{}, verbs)
	for i := 0; i < verbs; i++ {
		iargs[i] = args[i%len(args)]
	}
	return fmt.Sprintf(tmpl, iargs...)
}

// firstCriticalBody returns the first body (in fixed order) near a critical
// in-sign degree
func firstCriticalBody(c *model.Chart) (model.Body, bool) {
	for _, p := range c.Positions {
		deg := model.DegreeInSign(p.Longitude)
		for _, crit := range []float64{0, 13, 26} {
			if deg >= crit-1 && deg <= crit+1 {
				return p.Body, true
			}
		}
	}
	return "", false
}

// firstCuspBody returns the first body within two degrees of a cusp
func firstCuspBody(c *model.Chart) (model.Body, bool) {
	for _, p := range c.Positions {
		for _, cusp := range c.Cusps {
			d := model.NormalizeDegrees(p.Longitude - cusp.Degree)
			if d <= 2 || d >= 358 {
				return p.Body, true
			}
		}
	}
	return "", false
}
