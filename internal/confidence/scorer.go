// Package confidence converts sensitivity factors and questionnaire evidence
// into a bounded confidence score.
package confidence

import (
	"math"

	"github.com/ppiankov/rectifica/internal/model"
)

// Scorer combines the weighted factor contributions with the answer history.
// Scoring is a pure function of its inputs: the same factors and answers
// always reproduce the same score.
type Scorer struct {
	bonus   float64 // per corroborating answer
	penalty float64 // per contradicting answer
	bands   model.BandsConfig
}

// NewScorer creates a scorer from the loop and band configuration
func NewScorer(rectify model.RectifyConfig, bands model.BandsConfig) *Scorer {
	return &Scorer{
		bonus:   rectify.CorroborationBonus,
		penalty: rectify.ContradictionPenalty,
		bands:   bands,
	}
}

// Score computes the confidence in the current candidate window. The base is
// the weighted factor sum, which stays within [0,1] because the weights sum
// to 1 and each level score is at most 1. Corroborations add a bounded bonus,
// contradictions a penalty; the result is clamped to [0,1] either way.
func (s *Scorer) Score(factors []model.Factor, answers []model.QA) model.Score {
	base := 0.0
	for _, f := range factors {
		base += f.Contribution
	}

	value := base
	for _, qa := range answers {
		switch {
		case qa.Answer.Corroborates():
			value += s.bonus
		case qa.Answer.Contradicts():
			value -= s.penalty
		}
	}
	value = math.Max(0, math.Min(1, value))

	return model.Score{
		Value: value,
		Band:  s.band(value),
		Base:  base,
	}
}

// band classifies the score against the configured thresholds: scores below
// the low bound are Low, scores at or above the high bound are High, and
// everything between is Medium
func (s *Scorer) band(value float64) model.Band {
	switch {
	case value >= s.bands.High:
		return model.BandHigh
	case value >= s.bands.Low:
		return model.BandMedium
	default:
		return model.BandLow
	}
}
