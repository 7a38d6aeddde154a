package model

// FactorName identifies one of the fixed sensitivity factors
type FactorName string

const (
	FactorAscendant       FactorName = "ascendant"        // ascendant near a sign boundary
	FactorCriticalDegrees FactorName = "critical_degrees" // planets on critical degrees
	FactorHouseCusps      FactorName = "house_cusps"      // planets hugging a cusp
)

// FactorOrder is the fixed output order of the analyzer, also the tie-break
// order when factors contribute equally
var FactorOrder = []FactorName{FactorAscendant, FactorCriticalDegrees, FactorHouseCusps}

// Level is the discretized strength of a sensitivity factor
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Level thresholds on the raw [0,1] factor score
const (
	LevelMediumFloor = 0.33
	LevelHighFloor   = 0.66
)

// LevelFor discretizes a raw [0,1] score into a level
func LevelFor(raw float64) Level {
	switch {
	case raw >= LevelHighFloor:
		return LevelHigh
	case raw >= LevelMediumFloor:
		return LevelMedium
	default:
		return LevelLow
	}
}

// LevelScore maps a level back to the numeric score used for weighting
func LevelScore(l Level) float64 {
	switch l {
	case LevelHigh:
		return 1.0
	case LevelMedium:
		return 0.6
	default:
		return 0.2
	}
}

// Factor is one weighted sensitivity finding for a chart
type Factor struct {
	Name         FactorName `json:"name"`
	Raw          float64    `json:"raw"`          // raw score, [0,1]
	Level        Level      `json:"level"`        // discretized from Raw
	Weight       float64    `json:"weight"`       // from configuration, factors sum to 1.0
	Contribution float64    `json:"contribution"` // LevelScore(Level) * Weight
	Description  string     `json:"description"`  // human-readable finding
}

// Band is the discrete confidence classification of a score
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Score is the bounded confidence in the current candidate window
type Score struct {
	Value float64 `json:"value"` // [0, 1]
	Band  Band    `json:"band"`
	Base  float64 `json:"base"` // weighted factor sum before answer adjustments
}
