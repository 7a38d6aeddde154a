// Package recommend maps final sensitivity findings onto a fixed catalogue
// of human-readable guidance. Pure and deterministic; not required for
// correctness of the rectified time, but part of the terminal output.
package recommend

import (
	"fmt"
	"sort"

	"github.com/ppiankov/rectifica/internal/model"
)

// catalogueEntry pairs a factor level with its guidance
type catalogueEntry struct {
	priority  int
	text      string
	rationale string
}

// catalogue is the fixed recommendation set, keyed by factor and level.
// Higher priority surfaces first in the result.
var catalogue = map[model.FactorName]map[model.Level]catalogueEntry{
	model.FactorAscendant: {
		model.LevelHigh: {
			priority:  3,
			text:      "Cross-check the rectified time against documented early-morning or late-evening events (first day of school, birth of siblings).",
			rationale: "The ascendant sits near a sign boundary, so even the rectified time is sensitive to minute errors.",
		},
		model.LevelMedium: {
			priority:  2,
			text:      "Verify descriptions of temperament and appearance against the rising sign before relying on house placements.",
			rationale: "The ascendant is moderately close to a sign boundary.",
		},
	},
	model.FactorCriticalDegrees: {
		model.LevelHigh: {
			priority:  3,
			text:      "Corroborate abrupt life turning points against dated records (moves, contracts, medical events).",
			rationale: "Multiple bodies occupy critical degrees; their house placement drives the chart reading.",
		},
		model.LevelMedium: {
			priority:  2,
			text:      "Note which planets stand on critical degrees and treat their house rulerships with extra care.",
			rationale: "Some bodies occupy critical degrees.",
		},
	},
	model.FactorHouseCusps: {
		model.LevelHigh: {
			priority:  3,
			text:      "Treat house assignments of cusp-hugging planets as provisional; a few minutes of clock error moves them.",
			rationale: "Planets sit within orb of house cusps.",
		},
		model.LevelMedium: {
			priority:  1,
			text:      "Re-run the analysis if a more precise birth record surfaces.",
			rationale: "Cusp-adjacent placements would benefit from tighter bounds.",
		},
	},
}

// Generate emits prioritized guidance from the final chart and factors,
// ordered by descending priority and then by factor contribution
func Generate(c *model.Chart, factors []model.Factor) []model.Recommendation {
	type ranked struct {
		rec          model.Recommendation
		contribution float64
	}

	var out []ranked
	for _, f := range factors {
		entry, ok := catalogue[f.Name][f.Level]
		if !ok {
			continue
		}
		out = append(out, ranked{
			rec: model.Recommendation{
				Priority:  entry.priority,
				Text:      entry.text,
				Rationale: entry.rationale,
			},
			contribution: f.Contribution,
		})
	}

	// Exact aspects deserve a note regardless of factor levels
	for _, a := range c.Aspects {
		if a.Orb < 1.0 {
			out = append(out, ranked{
				rec: model.Recommendation{
					Priority:  2,
					Text:      fmt.Sprintf("The %s-%s %s is within a degree of exact; events it signifies make strong corroboration anchors.", a.First, a.Second, a.Type),
					Rationale: fmt.Sprintf("Orb %.2f deg.", a.Orb),
				},
				contribution: 0,
			})
			break
		}
	}

	// Baseline guidance always closes the list
	out = append(out, ranked{
		rec: model.Recommendation{
			Priority:  1,
			Text:      "Record the rectified time alongside the original birth record and the answers given in this session.",
			Rationale: "Future corrections need the evidence trail, not just the conclusion.",
		},
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rec.Priority != out[j].rec.Priority {
			return out[i].rec.Priority > out[j].rec.Priority
		}
		return out[i].contribution > out[j].contribution
	})

	recs := make([]model.Recommendation, len(out))
	for i, r := range out {
		recs[i] = r.rec
	}
	return recs
}
