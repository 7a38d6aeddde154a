package model

// Recommendation is one piece of prioritized guidance emitted with the final
// result. Higher priority sorts first; ties break on the contribution of the
// factor that produced the recommendation.
type Recommendation struct {
	Priority  int    `json:"priority"`
	Text      string `json:"text"`
	Rationale string `json:"rationale"`
}
