package model

import "time"

// State is the tagged state of a rectification session. Invalid combinations
// (e.g. a terminated session accepting answers) are rejected by construction
// in the engine's single transition path.
type State string

const (
	StateInitializing State = "INITIALIZING"
	StateQuestioning  State = "QUESTIONING"
	StateScoring      State = "SCORING"
	StateTerminated   State = "TERMINATED"
)

// Outcome is the terminal disposition of a session
type Outcome string

const (
	OutcomeConverged Outcome = "converged" // confidence threshold reached
	OutcomeExhausted Outcome = "exhausted" // question budget spent
	OutcomeTimedOut  Outcome = "timed_out" // wall-clock budget spent
	OutcomeCancelled Outcome = "cancelled" // caller aborted
)

// Question asks the user to corroborate or contradict a life-event correlate
// of the targeted sensitivity factor
type Question struct {
	Number    int        `json:"number"` // 1-based position in the session
	Factor    FactorName `json:"factor"`
	Text      string     `json:"text"`
	SubWindow Window     `json:"sub_window"` // window implied by a "yes" answer
}

// Answer is the user's response to a question
type Answer string

const (
	AnswerYes  Answer = "yes"  // corroborates the implied sub-window
	AnswerNo   Answer = "no"   // contradicts it
	AnswerSkip Answer = "skip" // no evidence either way
)

// Corroborates reports whether the answer supports the implied sub-window
func (a Answer) Corroborates() bool { return a == AnswerYes }

// Contradicts reports whether the answer disputes the implied sub-window
func (a Answer) Contradicts() bool { return a == AnswerNo }

// Valid reports whether the answer is one of the recognized values
func (a Answer) Valid() bool {
	return a == AnswerYes || a == AnswerNo || a == AnswerSkip
}

// QA is one asked question with its received answer
type QA struct {
	Question Question `json:"question"`
	Answer   Answer   `json:"answer"`
}

// Result is the terminal output contract of a session
type Result struct {
	SessionID       string           `json:"session_id"`
	Outcome         Outcome          `json:"outcome"`
	RectifiedTime   Instant          `json:"rectified_time"`
	Confidence      Score            `json:"confidence"`
	Chart           *Chart           `json:"chart,omitempty"`
	Factors         []Factor         `json:"factors,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Questions       []QA             `json:"questions,omitempty"`
	Elapsed         time.Duration    `json:"elapsed"`
}
