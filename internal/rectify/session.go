package rectify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/rectifica/internal/model"
)

// Session is one rectification run. All mutation happens inside the engine
// under the session mutex; that is the single serialization boundary, so the
// monotonic-narrowing and absorbing-terminal-state invariants hold by
// construction. Once terminated a session is frozen.
type Session struct {
	ID string

	mu           sync.Mutex
	state        model.State
	window       model.Window
	score        model.Score
	qas          []model.QA
	pending      *pendingIteration
	asked        map[model.FactorName]int // questions asked per factor
	best         candidate
	outcome      model.Outcome
	rectified    model.Instant
	finalChart   *model.Chart
	finalFactors []model.Factor
	violations   int
	startedAt    time.Time
	terminatedAt time.Time
}

// pendingIteration carries the chart context of an asked-but-unanswered
// question. The iteration commits or discards as a whole.
type pendingIteration struct {
	question model.Question
	chart    *model.Chart
	factors  []model.Factor
}

// candidate tracks the best-scoring instant seen across all speculative and
// midpoint evaluations, used as the rectified time for Exhausted/TimedOut
type candidate struct {
	instant model.Instant
	score   float64
	valid   bool
}

// consider keeps the higher-scoring of the two candidates
func (c *candidate) consider(in model.Instant, score float64) {
	if !c.valid || score > c.score {
		c.instant = in
		c.score = score
		c.valid = true
	}
}

func newSession(window model.Window, startedAt time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		state:     model.StateQuestioning,
		window:    window,
		asked:     make(map[model.FactorName]int),
		startedAt: startedAt,
	}
}

// State returns the session's current state
func (s *Session) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Window returns the current candidate window
func (s *Session) Window() model.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Confidence returns the latest confidence score
func (s *Session) Confidence() model.Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// QuestionCount returns the number of answered questions
func (s *Session) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.qas)
}

// Questions returns a copy of the asked question/answer log
func (s *Session) Questions() []model.QA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.QA, len(s.qas))
	copy(out, s.qas)
	return out
}
