package rectify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/rectifica/internal/model"
	"github.com/ppiankov/rectifica/internal/recommend"
	"github.com/ppiankov/rectifica/internal/worker"
)

// NextQuestion computes a chart for the current window midpoint, analyzes
// its sensitivity, and returns the question targeting the most valuable
// unresolved factor. Asking again before answering returns the same
// question. Chart failures abort this iteration only: session state is
// untouched and the call may be retried.
func (e *Engine) NextQuestion(s *Session) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == model.StateTerminated {
		return nil, model.ErrSessionClosed
	}
	if s.pending != nil {
		q := s.pending.question
		return &q, nil
	}

	mid := s.window.Midpoint()
	c, factors, err := e.evalChart(mid)
	if err != nil {
		return nil, fmt.Errorf("evaluate midpoint: %w", err)
	}

	target := e.pickFactor(s, factors)
	sub := impliedSubWindow(s.window, c)
	q := buildQuestion(len(s.qas)+1, target, c, s.asked[target.Name], sub)

	s.pending = &pendingIteration{question: q, chart: c, factors: factors}
	s.asked[target.Name]++

	e.logger.Debug("question generated",
		zap.String("session", s.ID),
		zap.Int("number", q.Number),
		zap.String("factor", string(q.Factor)))
	return &q, nil
}

// pickFactor targets the least-asked factor, preferring higher contribution,
// falling back to the fixed factor order on ties
func (e *Engine) pickFactor(s *Session, factors []model.Factor) model.Factor {
	best := factors[0]
	for _, f := range factors[1:] {
		switch {
		case s.asked[f.Name] < s.asked[best.Name]:
			best = f
		case s.asked[f.Name] == s.asked[best.Name] && f.Contribution > best.Contribution:
			best = f
		}
	}
	return best
}

// impliedSubWindow picks the half of the window a "yes" answer supports. An
// ascendant early in its sign implies the true time leans toward the earlier
// half (less sidereal rotation); a late ascendant leans later.
func impliedSubWindow(w model.Window, c *model.Chart) model.Window {
	earlier, later := w.Halves()
	if model.DegreeInSign(c.Ascendant) < 15 {
		return earlier
	}
	return later
}

// SubmitAnswer runs the SCORING step: update the confidence score, narrow
// the window, run the speculative fan-out, and apply the transition rule.
// The whole iteration commits atomically or not at all.
func (e *Engine) SubmitAnswer(s *Session, answer model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == model.StateTerminated {
		return model.ErrSessionClosed
	}
	if s.pending == nil {
		return fmt.Errorf("%w: no question pending", model.ErrInvalidInput)
	}
	if !answer.Valid() {
		return fmt.Errorf("%w: answer must be yes, no or skip", model.ErrInvalidInput)
	}

	s.state = model.StateScoring

	qa := model.QA{Question: s.pending.question, Answer: answer}
	newQAs := append(append([]model.QA(nil), s.qas...), qa)
	newScore := e.scorer.Score(s.pending.factors, newQAs)
	newWindow := e.narrow(s, qa)

	// Midpoint of this iteration is always a candidate for the best seen
	s.best.consider(s.pending.chart.Instant, newScore.Base)

	// Speculative evaluation of several candidates in the narrowed window;
	// pure computation, so no state is shared during fan-out
	e.fanOut(s, newWindow, newQAs)

	// Commit the iteration
	s.qas = newQAs
	s.score = newScore
	s.window = newWindow
	s.pending = nil

	e.transition(s)
	return nil
}

// narrow maps the answer onto the next candidate window. Corroboration
// narrows to the implied sub-window; contradiction narrows to its
// complement; a skip leaves the window alone. A window may never widen: a
// widening update is rejected and logged, and the session continues.
func (e *Engine) narrow(s *Session, qa model.QA) model.Window {
	var proposed model.Window
	switch {
	case qa.Answer.Corroborates():
		intersected, ok := s.window.Intersect(qa.Question.SubWindow)
		if !ok {
			return s.window
		}
		proposed = intersected
	case qa.Answer.Contradicts():
		proposed = complementHalf(s.window, qa.Question.SubWindow)
	default:
		return s.window
	}

	if proposed.Length() > s.window.Length() {
		s.violations++
		e.logger.Warn("window narrowing violation: update rejected",
			zap.String("session", s.ID),
			zap.Duration("current", s.window.Length()),
			zap.Duration("proposed", proposed.Length()))
		return s.window
	}
	return proposed
}

// complementHalf returns the other half of the window relative to the
// implied sub-window
func complementHalf(w, sub model.Window) model.Window {
	earlier, later := w.Halves()
	if sub.Earliest.Equal(w.Earliest) {
		return later
	}
	return earlier
}

// candidateJob scores one speculative instant
type candidateJob struct {
	engine  *Engine
	instant model.Instant
	answers []model.QA
}

type candidateResult struct {
	instant model.Instant
	score   float64
	err     error
}

func (r candidateResult) Err() error { return r.err }

// Execute evaluates the candidate chart and scores it against the shared,
// immutable answer history
func (j candidateJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return candidateResult{instant: j.instant, err: err}
	}
	_, factors, err := j.engine.evalChart(j.instant)
	if err != nil {
		return candidateResult{instant: j.instant, err: err}
	}
	score := j.engine.scorer.Score(factors, j.answers)
	return candidateResult{instant: j.instant, score: score.Base}
}

// fanOut evaluates evenly spaced candidates across the window concurrently
// and folds the best into the session after the join barrier. Failures here
// are speculative work only and never fail the iteration.
func (e *Engine) fanOut(s *Session, w model.Window, answers []model.QA) {
	n := e.cfg.Rectify.FanOut
	if n <= 0 || w.Length() == 0 {
		return
	}

	pool := worker.NewPool(n)
	pool.Start()
	step := w.Length() / time.Duration(n+1)
	for i := 1; i <= n; i++ {
		pool.Submit(candidateJob{
			engine:  e,
			instant: w.Earliest.Add(step * time.Duration(i)),
			answers: answers,
		})
	}

	for _, res := range pool.Wait() {
		cr, ok := res.(candidateResult)
		if !ok || cr.err != nil {
			e.logger.Debug("speculative evaluation failed", zap.String("session", s.ID), zap.Error(cr.err))
			continue
		}
		s.best.consider(cr.instant, cr.score)
	}
}

// transition applies the termination rule in priority order after every
// scoring step: converged, exhausted, timed out, otherwise keep questioning
func (e *Engine) transition(s *Session) {
	switch {
	case s.score.Value >= e.cfg.Rectify.MinConfidence:
		e.terminate(s, model.OutcomeConverged, s.window.Midpoint())
	case len(s.qas) >= e.cfg.Rectify.MaxQuestions:
		e.terminate(s, model.OutcomeExhausted, s.bestInstant())
	case e.now().Sub(s.startedAt) >= e.cfg.Rectify.Timeout:
		e.terminate(s, model.OutcomeTimedOut, s.bestInstant())
	default:
		s.state = model.StateQuestioning
	}
}

// bestInstant returns the best-scoring instant seen, or the current midpoint
// when nothing was evaluated yet
func (s *Session) bestInstant() model.Instant {
	if s.best.valid {
		return s.best.instant
	}
	return s.window.Midpoint()
}

// terminate freezes the session. The final chart is computed at the
// rectified instant; if that computation fails the session still terminates,
// with the chart omitted from the result.
func (e *Engine) terminate(s *Session, outcome model.Outcome, rectified model.Instant) {
	s.state = model.StateTerminated
	s.outcome = outcome
	s.rectified = rectified
	s.terminatedAt = e.now()

	c, factors, err := e.evalChart(rectified)
	if err != nil {
		e.logger.Warn("final chart computation failed",
			zap.String("session", s.ID), zap.Error(err))
	} else {
		s.finalChart = c
		s.finalFactors = factors
	}

	e.logger.Info("session terminated",
		zap.String("session", s.ID),
		zap.String("outcome", string(outcome)),
		zap.Float64("confidence", s.score.Value),
		zap.Int("questions", len(s.qas)))
}

// Cancel aborts a running session: an explicit transition to the Cancelled
// outcome, never a mid-computation kill
func (e *Engine) Cancel(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == model.StateTerminated {
		return model.ErrSessionClosed
	}
	e.terminate(s, model.OutcomeCancelled, s.window.Midpoint())
	return nil
}

// Result returns the terminal output contract of the session
func (e *Engine) Result(s *Session) (*model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != model.StateTerminated {
		return nil, model.ErrSessionNotTerminated
	}

	var recs []model.Recommendation
	if s.finalChart != nil {
		recs = recommend.Generate(s.finalChart, s.finalFactors)
	}

	qas := make([]model.QA, len(s.qas))
	copy(qas, s.qas)

	return &model.Result{
		SessionID:       s.ID,
		Outcome:         s.outcome,
		RectifiedTime:   s.rectified,
		Confidence:      s.score,
		Chart:           s.finalChart,
		Factors:         s.finalFactors,
		Recommendations: recs,
		Questions:       qas,
		Elapsed:         s.terminatedAt.Sub(s.startedAt),
	}, nil
}
