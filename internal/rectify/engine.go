// Package rectify drives the adaptive question-and-narrow loop that
// converges on a rectified birth time or terminates by policy.
package rectify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/rectifica/internal/cache"
	"github.com/ppiankov/rectifica/internal/chart"
	"github.com/ppiankov/rectifica/internal/confidence"
	"github.com/ppiankov/rectifica/internal/ephemeris"
	"github.com/ppiankov/rectifica/internal/geo"
	"github.com/ppiankov/rectifica/internal/model"
	"github.com/ppiankov/rectifica/internal/sensitivity"
)

// Engine owns all session mutation. Chart and score computation are pure, so
// the engine is safe to share across sessions; each session serializes its
// own updates.
type Engine struct {
	cfg       *model.Config
	provider  ephemeris.Provider
	ayanamsa  ephemeris.Ayanamsa
	assembler *chart.Assembler
	analyzer  *sensitivity.Analyzer
	scorer    *confidence.Scorer
	geocoder  geo.Geocoder
	tz        geo.TimezoneResolver
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes an engine
type Option func(*Engine)

// WithLogger attaches a structured logger (Nop by default)
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock substitutes the wall clock, for deterministic timeout tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithProvider substitutes the position provider
func WithProvider(p ephemeris.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// NewEngine validates the configuration and wires the engine. Weight errors
// surface here, never mid-session.
func NewEngine(cfg *model.Config, geocoder geo.Geocoder, tz geo.TimezoneResolver, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ayanamsa := ephemeris.Ayanamsa(ephemeris.LahiriAyanamsa)
	fingerprint := "lahiri"
	if cfg.Chart.AyanamsaOffset != 0 {
		ayanamsa = ephemeris.FixedAyanamsa(cfg.Chart.AyanamsaOffset)
		fingerprint = "fixed:" + strconv.FormatFloat(cfg.Chart.AyanamsaOffset, 'f', -1, 64)
	}

	var provider ephemeris.Provider = ephemeris.NewAnalytic(ayanamsa)
	if cfg.Cache.Enabled {
		var store cache.Cache
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
		provider = ephemeris.NewMemoized(provider, store, fingerprint)
	}

	e := &Engine{
		cfg:       cfg,
		provider:  provider,
		ayanamsa:  ayanamsa,
		assembler: chart.NewAssembler(cfg.Chart.AspectOrb),
		analyzer:  sensitivity.NewAnalyzer(cfg.Weights, cfg.Chart),
		scorer:    confidence.NewScorer(cfg.Rectify, cfg.Bands),
		geocoder:  geocoder,
		tz:        tz,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// StartRequest carries the user's approximate birth data
type StartRequest struct {
	Date         string // "2006-01-02"
	TimeFrom     string // "15:04", earliest plausible birth time
	TimeTo       string // "15:04", latest plausible birth time
	LocationText string // free-text birth place
}

// StartSession validates the request, resolves the location and timezone,
// and opens a session in the QUESTIONING state. Resolution failures are
// fail-fast: no retries here, and the session never starts.
func (e *Engine) StartSession(ctx context.Context, req StartRequest) (*Session, error) {
	if req.Date == "" || req.TimeFrom == "" || req.TimeTo == "" {
		return nil, fmt.Errorf("%w: date and time range are required", model.ErrInvalidInput)
	}
	if req.LocationText == "" {
		return nil, fmt.Errorf("%w: location is required", model.ErrInvalidInput)
	}

	geoCtx, cancel := context.WithTimeout(ctx, e.cfg.Geo.Timeout)
	defer cancel()

	loc, err := e.geocoder.Resolve(geoCtx, req.LocationText)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve location %q: %v", model.ErrInvalidInput, req.LocationText, err)
	}

	// Parse the civil date-time without a zone first, just to hand the
	// timezone resolver the date DST rules apply to
	naive, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.TimeFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q %q: %v", model.ErrInvalidInput, req.Date, req.TimeFrom, err)
	}

	offset, err := e.tz.OffsetFor(geoCtx, naive, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve timezone for %q: %v", model.ErrInvalidInput, loc.Name, err)
	}

	earliest, err := model.NewInstant(req.Date, req.TimeFrom, loc, offset)
	if err != nil {
		return nil, err
	}
	latest, err := model.NewInstant(req.Date, req.TimeTo, loc, offset)
	if err != nil {
		return nil, err
	}

	window, err := model.NewWindow(earliest, latest)
	if err != nil {
		return nil, err
	}

	s := newSession(window, e.now())
	e.logger.Info("session started",
		zap.String("session", s.ID),
		zap.String("location", loc.Name),
		zap.Duration("window", window.Length()))
	return s, nil
}

// evalChart computes positions, assembles the chart and analyzes sensitivity
// for one candidate instant. Pure; shared by the loop, the speculative
// fan-out and the final result.
func (e *Engine) evalChart(in model.Instant) (*model.Chart, []model.Factor, error) {
	positions, err := e.provider.Positions(in)
	if err != nil {
		return nil, nil, err
	}

	ay := e.ayanamsa(ephemeris.JulianDay(in.UTC()))
	c, err := e.assembler.Assemble(in, positions, ay)
	if err != nil {
		return nil, nil, err
	}

	return c, e.analyzer.Analyze(c), nil
}
