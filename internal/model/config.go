package model

import (
	"fmt"
	"math"
	"time"
)

// Config is the full engine configuration.
// Hierarchy (highest to lowest priority): CLI flags, RECTIFICA_* environment
// variables, ~/.rectifica/config.yaml, the defaults below.
type Config struct {
	Rectify RectifyConfig `yaml:"rectify" mapstructure:"rectify"`
	Weights WeightsConfig `yaml:"weights" mapstructure:"weights"`
	Bands   BandsConfig   `yaml:"bands" mapstructure:"bands"`
	Chart   ChartConfig   `yaml:"chart" mapstructure:"chart"`
	Geo     GeoConfig     `yaml:"geo" mapstructure:"geo"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// RectifyConfig controls the question-and-narrow loop
type RectifyConfig struct {
	MinConfidence        float64       `yaml:"min_confidence" mapstructure:"min_confidence"`
	MaxQuestions         int           `yaml:"max_questions" mapstructure:"max_questions"`
	Timeout              time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CorroborationBonus   float64       `yaml:"corroboration_bonus" mapstructure:"corroboration_bonus"`
	ContradictionPenalty float64       `yaml:"contradiction_penalty" mapstructure:"contradiction_penalty"`
	FanOut               int           `yaml:"fan_out" mapstructure:"fan_out"` // speculative candidate evaluations per iteration
}

// WeightsConfig weights the three sensitivity factors. Must sum to 1.0.
type WeightsConfig struct {
	Ascendant       float64 `yaml:"ascendant" mapstructure:"ascendant"`
	CriticalDegrees float64 `yaml:"critical_degrees" mapstructure:"critical_degrees"`
	HouseCusps      float64 `yaml:"house_cusps" mapstructure:"house_cusps"`
}

// Sum returns the total of the three weights
func (w WeightsConfig) Sum() float64 {
	return w.Ascendant + w.CriticalDegrees + w.HouseCusps
}

// BandsConfig holds the lower bounds of the confidence bands.
// A score below Low is reported as low confidence.
type BandsConfig struct {
	Low    float64 `yaml:"low" mapstructure:"low"`
	Medium float64 `yaml:"medium" mapstructure:"medium"`
	High   float64 `yaml:"high" mapstructure:"high"`
}

// ChartConfig holds chart computation policy
type ChartConfig struct {
	AspectOrb             float64 `yaml:"aspect_orb" mapstructure:"aspect_orb"`                           // max deviation from an exact aspect angle, degrees
	SignBoundaryThreshold float64 `yaml:"sign_boundary_threshold" mapstructure:"sign_boundary_threshold"` // "critical zone" at the edges of a sign, degrees
	CuspOrb               float64 `yaml:"cusp_orb" mapstructure:"cusp_orb"`                               // planet-to-cusp proximity orb, degrees
	AyanamsaOffset        float64 `yaml:"ayanamsa_offset" mapstructure:"ayanamsa_offset"`                 // fixed override; 0 means use the Lahiri model
}

// GeoConfig controls the external geocoding and timezone lookups
type GeoConfig struct {
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CacheConfig controls ephemeris memoization
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // empty disables the disk layer
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig configures the optional result interpretation.
// The interpretation never affects scoring or narrowing.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Rectify: RectifyConfig{
			MinConfidence:        0.7,
			MaxQuestions:         15,
			Timeout:              30 * time.Minute,
			CorroborationBonus:   0.05,
			ContradictionPenalty: 0.08,
			FanOut:               3,
		},
		Weights: WeightsConfig{
			Ascendant:       0.4,
			CriticalDegrees: 0.3,
			HouseCusps:      0.3,
		},
		Bands: BandsConfig{
			Low:    0.3,
			Medium: 0.5,
			High:   0.7,
		},
		Chart: ChartConfig{
			AspectOrb:             8.0,
			SignBoundaryThreshold: 3.0,
			CuspOrb:               2.0,
		},
		Geo: GeoConfig{
			Endpoint:          "https://nominatim.openstreetmap.org/search",
			Timeout:           10 * time.Second,
			UserAgent:         "Rectifica/0.1 (+https://github.com/ppiankov/rectifica)",
			MaxBodyBytes:      1_000_000,
			RequestsPerSecond: 1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}

// Validate checks configuration invariants. Weight errors are fatal at load
// time so they can never surface mid-session.
func (c *Config) Validate() error {
	if math.Abs(c.Weights.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("%w: ascendant %.3f + critical_degrees %.3f + house_cusps %.3f = %.3f, want 1.0",
			ErrInvalidWeights, c.Weights.Ascendant, c.Weights.CriticalDegrees, c.Weights.HouseCusps, c.Weights.Sum())
	}
	if c.Weights.Ascendant < 0 || c.Weights.CriticalDegrees < 0 || c.Weights.HouseCusps < 0 {
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidWeights)
	}
	if !(c.Bands.Low < c.Bands.Medium && c.Bands.Medium < c.Bands.High) {
		return fmt.Errorf("%w: confidence bands must be strictly increasing", ErrInvalidInput)
	}
	if c.Rectify.MaxQuestions <= 0 {
		return fmt.Errorf("%w: max_questions must be positive", ErrInvalidInput)
	}
	if c.Rectify.MinConfidence <= 0 || c.Rectify.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be in (0, 1]", ErrInvalidInput)
	}
	if c.Rectify.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidInput)
	}
	if c.Chart.AspectOrb <= 0 || c.Chart.AspectOrb > 15 {
		return fmt.Errorf("%w: aspect_orb must be in (0, 15]", ErrInvalidInput)
	}
	return nil
}
