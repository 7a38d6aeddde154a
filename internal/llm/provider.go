// Package llm generates an optional narrative interpretation of a finished
// rectification result. The interpretation runs only after the result is
// frozen and never affects scoring, narrowing, or the rectified time.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/rectifica/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Interpret generates a narrative reading of the result
	Interpret(ctx context.Context, req InterpretRequest) (*InterpretResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// InterpretRequest is the input for interpretation
type InterpretRequest struct {
	// Result is the frozen rectification result to narrate
	Result model.Result

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// InterpretResponse is the generated narrative
type InterpretResponse struct {
	Narrative  string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults with interpretation disabled
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// BuildPrompt constructs the default interpretation prompt. The rules pin
// the model to the computed chart: it narrates what was calculated and must
// not predict events or assert the birth time is now correct.
func BuildPrompt(result model.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are narrating the output of a birth-time rectification session.

RULES:
1. Describe only the chart data and session findings below. Do not invent placements.
2. Do not predict future events.
3. Do not claim the rectified time is certain; qualify it with the stated confidence.
4. Keep the tone descriptive, not advisory.

Session outcome: %s
Rectified time: %s
Confidence: %.2f (%s band)
Questions answered: %d
`, result.Outcome, result.RectifiedTime, result.Confidence.Value, result.Confidence.Band, len(result.Questions))

	if result.Chart != nil {
		fmt.Fprintf(&b, "\nAscendant: %.2f deg (%s)\nPlacements:\n",
			result.Chart.Ascendant, model.SignName(result.Chart.Ascendant))
		for _, p := range result.Chart.Positions {
			fmt.Fprintf(&b, "- %s: %.2f deg %s, house %d\n",
				p.Body, model.DegreeInSign(p.Longitude), model.SignName(p.Longitude), p.House)
		}
		if len(result.Chart.Aspects) > 0 {
			fmt.Fprintf(&b, "Aspects:\n")
			for _, a := range result.Chart.Aspects {
				fmt.Fprintf(&b, "- %s %s %s (orb %.2f deg)\n", a.First, a.Type, a.Second, a.Orb)
			}
		}
	}

	for _, f := range result.Factors {
		fmt.Fprintf(&b, "Sensitivity %s: %s (%s)\n", f.Name, f.Level, f.Description)
	}

	b.WriteString("\nWrite a short narrative interpretation (3-5 paragraphs) of this chart.\n")
	return b.String()
}
