package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/rectifica/internal/model"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("empty provider must not error, got %v", err)
	}
	if provider != nil {
		t.Error("empty provider must disable interpretation")
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "clippy"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("expected error for openai without an API key")
	}
}

func TestNewProviderCaseInsensitive(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "OpenAI", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("name %q, want openai", provider.Name())
	}
}

func TestInterpreterDisabled(t *testing.T) {
	interp, err := NewInterpreter(Config{})
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	if interp.IsEnabled() {
		t.Error("interpreter must report disabled without a provider")
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider:  "ollama",
		Model:     "llama3",
		BaseURL:   "http://localhost:11434",
		Timeout:   15,
		MaxTokens: 500,
	})
	if cfg.Provider != "ollama" || cfg.Model != "llama3" || cfg.MaxTokens != 500 {
		t.Errorf("unexpected conversion %+v", cfg)
	}
}

func TestBuildPrompt(t *testing.T) {
	result := model.Result{
		SessionID: "test",
		Outcome:   model.OutcomeConverged,
		Confidence: model.Score{
			Value: 0.74,
			Band:  model.BandHigh,
		},
		Chart: &model.Chart{
			Ascendant: 125,
			Positions: []model.PlanetaryPosition{
				{Body: model.BodySun, Longitude: 45.5, House: 10},
			},
			Aspects: []model.Aspect{
				{First: model.BodySun, Second: model.BodyMoon, Type: model.AspectTrine, Orb: 1.2},
			},
		},
		Factors: []model.Factor{
			{Name: model.FactorAscendant, Level: model.LevelHigh, Description: "near boundary"},
		},
		Questions: []model.QA{{Answer: model.AnswerYes}},
		Elapsed:   5 * time.Minute,
	}

	prompt := BuildPrompt(result)

	for _, want := range []string{
		"Do not predict future events",
		"converged",
		"0.74",
		"Sun",
		"trine",
		"Sensitivity ascendant: high",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutChart(t *testing.T) {
	prompt := BuildPrompt(model.Result{Outcome: model.OutcomeCancelled})
	if !strings.Contains(prompt, "cancelled") {
		t.Error("prompt must carry the outcome even without a chart")
	}
	if strings.Contains(prompt, "Placements:") {
		t.Error("prompt must omit placements without a chart")
	}
}
