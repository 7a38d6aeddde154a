package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/rectifica/internal/model"
)

// Interpreter wraps a provider for use by the CLI. A nil provider means
// interpretation is disabled; every method tolerates that.
type Interpreter struct {
	provider Provider
	config   Config
}

// NewInterpreter creates an interpreter from configuration. Returns an
// error only for misconfiguration, not for a disabled provider.
func NewInterpreter(config Config) (*Interpreter, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Interpreter{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (i *Interpreter) IsEnabled() bool {
	return i != nil && i.provider != nil
}

// Interpret narrates the frozen result. The result is passed by value: the
// interpretation can never reach back into session state.
func (i *Interpreter) Interpret(ctx context.Context, result model.Result) (*InterpretResponse, error) {
	if !i.IsEnabled() {
		return nil, fmt.Errorf("no LLM provider configured")
	}
	return i.provider.Interpret(ctx, InterpretRequest{
		Result:    result,
		Model:     i.config.Model,
		MaxTokens: i.config.MaxTokens,
	})
}
