package llm

import (
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/llm/claude"
	"stock-portfolio-evaluator/internal/llm/noop"
	"stock-portfolio-evaluator/internal/llm/openai"
	"stock-portfolio-evaluator/internal/store"
)

// apiKeyEnv returns the credential variable for provider unless llm.api_key_env overrides it.
func apiKeyEnv(cfg *store.Config) string {
	if cfg.LLM.APIKeyEnv != "" {
		return cfg.LLM.APIKeyEnv
	}
	if cfg.LLM.Provider == "CLAUDE" {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// NewCompleter creates the chat client selected by llm.provider. NOOP has no client.
func NewCompleter(cfg *store.Config) (interfaces.Completer, error) {
	switch cfg.LLM.Provider {
	case "OPENAI":
		return openai.New(openai.Params{
			APIKey:      store.Secret(apiKeyEnv(cfg)),
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Endpoint:    cfg.LLM.Endpoint,
			Timeout:     cfg.Timeout(),
			MaxRetries:  cfg.HTTP.MaxRetries,
		}), nil
	case "CLAUDE":
		return claude.New(claude.Params{
			APIKey:      store.Secret(apiKeyEnv(cfg)),
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Endpoint:    cfg.LLM.Endpoint,
			Timeout:     cfg.Timeout(),
			MaxRetries:  cfg.HTTP.MaxRetries,
		}), nil
	default:
		return nil, fmt.Errorf("llm provider %s has no chat client", cfg.LLM.Provider)
	}
}

// NewDecider creates the verdict decider selected by llm.provider.
func NewDecider(cfg *store.Config) (interfaces.Decider, error) {
	if cfg.LLM.Provider == "NOOP" {
		return noop.NewNoopDecider(), nil
	}
	completer, err := NewCompleter(cfg)
	if err != nil {
		return nil, err
	}
	return NewModelDecider(completer, cfg.LLM.System), nil
}
