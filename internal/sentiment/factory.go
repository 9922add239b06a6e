package sentiment

import (
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/llm"
	"stock-portfolio-evaluator/internal/store"
)

// New creates the classifier selected by sentiment.provider, cached for
// sentiment.cache_minutes when that is positive.
func New(cfg *store.Config) (interfaces.SentimentClassifier, error) {
	var c interfaces.SentimentClassifier
	switch cfg.Sentiment.Provider {
	case "HUGGINGFACE":
		c = NewHuggingFace(HuggingFaceParams{
			BaseURL:           cfg.Sentiment.BaseURL,
			Model:             cfg.Sentiment.Model,
			Token:             store.Secret(cfg.Sentiment.APIKeyEnv),
			Timeout:           cfg.Timeout(),
			MaxRetries:        cfg.HTTP.MaxRetries,
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		})
	case "LLM":
		completer, err := llm.NewCompleter(cfg)
		if err != nil {
			return nil, fmt.Errorf("sentiment provider LLM: %w", err)
		}
		c = NewLLM(completer)
	case "LEXICON":
		c = NewLexicon()
	default:
		return nil, fmt.Errorf("unsupported sentiment provider: %s (must be HUGGINGFACE, LLM or LEXICON)", cfg.Sentiment.Provider)
	}

	if ttl := cfg.SentimentCacheTTL(); ttl > 0 {
		c = NewCached(c, ttl)
	}
	return c, nil
}
