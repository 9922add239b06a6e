package sentiment

import (
	"context"
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/llm"
	"stock-portfolio-evaluator/internal/types"
)

const llmSystemPrompt = "You are a financial analyst expert at analyzing news sentiment for investment decisions. Respond ONLY with valid JSON."

// LLM classifies text by asking a chat model
type LLM struct {
	completer interfaces.Completer
}

var _ interfaces.SentimentClassifier = (*LLM)(nil)

func NewLLM(completer interfaces.Completer) *LLM {
	return &LLM{completer: completer}
}

func (c *LLM) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	if len(text) > maxInputChars {
		text = text[:maxInputChars] + "..."
	}

	prompt := fmt.Sprintf(`Classify the sentiment of this financial news text for investors.

Text: %s

Respond ONLY with valid JSON matching this schema:
{"label": "positive|negative|neutral", "confidence": 0.0 to 1.0}`, text)

	out, err := c.completer.Complete(ctx, llmSystemPrompt, prompt)
	if err != nil {
		return types.Sentiment{}, err
	}

	var s types.Sentiment
	if err := llm.DecodeJSON(out, &s); err != nil {
		return types.Sentiment{}, fmt.Errorf("invalid JSON response: %w", err)
	}

	s.Label = normalizeLabel(s.Label)
	if s.Label == "" {
		s.Label = types.SentimentNeutral
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		s.Confidence = 0
	}
	return s, nil
}
