package sentimentobs

import (
	"context"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/trace"
	"stock-portfolio-evaluator/internal/types"
)

// observableClassifier wraps a SentimentClassifier with observability (logging & tracing)
type observableClassifier struct {
	classifier interfaces.SentimentClassifier
}

// Compile-time interface check
var _ interfaces.SentimentClassifier = (*observableClassifier)(nil)

// Wrap wraps a classifier with observability middleware
func Wrap(classifier interfaces.SentimentClassifier) interfaces.SentimentClassifier {
	return &observableClassifier{classifier: classifier}
}

func (oc *observableClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	ctx, span := trace.StartSpan(ctx, "sentiment.Classify")
	defer span.End()

	s, err := oc.classifier.Classify(ctx, text)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Sentiment classification failed", err, "chars", len(text))
		return types.Sentiment{}, err
	}

	logger.DebugSkip(ctx, 1, "Text classified", "label", s.Label, "confidence", s.Confidence, "chars", len(text))
	return s, nil
}
