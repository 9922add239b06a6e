package interfaces

import (
	"context"

	"stock-portfolio-evaluator/internal/types"
)

type NewsSource interface {
	Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error)
}

// SentimentClassifier labels a short text positive, negative or neutral with a confidence in [0,1].
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (types.Sentiment, error)
}
