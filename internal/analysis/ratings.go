package analysis

import (
	"context"
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

var recommendationLabels = map[string]string{
	"strongBuy":  "Strong Buy",
	"buy":        "Buy",
	"hold":       "Hold",
	"sell":       "Sell",
	"strongSell": "Strong Sell",
	"none":       "No Rating",
}

// AnalystRatingAnalyzer reads consensus price targets and the recommendation key.
type AnalystRatingAnalyzer struct {
	market interfaces.MarketDataSource
}

func NewAnalystRatingAnalyzer(market interfaces.MarketDataSource) *AnalystRatingAnalyzer {
	return &AnalystRatingAnalyzer{market: market}
}

func (a *AnalystRatingAnalyzer) Analyze(ctx context.Context, ticker string) types.AnalystRatingRecord {
	info, err := a.market.Snapshot(ctx, ticker)
	if err != nil {
		err = fmt.Errorf("fetch analyst ratings: %w", err)
		logger.ErrorWithErr(ctx, "Analyst ratings failed", err, "ticker", ticker)
		return types.AnalystRatingRecord{Ticker: ticker, Failure: types.NewFailure(err, types.ErrTypeRatings)}
	}

	key := info.String("none", "recommendationKey")
	return types.AnalystRatingRecord{
		Ticker:            ticker,
		TargetPrice:       info.Float("targetMeanPrice"),
		TargetPriceHigh:   info.Float("targetHighPrice"),
		TargetPriceLow:    info.Float("targetLowPrice"),
		NumberOfAnalysts:  info.Int(0, "numberOfAnalystOpinions"),
		RecommendationKey: key,
		Recommendation:    RecommendationLabel(key),
	}
}

// RecommendationLabel maps a provider recommendation key onto display text.
func RecommendationLabel(key string) string {
	if label, ok := recommendationLabels[key]; ok {
		return label
	}
	return "Unknown"
}
