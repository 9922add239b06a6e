package marketobs

import (
	"context"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/trace"
	"stock-portfolio-evaluator/internal/types"
)

// observableSource wraps a MarketDataSource with observability (logging & tracing)
type observableSource struct {
	source   interfaces.MarketDataSource
	provider string
}

// Compile-time interface check
var _ interfaces.MarketDataSource = (*observableSource)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(source interfaces.MarketDataSource, provider string) interfaces.MarketDataSource {
	return &observableSource{
		source:   source,
		provider: provider,
	}
}

// Snapshot fetches a quote snapshot with observability
func (os *observableSource) Snapshot(ctx context.Context, ticker string) (types.Snapshot, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Snapshot")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching snapshot", "provider", os.provider, "ticker", ticker)

	snap, err := os.source.Snapshot(ctx, ticker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch snapshot", err, "provider", os.provider, "ticker", ticker)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Snapshot fetched", "provider", os.provider, "ticker", ticker, "fields", len(snap))
	return snap, nil
}

// History fetches daily bars with observability
func (os *observableSource) History(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.History")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching history", "provider", os.provider, "ticker", ticker, "days", days)

	series, err := os.source.History(ctx, ticker, days)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch history", err, "provider", os.provider, "ticker", ticker, "days", days)
		return types.PriceSeries{}, err
	}

	logger.DebugSkip(ctx, 1, "History fetched", "provider", os.provider, "ticker", ticker, "bars", series.Len())
	return series, nil
}
