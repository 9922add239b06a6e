package interfaces

import (
	"context"

	"stock-portfolio-evaluator/internal/types"
)

// MarketDataSource serves quote snapshots and daily history for tickers and
// benchmark indices alike. Missing snapshot keys are not an error.
type MarketDataSource interface {
	Snapshot(ctx context.Context, ticker string) (types.Snapshot, error)
	History(ctx context.Context, ticker string, days int) (types.PriceSeries, error)
}
