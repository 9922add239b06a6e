package marketdata

import (
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/marketdata/kite"
	"stock-portfolio-evaluator/internal/marketdata/static"
	"stock-portfolio-evaluator/internal/marketdata/yahoo"
	"stock-portfolio-evaluator/internal/store"
)

// New creates the market data source selected by market_data.provider
func New(cfg *store.Config) (interfaces.MarketDataSource, error) {
	switch cfg.MarketData.Provider {
	case "YAHOO":
		return yahoo.New(yahoo.Params{
			BaseURL:           cfg.MarketData.YahooBaseURL,
			Timeout:           cfg.Timeout(),
			MaxRetries:        cfg.HTTP.MaxRetries,
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		}), nil
	case "KITE":
		src, err := kite.New(kite.Params{
			APIKey:      store.Secret(cfg.MarketData.APIKeyEnv),
			AccessToken: store.Secret(cfg.MarketData.AccessTokenEnv),
			Exchange:    cfg.MarketData.Exchange,
			Timeout:     cfg.Timeout(),
			MaxRetries:  cfg.HTTP.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case "STATIC":
		return static.New(), nil
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s (must be YAHOO, KITE or STATIC)", cfg.MarketData.Provider)
	}
}
