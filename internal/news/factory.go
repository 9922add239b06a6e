package news

import (
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/store"
)

// New creates the news source selected by news.provider, chained with
// news.fallback when one is configured.
func New(cfg *store.Config) (interfaces.NewsSource, error) {
	primary, err := newSource(cfg, cfg.News.Provider)
	if err != nil {
		return nil, err
	}
	if cfg.News.Fallback == "" || cfg.News.Fallback == cfg.News.Provider {
		return primary, nil
	}
	secondary, err := newSource(cfg, cfg.News.Fallback)
	if err != nil {
		return nil, err
	}
	return NewFallback(primary, secondary), nil
}

func newSource(cfg *store.Config, provider string) (interfaces.NewsSource, error) {
	switch provider {
	case "NEWSAPI":
		return NewNewsAPI(NewsAPIParams{
			BaseURL:           cfg.News.BaseURL,
			APIKey:            store.Secret(cfg.News.APIKeyEnv),
			Timeout:           cfg.Timeout(),
			MaxRetries:        cfg.HTTP.MaxRetries,
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		}), nil
	case "SCRAPER":
		return NewScraper("", cfg.News.Region, cfg.News.Language, cfg.Timeout()), nil
	case "STATIC":
		return NewStatic(), nil
	default:
		return nil, fmt.Errorf("unsupported news provider: %s (must be NEWSAPI, SCRAPER or STATIC)", provider)
	}
}
