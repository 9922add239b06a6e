package newsobs

import (
	"context"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/trace"
	"stock-portfolio-evaluator/internal/types"
)

// observableNews wraps a NewsSource with observability (logging & tracing)
type observableNews struct {
	source interfaces.NewsSource
}

// Compile-time interface check
var _ interfaces.NewsSource = (*observableNews)(nil)

// Wrap wraps a news source with observability middleware
func Wrap(source interfaces.NewsSource) interfaces.NewsSource {
	return &observableNews{source: source}
}

// Search runs a news search with observability
func (on *observableNews) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	ctx, span := trace.StartSpan(ctx, "news.Search")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Searching news", "query", q.Query, "page_size", q.PageSize)

	res, err := on.source.Search(ctx, q)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "News search failed", err, "query", q.Query)
		return types.NewsSearchResult{}, err
	}

	logger.DebugSkip(ctx, 1, "News search completed", "query", q.Query,
		"total_results", res.TotalResults, "articles", len(res.Articles))
	return res, nil
}
