package news

import (
	"context"
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

// Fallback queries primary first and secondary when primary fails or finds nothing
type Fallback struct {
	primary   interfaces.NewsSource
	secondary interfaces.NewsSource
}

var _ interfaces.NewsSource = (*Fallback)(nil)

func NewFallback(primary, secondary interfaces.NewsSource) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	res, err := f.primary.Search(ctx, q)
	if err == nil && len(res.Articles) > 0 {
		return res, nil
	}
	if ctx.Err() != nil {
		return types.NewsSearchResult{}, ctx.Err()
	}

	if err != nil {
		logger.Warn(ctx, "Primary news source failed, trying fallback", "query", q.Query, "error", err)
	} else {
		logger.Info(ctx, "No articles from primary source, trying fallback", "query", q.Query)
	}

	res2, err2 := f.secondary.Search(ctx, q)
	if err2 != nil {
		if err != nil {
			return types.NewsSearchResult{}, fmt.Errorf("%v; fallback: %w", err, err2)
		}
		// primary answered with an empty page, which is still a valid answer
		return res, nil
	}
	return res2, nil
}
