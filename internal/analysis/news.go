package analysis

import (
	"context"
	"fmt"
	"strings"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/ta"
	"stock-portfolio-evaluator/internal/types"
)

const (
	SentimentLabelPositive = "Positive"
	SentimentLabelNegative = "Negative"
	SentimentLabelNeutral  = "Neutral"

	sentimentThreshold = 0.25
	// minScorableChars is the shortest article text worth sending to the classifier
	minScorableChars = 3
)

// NewsAnalyzer scores recent articles about a company and aggregates their sentiment.
type NewsAnalyzer struct {
	market     interfaces.MarketDataSource
	news       interfaces.NewsSource
	classifier interfaces.SentimentClassifier
	settings   Settings
}

func NewNewsAnalyzer(market interfaces.MarketDataSource, news interfaces.NewsSource, classifier interfaces.SentimentClassifier, settings Settings) *NewsAnalyzer {
	return &NewsAnalyzer{market: market, news: news, classifier: classifier, settings: settings}
}

func (a *NewsAnalyzer) Analyze(ctx context.Context, ticker string) types.NewsRecord {
	rec, err := a.analyze(ctx, ticker)
	if err != nil {
		logger.ErrorWithErr(ctx, "News processing failed", err, "ticker", ticker)
		return types.NewsRecord{Ticker: ticker, Failure: types.NewFailure(err, types.ErrTypeNews)}
	}
	return rec
}

func (a *NewsAnalyzer) analyze(ctx context.Context, ticker string) (types.NewsRecord, error) {
	info, err := a.market.Snapshot(ctx, ticker)
	if err != nil {
		return types.NewsRecord{}, fmt.Errorf("fetch company name: %w", err)
	}

	limit := a.settings.NewsArticleLimit
	res, err := a.news.Search(ctx, types.NewsQuery{
		Query:    SearchQuery(info.String("", "longName"), ticker),
		SortBy:   "publishedAt",
		Language: a.settings.NewsLanguage,
		PageSize: limit,
	})
	if err != nil {
		return types.NewsRecord{}, fmt.Errorf("search news: %w", err)
	}

	articles := res.Articles
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	rec := types.NewsRecord{
		Ticker:             ticker,
		TotalArticlesFound: res.TotalResults,
		Articles:           make([]types.ArticleSentiment, 0, len(articles)),
	}

	scores := make([]float64, 0, len(articles))
	for _, art := range articles {
		score, err := a.score(ctx, art)
		if err != nil {
			return types.NewsRecord{}, fmt.Errorf("classify %q: %w", art.Title, err)
		}
		scores = append(scores, score)

		source := art.Source
		if source == "" {
			source = "Unknown"
		}
		rec.Articles = append(rec.Articles, types.ArticleSentiment{
			Title:          art.Title,
			Source:         source,
			PublishedAt:    art.PublishedAt,
			URL:            art.URL,
			Description:    art.Description,
			SentimentScore: score,
		})
	}

	overall := 0.0
	if len(scores) > 0 {
		overall = ta.Mean(scores)
	}
	rec.ArticlesFetched = len(rec.Articles)
	rec.OverallSentimentScore = ta.Round(overall, 3)
	rec.SentimentLabel = SentimentLabel(overall)
	return rec, nil
}

// score maps a classification onto [-1, 1]: +confidence, -confidence or 0.
func (a *NewsAnalyzer) score(ctx context.Context, art types.NewsArticle) (float64, error) {
	text := strings.TrimSpace(art.Title + " " + art.Description)
	if len(text) < minScorableChars {
		return 0, nil
	}

	s, err := a.classifier.Classify(ctx, text)
	if err != nil {
		return 0, err
	}

	switch strings.ToLower(s.Label) {
	case types.SentimentPositive:
		return ta.Round(s.Confidence, 2), nil
	case types.SentimentNegative:
		return ta.Round(-s.Confidence, 2), nil
	default:
		return 0, nil
	}
}

// SearchQuery builds the keyword query for a company; the ticker alone when the name is unknown.
func SearchQuery(company, ticker string) string {
	if company == "" || company == "N/A" {
		return ticker
	}
	return company + " stock OR " + ticker
}

// SentimentLabel buckets a mean sentiment score; both thresholds are exclusive.
func SentimentLabel(score float64) string {
	switch {
	case score > sentimentThreshold:
		return SentimentLabelPositive
	case score < -sentimentThreshold:
		return SentimentLabelNegative
	default:
		return SentimentLabelNeutral
	}
}
