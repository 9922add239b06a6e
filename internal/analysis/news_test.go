package analysis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-portfolio-evaluator/internal/types"
)

func newsFixture() (*fakeMarket, *fakeNews, *fakeClassifier) {
	m := newFakeMarket()
	m.snapshots["INFY.NS"] = types.Snapshot{"longName": "Infosys Limited"}

	n := &fakeNews{res: types.NewsSearchResult{
		TotalResults: 42,
		Articles: []types.NewsArticle{
			{Title: "Infosys beats estimates", Description: "Strong quarter", Source: "Mint", URL: "https://a"},
			{Title: "Infosys faces probe", Description: "", URL: "https://b"},
			{Title: "Infosys AGM", Description: "held today", Source: "ET"},
		},
	}}

	c := &fakeClassifier{byText: map[string]types.Sentiment{
		"Infosys beats estimates Strong quarter": {Label: "positive", Confidence: 0.876},
		"Infosys faces probe":                    {Label: "negative", Confidence: 0.5},
	}}
	return m, n, c
}

func TestNewsAggregatesSentiment(t *testing.T) {
	m, n, c := newsFixture()

	rec := NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "INFY.NS")
	require.Nil(t, rec.Degraded())

	assert.Equal(t, types.NewsQuery{
		Query: "Infosys Limited stock OR INFY.NS", SortBy: "publishedAt", Language: "en", PageSize: 10,
	}, n.query)

	assert.Equal(t, 42, rec.TotalArticlesFound)
	assert.Equal(t, 3, rec.ArticlesFetched)
	require.Len(t, rec.Articles, 3)
	assert.Equal(t, 0.88, rec.Articles[0].SentimentScore)
	assert.Equal(t, -0.5, rec.Articles[1].SentimentScore)
	assert.Equal(t, 0.0, rec.Articles[2].SentimentScore)
	assert.Equal(t, "Unknown", rec.Articles[1].Source)

	// (0.88 - 0.5 + 0) / 3
	assert.Equal(t, 0.127, rec.OverallSentimentScore)
	assert.Equal(t, SentimentLabelNeutral, rec.SentimentLabel)
}

func TestNewsTruncatesToLimit(t *testing.T) {
	m, n, c := newsFixture()
	s := DefaultSettings()
	s.NewsArticleLimit = 2

	rec := NewNewsAnalyzer(m, n, c, s).Analyze(context.Background(), "INFY.NS")
	assert.Equal(t, 2, rec.ArticlesFetched)
	assert.Len(t, c.calls, 2)
}

func TestNewsShortTextSkipsClassifier(t *testing.T) {
	m, n, c := newsFixture()
	n.res = types.NewsSearchResult{TotalResults: 1, Articles: []types.NewsArticle{{Title: " ", Description: "ab"}}}

	rec := NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "INFY.NS")
	require.Nil(t, rec.Degraded())
	assert.Empty(t, c.calls)
	assert.Equal(t, 0.0, rec.Articles[0].SentimentScore)
}

func TestNewsNoArticles(t *testing.T) {
	m, n, c := newsFixture()
	n.res = types.NewsSearchResult{}

	rec := NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "INFY.NS")
	require.Nil(t, rec.Degraded())
	assert.Equal(t, 0.0, rec.OverallSentimentScore)
	assert.Equal(t, SentimentLabelNeutral, rec.SentimentLabel)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"articles":[]`)
}

func TestNewsUnknownCompanyQueriesTicker(t *testing.T) {
	m, n, c := newsFixture()
	NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "NEW.NS")
	assert.Equal(t, "NEW.NS", n.query.Query)
}

func TestNewsFailuresDegrade(t *testing.T) {
	m, n, c := newsFixture()
	n.err = errUpstream

	rec := NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "INFY.NS")
	require.NotNil(t, rec.Degraded())
	assert.Equal(t, types.ErrTypeNews, rec.Failure.ErrorType)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ticker":"INFY.NS","error":"search news: upstream unavailable","error_type":"news_processing_failed","articles":[],"overall_sentiment_score":0}`, string(b))

	m, n, c = newsFixture()
	c.err = errUpstream
	rec = NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "INFY.NS")
	require.NotNil(t, rec.Degraded())

	m, n, c = newsFixture()
	m.snapErr = errUpstream
	rec = NewNewsAnalyzer(m, n, c, DefaultSettings()).Analyze(context.Background(), "INFY.NS")
	require.NotNil(t, rec.Degraded())
}

func TestSentimentLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.25, SentimentLabelNeutral},
		{0.2501, SentimentLabelPositive},
		{-0.25, SentimentLabelNeutral},
		{-0.2501, SentimentLabelNegative},
		{0, SentimentLabelNeutral},
		{0.9, SentimentLabelPositive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SentimentLabel(tt.score), "score %v", tt.score)
	}
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Apple Inc. stock OR AAPL", SearchQuery("Apple Inc.", "AAPL"))
	assert.Equal(t, "AAPL", SearchQuery("", "AAPL"))
	assert.Equal(t, "AAPL", SearchQuery("N/A", "AAPL"))
}
