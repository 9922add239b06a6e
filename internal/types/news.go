package types

// NewsQuery is a keyword search against a news provider.
type NewsQuery struct {
	Query    string
	SortBy   string // "publishedAt" for newest first
	Language string
	PageSize int
}

// NewsArticle is a provider article before scoring. Empty strings stand in
// for fields the provider did not return.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// NewsSearchResult carries the provider's total hit count and the page it returned.
type NewsSearchResult struct {
	TotalResults int           `json:"total_results"`
	Articles     []NewsArticle `json:"articles"`
}

// Sentiment labels returned by classifiers.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Sentiment is a classifier's verdict on a piece of text.
type Sentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
