package news

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"stock-portfolio-evaluator/internal/api"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// ErrMissingAPIKey is returned by NewsAPI.Search when no key is configured.
var ErrMissingAPIKey = errors.New("newsapi: api key is not configured")

// NewsAPIParams configures the newsapi.org client
type NewsAPIParams struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// NewsAPI searches articles through the newsapi.org /v2/everything endpoint
type NewsAPI struct {
	client *api.Client
	apiKey string
}

var _ interfaces.NewsSource = (*NewsAPI)(nil)

// NewNewsAPI creates a newsapi.org source
func NewNewsAPI(p NewsAPIParams) *NewsAPI {
	opts := []api.ClientOption{
		api.WithBaseURL(p.BaseURL),
		api.WithRetries(p.MaxRetries),
		api.WithLogging(true),
	}
	if p.Timeout > 0 {
		opts = append(opts, api.WithTimeout(p.Timeout))
	}
	if p.RequestsPerSecond > 0 {
		opts = append(opts, api.WithRateLimit(p.RequestsPerSecond))
	}
	return &NewsAPI{
		client: api.NewClient(opts...),
		apiKey: p.APIKey,
	}
}

type everythingResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search runs a keyword query and returns at most q.PageSize articles
func (n *NewsAPI) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	if n.apiKey == "" {
		return types.NewsSearchResult{}, ErrMissingAPIKey
	}

	params := map[string]string{"q": q.Query}
	if q.SortBy != "" {
		params["sortBy"] = q.SortBy
	}
	if q.Language != "" {
		params["language"] = q.Language
	}
	if q.PageSize > 0 {
		params["pageSize"] = strconv.Itoa(q.PageSize)
	}

	resp, err := n.client.GET(ctx, "/v2/everything", params, map[string]string{"X-Api-Key": n.apiKey})
	if err != nil {
		return types.NewsSearchResult{}, fmt.Errorf("newsapi search: %w", err)
	}

	var body everythingResponse
	if err := resp.ParseJSON(&body); err != nil {
		return types.NewsSearchResult{}, fmt.Errorf("newsapi search: %w", err)
	}
	if body.Status == "error" {
		return types.NewsSearchResult{}, fmt.Errorf("newsapi %s: %s", body.Code, body.Message)
	}

	result := types.NewsSearchResult{TotalResults: body.TotalResults}
	for _, a := range body.Articles {
		result.Articles = append(result.Articles, types.NewsArticle{
			Title:       a.Title,
			Description: stripHTML(a.Description),
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	if q.PageSize > 0 && len(result.Articles) > q.PageSize {
		result.Articles = result.Articles[:q.PageSize]
	}
	return result, nil
}
