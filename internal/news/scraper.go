package news

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-portfolio-evaluator/internal/api"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

const googleNewsURL = "https://news.google.com"

// Scraper reads the Google News RSS search feed. It needs no API key.
type Scraper struct {
	baseURL  string
	region   string
	language string
	timeout  time.Duration
}

var _ interfaces.NewsSource = (*Scraper)(nil)

// NewScraper creates a Google News scraper. An empty baseURL targets news.google.com.
func NewScraper(baseURL, region, language string, timeout time.Duration) *Scraper {
	if baseURL == "" {
		baseURL = googleNewsURL
	}
	if region == "" {
		region = "IN"
	}
	if language == "" {
		language = "en"
	}
	return &Scraper{
		baseURL:  strings.TrimRight(baseURL, "/"),
		region:   strings.ToUpper(region),
		language: language,
		timeout:  timeout,
	}
}

type scrapedItem struct {
	article types.NewsArticle
	at      time.Time
}

// Search scrapes the feed for q.Query, newest first, truncated to q.PageSize
func (s *Scraper) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return types.NewsSearchResult{}, err
	}

	items := []scrapedItem{}

	c := colly.NewCollector(colly.MaxDepth(1), colly.Async(false))
	if s.timeout > 0 {
		c.SetRequestTimeout(s.timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("User-Agent", api.BrowserHeaders()["User-Agent"])
	})

	c.OnXML("//item", func(e *colly.XMLElement) {
		title := strings.TrimSpace(e.ChildText("title"))
		if title == "" {
			return
		}
		source := strings.TrimSpace(e.ChildText("source"))
		// Google appends " - Publisher" to every headline
		if source != "" {
			title = strings.TrimSuffix(title, " - "+source)
		}
		at, _ := time.Parse(time.RFC1123, strings.TrimSpace(e.ChildText("pubDate")))

		article := types.NewsArticle{
			Title:       title,
			Description: stripHTML(e.ChildText("description")),
			URL:         strings.TrimSpace(e.ChildText("link")),
			Source:      source,
		}
		if !at.IsZero() {
			article.PublishedAt = at.UTC().Format(time.RFC3339)
		}
		items = append(items, scrapedItem{article: article, at: at})
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
		logger.ErrorWithErr(ctx, "Scraping error", err, "url", r.Request.URL.String(), "status", r.StatusCode)
	})

	if err := c.Visit(s.searchURL(q.Query)); err != nil {
		return types.NewsSearchResult{}, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	if scrapeErr != nil {
		return types.NewsSearchResult{}, fmt.Errorf("failed to scrape Google News: %w", scrapeErr)
	}
	if err := ctx.Err(); err != nil {
		return types.NewsSearchResult{}, err
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].at.After(items[j].at) })

	result := types.NewsSearchResult{TotalResults: len(items)}
	for _, it := range items {
		if q.PageSize > 0 && len(result.Articles) >= q.PageSize {
			break
		}
		result.Articles = append(result.Articles, it.article)
	}

	logger.Debug(ctx, "Google News scraping completed", "query", q.Query, "found", len(items), "kept", len(result.Articles))
	return result, nil
}

func (s *Scraper) searchURL(query string) string {
	lang := s.language
	if !strings.Contains(lang, "-") {
		lang = lang + "-" + s.region
	}
	return fmt.Sprintf("%s/rss/search?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		s.baseURL, url.QueryEscape(query), lang, s.region, s.region, s.language)
}
