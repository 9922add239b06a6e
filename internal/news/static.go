package news

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

var headlines = []struct{ title, description string }{
	{"%s shares rise after strong quarterly results", "Profit beat estimates as revenue growth accelerated and margins improved."},
	{"%s announces expansion into new markets", "The company plans to invest in capacity and expects growth to continue."},
	{"Analysts upgrade %s on improving outlook", "Brokerages raised targets citing robust demand and record order book."},
	{"%s faces regulatory probe over disclosures", "Investors worry the investigation could lead to a penalty and weaker guidance."},
	{"%s stock falls as costs weigh on margins", "Rising input costs and a loss in one segment hurt quarterly earnings."},
	{"%s holds annual general meeting", "Shareholders approved the board's proposals at the meeting."},
	{"%s declares dividend for the fiscal year", "The board recommended a dividend in line with the previous year."},
	{"%s management reiterates guidance", "Executives said the company remains on track for the year."},
}

// Static returns a repeatable set of canned headlines for offline runs
type Static struct {
	now func() time.Time
}

var _ interfaces.NewsSource = (*Static)(nil)

func NewStatic() *Static {
	return &Static{now: time.Now}
}

func (s *Static) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return types.NewsSearchResult{}, err
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(q.Query))
	offset := int(h.Sum32() % uint32(len(headlines)))

	total := 5 + offset
	limit := total
	if q.PageSize > 0 && q.PageSize < limit {
		limit = q.PageSize
	}

	day := s.now().UTC().Truncate(24 * time.Hour)
	res := types.NewsSearchResult{TotalResults: total}
	for i := 0; i < limit; i++ {
		hl := headlines[(offset+i)%len(headlines)]
		res.Articles = append(res.Articles, types.NewsArticle{
			Title:       fmt.Sprintf(hl.title, q.Query),
			Description: hl.description,
			URL:         fmt.Sprintf("https://example.com/news/%d/%d", h.Sum32(), i),
			Source:      "Static Wire",
			PublishedAt: day.Add(-time.Duration(i) * 6 * time.Hour).Format(time.RFC3339),
		})
	}
	return res, nil
}
