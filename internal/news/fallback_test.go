package news

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-portfolio-evaluator/internal/store"
	"stock-portfolio-evaluator/internal/types"
)

type fakeSource struct {
	res   types.NewsSearchResult
	err   error
	calls int
}

func (f *fakeSource) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	f.calls++
	return f.res, f.err
}

func page(titles ...string) types.NewsSearchResult {
	res := types.NewsSearchResult{TotalResults: len(titles)}
	for _, t := range titles {
		res.Articles = append(res.Articles, types.NewsArticle{Title: t})
	}
	return res
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &fakeSource{res: page("a")}
	secondary := &fakeSource{res: page("b")}

	res, err := NewFallback(primary, secondary).Search(context.Background(), types.NewsQuery{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "a", res.Articles[0].Title)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackOnErrorOrEmpty(t *testing.T) {
	secondary := &fakeSource{res: page("b")}

	res, err := NewFallback(&fakeSource{err: errors.New("down")}, secondary).Search(context.Background(), types.NewsQuery{})
	require.NoError(t, err)
	assert.Equal(t, "b", res.Articles[0].Title)

	res, err = NewFallback(&fakeSource{res: page()}, secondary).Search(context.Background(), types.NewsQuery{})
	require.NoError(t, err)
	assert.Equal(t, "b", res.Articles[0].Title)
}

func TestFallbackBothFail(t *testing.T) {
	_, err := NewFallback(&fakeSource{err: errors.New("down")}, &fakeSource{err: errors.New("also down")}).
		Search(context.Background(), types.NewsQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Contains(t, err.Error(), "also down")

	// an empty primary page survives a failing fallback
	res, err := NewFallback(&fakeSource{res: page()}, &fakeSource{err: errors.New("down")}).
		Search(context.Background(), types.NewsQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Articles)
}

func TestStaticSourceIsRepeatable(t *testing.T) {
	q := types.NewsQuery{Query: "Infosys stock OR INFY.NS", PageSize: 3}
	a, err := NewStatic().Search(context.Background(), q)
	require.NoError(t, err)
	b, err := NewStatic().Search(context.Background(), q)
	require.NoError(t, err)

	assert.Len(t, a.Articles, 3)
	assert.GreaterOrEqual(t, a.TotalResults, 5)
	assert.Equal(t, a.Articles[0].Title, b.Articles[0].Title)
}

func TestFactory(t *testing.T) {
	cfg := store.Default()
	cfg.News.Provider = "STATIC"
	src, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Static{}, src)

	cfg.News.Fallback = "SCRAPER"
	src, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Fallback{}, src)

	cfg.News.Provider = "BING"
	_, err = New(cfg)
	assert.Error(t, err)
}
