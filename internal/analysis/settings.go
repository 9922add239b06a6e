package analysis

import (
	"stock-portfolio-evaluator/internal/store"
	"stock-portfolio-evaluator/internal/ta"
)

// Settings carries the tunables the analyzers read.
type Settings struct {
	SMAShort              int
	SMALong               int
	RSIPeriod             int
	RSIOverbought         float64
	RSIOversold           float64
	TechnicalLookbackDays int
	RiskLookbackDays      int
	BenchmarkIndex        string
	NewsArticleLimit      int
	NewsLanguage          string
}

func NewSettings(cfg *store.Config) Settings {
	return Settings{
		SMAShort:              cfg.Analysis.SMAShort,
		SMALong:               cfg.Analysis.SMALong,
		RSIPeriod:             cfg.Analysis.RSIPeriod,
		RSIOverbought:         cfg.Analysis.RSIOverbought,
		RSIOversold:           cfg.Analysis.RSIOversold,
		TechnicalLookbackDays: cfg.Analysis.TechnicalLookbackDays,
		RiskLookbackDays:      cfg.Analysis.RiskLookbackDays,
		BenchmarkIndex:        cfg.Analysis.BenchmarkIndex,
		NewsArticleLimit:      cfg.News.ArticleLimit,
		NewsLanguage:          cfg.News.Language,
	}
}

// DefaultSettings returns the settings of a configuration with every default applied.
func DefaultSettings() Settings {
	return NewSettings(store.Default())
}

// ptr returns &v for available values and nil for NaN.
func ptr(v float64) *float64 {
	if !ta.Available(v) {
		return nil
	}
	return &v
}

func strPtr(s string) *string {
	return &s
}
