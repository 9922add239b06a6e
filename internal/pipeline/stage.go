package pipeline

import (
	"context"

	"stock-portfolio-evaluator/internal/analysis"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

const (
	StageFundamental = "Fundamental analysis"
	StageTechnical   = "Technical analysis"
	StageNews        = "News fetch"
	StageRatings     = "Analyst ratings"
	StageRisk        = "Risk metrics"
)

// Outcome is what a stage produced: its failure, if degraded, and the setter
// that stores its record on the result.
type Outcome struct {
	Failure *types.Failure
	Apply   func(res *types.AnalysisResult)
}

// Stage is one named analyzer step. Run may return an error or panic; the
// pipeline absorbs both.
type Stage struct {
	Name string
	Run  func(ctx context.Context, ticker string) (Outcome, error)
}

type degradable interface {
	Degraded() *types.Failure
}

// NewStage adapts an analyzer method into a Stage.
func NewStage[R degradable](name string, analyze func(context.Context, string) R, set func(*types.AnalysisResult, *R)) Stage {
	return Stage{
		Name: name,
		Run: func(ctx context.Context, ticker string) (Outcome, error) {
			rec := analyze(ctx, ticker)
			return Outcome{
				Failure: rec.Degraded(),
				Apply:   func(res *types.AnalysisResult) { set(res, &rec) },
			}, nil
		},
	}
}

// Analyzers bundles the five analyzers a pipeline runs.
type Analyzers struct {
	Fundamental *analysis.FundamentalAnalyzer
	Technical   *analysis.TechnicalAnalyzer
	News        *analysis.NewsAnalyzer
	Ratings     *analysis.AnalystRatingAnalyzer
	Risk        *analysis.RiskAnalyzer
}

// NewAnalyzers wires the five analyzers to their data sources.
func NewAnalyzers(market interfaces.MarketDataSource, news interfaces.NewsSource, classifier interfaces.SentimentClassifier, settings analysis.Settings) Analyzers {
	return Analyzers{
		Fundamental: analysis.NewFundamentalAnalyzer(market),
		Technical:   analysis.NewTechnicalAnalyzer(market, settings),
		News:        analysis.NewNewsAnalyzer(market, news, classifier, settings),
		Ratings:     analysis.NewAnalystRatingAnalyzer(market),
		Risk:        analysis.NewRiskAnalyzer(market, settings),
	}
}

// Stages returns the fixed stage list: fundamentals, technical, news, analyst ratings, risk.
func (a Analyzers) Stages() []Stage {
	return []Stage{
		NewStage(StageFundamental, a.Fundamental.Analyze, func(res *types.AnalysisResult, r *types.FundamentalsRecord) { res.Fundamentals = r }),
		NewStage(StageTechnical, a.Technical.Analyze, func(res *types.AnalysisResult, r *types.TechnicalRecord) { res.Technical = r }),
		NewStage(StageNews, a.News.Analyze, func(res *types.AnalysisResult, r *types.NewsRecord) { res.News = r }),
		NewStage(StageRatings, a.Ratings.Analyze, func(res *types.AnalysisResult, r *types.AnalystRatingRecord) { res.AnalystRatings = r }),
		NewStage(StageRisk, a.Risk.Analyze, func(res *types.AnalysisResult, r *types.RiskRecord) { res.RiskMetrics = r }),
	}
}
