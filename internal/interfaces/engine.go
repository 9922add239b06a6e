package interfaces

import (
	"context"

	"stock-portfolio-evaluator/internal/types"
)

type Engine interface {
	Evaluate(ctx context.Context, ticker string) types.Evaluation
	EvaluatePortfolio(ctx context.Context, tickers []string) ([]types.Evaluation, error)
}

type Pipeline interface {
	AnalyzeTicker(ctx context.Context, ticker string) *types.AnalysisResult
	AnalyzePortfolio(ctx context.Context, tickers []string) ([]*types.AnalysisResult, error)
}
