package llmobs

import (
	"context"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/trace"
	"stock-portfolio-evaluator/internal/types"
)

// observableDecider wraps a Decider with observability (logging & tracing)
type observableDecider struct {
	decider interfaces.Decider
}

// Compile-time interface check
var _ interfaces.Decider = (*observableDecider)(nil)

// Wrap wraps a decider with observability middleware
func Wrap(decider interfaces.Decider) interfaces.Decider {
	return &observableDecider{
		decider: decider,
	}
}

// Decide requests a verdict with observability
func (od *observableDecider) Decide(ctx context.Context, ticker string, synthesis string) (types.Verdict, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Decide")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting verdict",
		"ticker", ticker,
		"synthesis_chars", len(synthesis),
	)

	verdict, err := od.decider.Decide(ctx, ticker, synthesis)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get verdict", err, "ticker", ticker)
		return types.Verdict{}, err
	}

	logger.InfoSkip(ctx, 1, "Verdict received",
		"ticker", ticker,
		"verdict", verdict.Label,
		"report_chars", len(verdict.Report),
	)

	return verdict, nil
}
