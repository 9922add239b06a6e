package engineobs

import (
	"context"
	"time"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/trace"
	"stock-portfolio-evaluator/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Evaluate(ctx context.Context, ticker string) types.Evaluation {
	ctx, span := trace.StartSpan(ctx, "engine.Evaluate")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting evaluation",
		"ticker", ticker,
	)

	ev := oe.engine.Evaluate(ctx, ticker)

	logger.InfoSkip(ctx, 1, "Evaluation completed",
		"ticker", ticker,
		"run_id", ev.RunID,
		"verdict", ev.Verdict,
		"errors", len(ev.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return ev
}

func (oe *observableEngine) EvaluatePortfolio(ctx context.Context, tickers []string) ([]types.Evaluation, error) {
	ctx, span := trace.StartSpan(ctx, "engine.EvaluatePortfolio")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting portfolio evaluation",
		"tickers", len(tickers),
	)

	evs, err := oe.engine.EvaluatePortfolio(ctx, tickers)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Portfolio evaluation failed", err,
			"tickers", len(tickers),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	counts := map[string]int{}
	for _, ev := range evs {
		counts[ev.Verdict]++
	}
	logger.InfoSkip(ctx, 1, "Portfolio evaluation completed",
		"evaluated", len(evs),
		"buy", counts[types.VerdictBuy],
		"hold", counts[types.VerdictHold],
		"sell", counts[types.VerdictSell],
		"failed", counts[""],
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return evs, nil
}
