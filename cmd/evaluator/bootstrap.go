package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"stock-portfolio-evaluator/internal/analysis"
	"stock-portfolio-evaluator/internal/engine"
	"stock-portfolio-evaluator/internal/engine/engineobs"
	"stock-portfolio-evaluator/internal/history"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/llm"
	"stock-portfolio-evaluator/internal/llm/llmobs"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/marketdata"
	"stock-portfolio-evaluator/internal/marketdata/marketobs"
	"stock-portfolio-evaluator/internal/news"
	"stock-portfolio-evaluator/internal/news/newsobs"
	"stock-portfolio-evaluator/internal/pipeline"
	"stock-portfolio-evaluator/internal/sentiment"
	"stock-portfolio-evaluator/internal/sentiment/sentimentobs"
	"stock-portfolio-evaluator/internal/store"
	"stock-portfolio-evaluator/internal/trace"
)

// initializeSystem loads .env and starts the logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.InitWithConfig(trace.Config{
		Enabled:        os.Getenv("LOG_TRACING_ENABLED") == "true",
		ServiceVersion: version,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func shutdownSystem() {
	ctx := context.Background()
	_ = trace.Shutdown(ctx)
	_ = logger.Shutdown(ctx)
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeHistory returns the evaluation history log, compressing files
// past the retention window. Nil when no history directory is configured.
func initializeHistory(ctx context.Context, cfg *store.Config) *history.Log {
	if cfg.Output.HistoryDir == "" {
		return nil
	}
	h := history.New(cfg.Output.HistoryDir)
	n, err := h.CompressOlder(cfg.Output.RetentionDays)
	if err != nil {
		logger.Warn(ctx, "Failed to compress old history", "error", err.Error())
	} else if n > 0 {
		logger.Info(ctx, "Compressed old history files", "count", n, "dir", h.Dir())
	}
	return h
}

func initializeMarketData(ctx context.Context, cfg *store.Config) (interfaces.MarketDataSource, error) {
	src, err := marketdata.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MarketData.Provider == "STATIC" {
		logger.Warn(ctx, "Using STATIC synthetic market data - results are not real quotes")
	} else {
		logger.Info(ctx, "Market data provider ready", "provider", cfg.MarketData.Provider)
	}
	return marketobs.Wrap(src, cfg.MarketData.Provider), nil
}

func initializeNews(ctx context.Context, cfg *store.Config) (interfaces.NewsSource, error) {
	src, err := news.New(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "News source ready", "provider", cfg.News.Provider, "fallback", cfg.News.Fallback)
	return newsobs.Wrap(src), nil
}

func initializeSentiment(ctx context.Context, cfg *store.Config) (interfaces.SentimentClassifier, error) {
	c, err := sentiment.New(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Sentiment classifier ready", "provider", cfg.Sentiment.Provider, "cache_minutes", cfg.Sentiment.CacheMinutes)
	return sentimentobs.Wrap(c), nil
}

func initializeDecider(ctx context.Context, cfg *store.Config) (interfaces.Decider, error) {
	d, err := llm.NewDecider(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.LLM.Provider == "NOOP" {
		logger.Warn(ctx, "No LLM provider configured - using Noop decider (always HOLD)")
	}
	return llmobs.Wrap(d), nil
}

// initializePipeline wires the five analysis stages over the configured sources.
func initializePipeline(ctx context.Context, cfg *store.Config) (*pipeline.Pipeline, error) {
	market, err := initializeMarketData(ctx, cfg)
	if err != nil {
		return nil, err
	}
	newsSrc, err := initializeNews(ctx, cfg)
	if err != nil {
		return nil, err
	}
	classifier, err := initializeSentiment(ctx, cfg)
	if err != nil {
		return nil, err
	}

	analyzers := pipeline.NewAnalyzers(market, newsSrc, classifier, analysis.NewSettings(cfg))
	return pipeline.New(analyzers.Stages(), pipeline.Options{
		ParallelStages: cfg.Pipeline.ParallelStages,
		Workers:        cfg.Pipeline.Workers,
	}), nil
}

func initializeEngine(ctx context.Context, cfg *store.Config) (interfaces.Engine, error) {
	p, err := initializePipeline(ctx, cfg)
	if err != nil {
		return nil, err
	}
	decider, err := initializeDecider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opts []engine.Option
	if h := initializeHistory(ctx, cfg); h != nil {
		opts = append(opts, engine.WithHistory(h))
	}
	return engineobs.Wrap(engine.New(p, decider, opts...)), nil
}
