package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Analysis struct {
		SMAShort              int     `yaml:"sma_short"`
		SMALong               int     `yaml:"sma_long"`
		RSIPeriod             int     `yaml:"rsi_period"`
		RSIOverbought         float64 `yaml:"rsi_overbought"`
		RSIOversold           float64 `yaml:"rsi_oversold"`
		TechnicalLookbackDays int     `yaml:"technical_lookback_days"`
		RiskLookbackDays      int     `yaml:"risk_lookback_days"`
		BenchmarkIndex        string  `yaml:"benchmark_index"`
	} `yaml:"analysis"`
	MarketData struct {
		Provider       string `yaml:"provider"` // YAHOO, KITE or STATIC
		Exchange       string `yaml:"exchange"`
		APIKeyEnv      string `yaml:"api_key_env"`
		AccessTokenEnv string `yaml:"access_token_env"`
		YahooBaseURL   string `yaml:"yahoo_base_url"`
	} `yaml:"market_data"`
	News struct {
		Provider     string `yaml:"provider"` // NEWSAPI, SCRAPER or STATIC
		Fallback     string `yaml:"fallback"`
		ArticleLimit int    `yaml:"article_limit"`
		Language     string `yaml:"language"`
		APIKeyEnv    string `yaml:"api_key_env"`
		BaseURL      string `yaml:"base_url"`
		Region       string `yaml:"region"`
	} `yaml:"news"`
	Sentiment struct {
		Provider     string `yaml:"provider"` // HUGGINGFACE, LLM or LEXICON
		Model        string `yaml:"model"`
		APIKeyEnv    string `yaml:"api_key_env"`
		BaseURL      string `yaml:"base_url"`
		CacheMinutes int    `yaml:"cache_minutes"`
	} `yaml:"sentiment"`
	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or NOOP
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
		APIKeyEnv   string  `yaml:"api_key_env"`
		Endpoint    string  `yaml:"endpoint"`
	} `yaml:"llm"`
	Pipeline struct {
		ParallelStages bool `yaml:"parallel_stages"`
		Workers        int  `yaml:"workers"`
	} `yaml:"pipeline"`
	HTTP struct {
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		MaxRetries        int     `yaml:"max_retries"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"http"`
	Output struct {
		Format string `yaml:"format"` // markdown or json
		Path   string `yaml:"path"`
		// HistoryDir receives one JSON line per evaluation; empty disables it.
		HistoryDir    string `yaml:"history_dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"output"`
}

// Default returns a complete configuration with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	a := &c.Analysis
	if a.SMAShort == 0 {
		a.SMAShort = 50
	}
	if a.SMALong == 0 {
		a.SMALong = 200
	}
	if a.RSIPeriod == 0 {
		a.RSIPeriod = 14
	}
	if a.RSIOverbought == 0 {
		a.RSIOverbought = 70
	}
	if a.RSIOversold == 0 {
		a.RSIOversold = 30
	}
	if a.TechnicalLookbackDays == 0 {
		a.TechnicalLookbackDays = 200
	}
	if a.RiskLookbackDays == 0 {
		a.RiskLookbackDays = 252
	}
	if a.BenchmarkIndex == "" {
		a.BenchmarkIndex = "^NSEI"
	}

	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "YAHOO"
	}
	if c.MarketData.Exchange == "" {
		c.MarketData.Exchange = "NSE"
	}
	if c.MarketData.APIKeyEnv == "" {
		c.MarketData.APIKeyEnv = "KITE_API_KEY"
	}
	if c.MarketData.AccessTokenEnv == "" {
		c.MarketData.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}
	if c.MarketData.YahooBaseURL == "" {
		c.MarketData.YahooBaseURL = "https://query2.finance.yahoo.com"
	}

	if c.News.Provider == "" {
		c.News.Provider = "NEWSAPI"
	}
	if c.News.ArticleLimit == 0 {
		c.News.ArticleLimit = 10
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.APIKeyEnv == "" {
		c.News.APIKeyEnv = "NEWS_API_KEY"
	}
	if c.News.BaseURL == "" {
		c.News.BaseURL = "https://newsapi.org"
	}
	if c.News.Region == "" {
		c.News.Region = "IN"
	}

	if c.Sentiment.Provider == "" {
		c.Sentiment.Provider = "HUGGINGFACE"
	}
	if c.Sentiment.Model == "" {
		c.Sentiment.Model = "mrm8488/distilroberta-finetuned-financial-news-sentiment-analysis"
	}
	if c.Sentiment.APIKeyEnv == "" {
		c.Sentiment.APIKeyEnv = "HF_API_TOKEN"
	}
	if c.Sentiment.BaseURL == "" {
		c.Sentiment.BaseURL = "https://api-inference.huggingface.co"
	}
	if c.Sentiment.CacheMinutes == 0 {
		c.Sentiment.CacheMinutes = 60
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4-turbo-preview"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}

	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 1
	}

	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 30
	}
	if c.HTTP.MaxRetries == 0 {
		c.HTTP.MaxRetries = 3
	}
	if c.HTTP.RequestsPerSecond == 0 {
		c.HTTP.RequestsPerSecond = 5
	}

	if c.Output.Format == "" {
		c.Output.Format = "markdown"
	}

	c.MarketData.Provider = strings.ToUpper(c.MarketData.Provider)
	c.News.Provider = strings.ToUpper(c.News.Provider)
	c.News.Fallback = strings.ToUpper(c.News.Fallback)
	c.Sentiment.Provider = strings.ToUpper(c.Sentiment.Provider)
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	c.Output.Format = strings.ToLower(c.Output.Format)
}

func (c *Config) Validate() error {
	a := c.Analysis
	if a.SMAShort <= 0 || a.SMALong <= 0 {
		return fmt.Errorf("analysis.sma_short and analysis.sma_long must be positive, got %d/%d", a.SMAShort, a.SMALong)
	}
	if a.SMAShort >= a.SMALong {
		return fmt.Errorf("analysis.sma_short (%d) must be below analysis.sma_long (%d)", a.SMAShort, a.SMALong)
	}
	if a.RSIPeriod <= 0 {
		return fmt.Errorf("analysis.rsi_period must be positive, got %d", a.RSIPeriod)
	}
	if a.RSIOversold < 0 || a.RSIOverbought > 100 || a.RSIOversold >= a.RSIOverbought {
		return fmt.Errorf("analysis.rsi_oversold/rsi_overbought must satisfy 0 <= oversold < overbought <= 100, got %.1f/%.1f", a.RSIOversold, a.RSIOverbought)
	}
	if a.TechnicalLookbackDays <= 0 || a.RiskLookbackDays <= 0 {
		return errors.New("analysis lookback windows must be positive")
	}
	if !oneOf(c.MarketData.Provider, "YAHOO", "KITE", "STATIC") {
		return fmt.Errorf("invalid market_data.provider '%s': must be 'YAHOO', 'KITE' or 'STATIC'", c.MarketData.Provider)
	}
	if !oneOf(c.News.Provider, "NEWSAPI", "SCRAPER", "STATIC") {
		return fmt.Errorf("invalid news.provider '%s': must be 'NEWSAPI', 'SCRAPER' or 'STATIC'", c.News.Provider)
	}
	if c.News.Fallback != "" && !oneOf(c.News.Fallback, "NEWSAPI", "SCRAPER", "STATIC") {
		return fmt.Errorf("invalid news.fallback '%s'", c.News.Fallback)
	}
	if c.News.ArticleLimit <= 0 {
		return fmt.Errorf("news.article_limit must be positive, got %d", c.News.ArticleLimit)
	}
	if !oneOf(c.Sentiment.Provider, "HUGGINGFACE", "LLM", "LEXICON") {
		return fmt.Errorf("invalid sentiment.provider '%s': must be 'HUGGINGFACE', 'LLM' or 'LEXICON'", c.Sentiment.Provider)
	}
	if !oneOf(c.LLM.Provider, "OPENAI", "CLAUDE", "NOOP") {
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI', 'CLAUDE' or 'NOOP'", c.LLM.Provider)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries cannot be negative, got %d", c.HTTP.MaxRetries)
	}
	if !oneOf(c.Output.Format, "markdown", "json") {
		return fmt.Errorf("invalid output.format '%s': must be 'markdown' or 'json'", c.Output.Format)
	}
	if c.Output.RetentionDays < 0 {
		return fmt.Errorf("output.retention_days must not be negative, got %d", c.Output.RetentionDays)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Timeout is the per-request network timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// SentimentCacheTTL is how long a classified text stays cached.
func (c *Config) SentimentCacheTTL() time.Duration {
	return time.Duration(c.Sentiment.CacheMinutes) * time.Minute
}

// LoadConfig reads path, applies defaults and validates. A missing file
// yields the defaults so the tool runs without any configuration.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// Secret reads an API credential from the environment variable named by envKey.
func Secret(envKey string) string {
	if envKey == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(envKey))
}
