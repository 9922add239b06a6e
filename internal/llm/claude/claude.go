package claude

import (
	"context"
	"errors"
	"strings"
	"time"

	"stock-portfolio-evaluator/internal/api"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/trace"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

type Params struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	// Endpoint overrides the public messages endpoint, e.g. for a proxy
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the Anthropic Messages API
type Client struct {
	p      Params
	client *api.Client
}

var _ interfaces.Completer = (*Client)(nil)

// New creates a Claude client
func New(p Params) *Client {
	if p.Endpoint == "" {
		p.Endpoint = defaultEndpoint
	}
	opts := []api.ClientOption{api.WithRetries(p.MaxRetries), api.WithLogging(true)}
	if p.Timeout > 0 {
		opts = append(opts, api.WithTimeout(p.Timeout))
	}
	return &Client{p: p, client: api.NewClient(opts...)}
}

// Complete sends the prompt pair and returns the concatenated text blocks of the reply
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if c.p.APIKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY missing")
	}

	reqBody := map[string]any{
		"model":       c.p.Model,
		"system":      system,
		"messages":    []map[string]string{{"role": "user", "content": user}},
		"max_tokens":  c.p.MaxTokens,
		"temperature": c.p.Temperature,
	}

	resp, err := c.client.POST(ctx, c.p.Endpoint, reqBody, map[string]string{
		"x-api-key":         c.p.APIKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return "", err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("no content")
	}
	return out, nil
}
