package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"stock-portfolio-evaluator/internal/api"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/trace"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

type Params struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Endpoint    string
	Timeout     time.Duration
	MaxRetries  int
}

// Client calls the OpenAI chat completions API
type Client struct {
	p      Params
	client *api.Client
}

var _ interfaces.Completer = (*Client)(nil)

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

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if c.p.APIKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model": c.p.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": c.p.Temperature,
		"max_tokens":  c.p.MaxTokens,
	}

	resp, err := c.client.POST(ctx, c.p.Endpoint, body, map[string]string{"Authorization": "Bearer " + c.p.APIKey})
	if err != nil {
		return "", err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
