package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"stock-portfolio-evaluator/internal/api"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// maxInputChars keeps requests well inside the model's 512 token window
const maxInputChars = 2000

type HuggingFaceParams struct {
	BaseURL           string
	Model             string
	Token             string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// HuggingFace classifies text with a hosted text-classification model
type HuggingFace struct {
	client *api.Client
	model  string
	token  string
}

var _ interfaces.SentimentClassifier = (*HuggingFace)(nil)

func NewHuggingFace(p HuggingFaceParams) *HuggingFace {
	opts := []api.ClientOption{
		api.WithBaseURL(p.BaseURL),
		api.WithRetries(p.MaxRetries),
		api.WithLogging(true),
	}
	if p.Timeout > 0 {
		opts = append(opts, api.WithTimeout(p.Timeout))
	}
	if p.RequestsPerSecond > 0 {
		opts = append(opts, api.WithRateLimit(p.RequestsPerSecond))
	}
	return &HuggingFace{client: api.NewClient(opts...), model: p.Model, token: p.Token}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (h *HuggingFace) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	text = truncateUTF8(text, maxInputChars)

	var headers map[string]string
	if h.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + h.token}
	}

	resp, err := h.client.POST(ctx, "/models/"+h.model, map[string]any{"inputs": text}, headers)
	if err != nil {
		return types.Sentiment{}, fmt.Errorf("huggingface inference: %w", err)
	}

	scores, err := parseScores(resp.Body)
	if err != nil {
		return types.Sentiment{}, fmt.Errorf("huggingface inference: %w", err)
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return types.Sentiment{Label: normalizeLabel(best.Label), Confidence: best.Score}, nil
}

// parseScores accepts both the nested [[...]] and the flat [...] response shapes.
func parseScores(body []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return nil, errors.New(apiErr.Error)
	}
	return nil, errors.New("empty classification result")
}

// normalizeLabel folds provider label spellings onto positive/negative/neutral.
func normalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "pos"), l == "bullish":
		return types.SentimentPositive
	case strings.HasPrefix(l, "neg"), l == "bearish":
		return types.SentimentNegative
	case strings.HasPrefix(l, "neu"):
		return types.SentimentNeutral
	default:
		return l
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
