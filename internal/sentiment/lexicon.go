package sentiment

import (
	"context"
	"math"
	"strings"
	"unicode"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// Lexicon is an offline classifier built on financial sentiment word lists
// (Loughran-McDonald style). It needs no network access.
type Lexicon struct {
	positiveWords    map[string]bool
	negativeWords    map[string]bool
	uncertaintyWords map[string]bool
	litigationWords  map[string]bool
}

var _ interfaces.SentimentClassifier = (*Lexicon)(nil)

func NewLexicon() *Lexicon {
	return &Lexicon{
		positiveWords:    wordSet(positiveWords),
		negativeWords:    wordSet(negativeWords),
		uncertaintyWords: wordSet(uncertaintyWords),
		litigationWords:  wordSet(litigationWords),
	}
}

// Classify labels text by the balance of positive and negative terms.
// Litigation terms count as negative; hedging language lowers the confidence.
func (l *Lexicon) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return types.Sentiment{}, err
	}

	words := tokenize(strings.ToLower(text))

	pos, neg, unc := 0, 0, 0
	for _, w := range words {
		if l.positiveWords[w] {
			pos++
		}
		if l.negativeWords[w] || l.litigationWords[w] {
			neg++
		}
		if l.uncertaintyWords[w] {
			unc++
		}
	}

	if pos == neg {
		return types.Sentiment{Label: types.SentimentNeutral, Confidence: 0.5}, nil
	}

	// net balance in (0,1], 1 when only one side is present
	balance := math.Abs(float64(pos-neg)) / float64(pos+neg)
	uncertainty := math.Min(float64(unc)/float64(len(words))*20, 1)
	confidence := (0.5 + 0.5*balance) * (1 - uncertainty*0.5)

	label := types.SentimentPositive
	if neg > pos {
		label = types.SentimentNegative
	}
	return types.Sentiment{Label: label, Confidence: math.Round(confidence*10000) / 10000}, nil
}

// tokenize splits text into letter/digit runs
func tokenize(text string) []string {
	var words []string
	var currentWord strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			currentWord.WriteRune(r)
		} else if currentWord.Len() > 0 {
			words = append(words, currentWord.String())
			currentWord.Reset()
		}
	}

	if currentWord.Len() > 0 {
		words = append(words, currentWord.String())
	}

	return words
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var positiveWords = []string{
	"achieve", "beat", "beats", "benefit", "better", "boost", "bullish", "competitive",
	"enhance", "excellent", "exceptional", "expansion", "favorable", "gain", "gains",
	"good", "great", "grew", "growth", "improve", "improved", "improvement", "innovation",
	"innovative", "jump", "jumps", "leader", "leading", "opportunity", "optimistic",
	"outperform", "positive", "profitable", "progress", "rally", "record", "rise",
	"rises", "robust", "soar", "soars", "solid", "strength", "strong", "success",
	"successful", "superior", "surge", "surges", "upbeat", "upgrade", "upgrades", "wins",
}

var negativeWords = []string{
	"adverse", "bearish", "challenge", "challenging", "concern", "concerns", "crisis",
	"cut", "cuts", "damage", "decline", "declines", "decrease", "deficit", "deteriorate",
	"difficult", "disappoint", "disappointing", "downgrade", "downgrades", "downturn",
	"drop", "drops", "fail", "failure", "fall", "falls", "falling", "fear", "headwind",
	"hurt", "impairment", "loss", "losses", "miss", "misses", "negative", "plunge",
	"plunges", "poor", "recession", "slip", "slips", "slowdown", "slump", "tumble",
	"underperform", "unfavorable", "unprofitable", "weak", "weaker", "weakness",
	"worry", "worries", "worse", "worsen", "worst",
}

var uncertaintyWords = []string{
	"almost", "anticipate", "appear", "appears", "approximately", "assume", "believe",
	"believes", "could", "depend", "depending", "estimate", "estimates", "may", "maybe",
	"might", "pending", "perhaps", "possible", "possibly", "potential", "probably",
	"rumor", "rumour", "somewhat", "speculation", "suggest", "suggests", "uncertain",
	"uncertainty", "unclear", "unconfirmed", "unlikely",
}

var litigationWords = []string{
	"allegation", "alleged", "fraud", "investigation", "lawsuit", "penalty", "probe",
	"raid", "sued", "violation",
}
