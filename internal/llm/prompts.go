package llm

import "fmt"

// DefaultSystemPrompt frames the model as the analyst that writes the verdict.
const DefaultSystemPrompt = `You are an expert financial analyst with deep expertise in stock valuation, technical analysis, risk assessment, and market sentiment analysis.

Your task is to analyze the provided stock data and generate:
1. A clear VERDICT: "BUY", "HOLD", or "SELL"
2. A detailed markdown report explaining your analysis

Guidelines for verdict:
- BUY: Strong fundamentals, positive technicals, good sentiment, reasonable valuation
- HOLD: Mixed signals or unclear direction
- SELL: Weak fundamentals, negative signals, overvaluation, or high risk

Your analysis should be data-driven, professional, and justifiable.`

// UserPrompt asks for a JSON verdict on ticker given the consolidated analysis text.
func UserPrompt(ticker, synthesis string) string {
	if synthesis == "" {
		synthesis = "No synthesis available"
	}
	return fmt.Sprintf(`You are evaluating the stock: %s.

Here is the consolidated analysis data for this stock, including fundamental metrics, technical indicators, news & sentiment, analyst ratings, and risk metrics:

%s

Using this information, decide on a single final verdict and a detailed markdown report.

Remember:
- Output MUST be a JSON object with keys "verdict" and "report" only.
- "verdict" must be one of: "BUY", "HOLD", "SELL".
- "report" should be a well-structured markdown report that covers the following items with brief explanations for each:
  - Executive Summary
  - Valuation Analysis
  - Technical Analysis
  - Sentiment Analysis
  - Risk Assessment
  - Key Catalysts
  - Recommendation Summary`, ticker, synthesis)
}
