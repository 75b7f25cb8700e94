// Package cost converts token counts into monetary estimates using a fixed
// per-model rate table.
package cost

import "strings"

// Rate holds per-million-token pricing for one model, in USD.
type Rate struct {
	InputPerM  float64 `yaml:"input_per_m"`
	OutputPerM float64 `yaml:"output_per_m"`
}

// DefaultModel is the model assumed when no rate entry matches.
const DefaultModel = "gemini-3-flash-preview"

// DefaultRates is the built-in rate table. Prices are approximate published
// list prices, frozen at build time.
var DefaultRates = map[string]Rate{
	"gemini-3-flash-preview": {InputPerM: 0.15, OutputPerM: 0.60},
	"gemini-2.5-pro":         {InputPerM: 1.25, OutputPerM: 10.00},
	"gemini-2.5-flash":       {InputPerM: 0.30, OutputPerM: 2.50},
}

// charsPerToken is the fixed divisor for token estimation. This is a
// deliberate approximation (roughly 4 characters per token for English
// prose), not a tokenizer.
const charsPerToken = 4

// EstimateTokens estimates the token count of a text string from its raw
// character length. Never negative; empty text is zero tokens.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// RateFor returns the rate entry for a model, falling back to the default
// model's rates when the model is unknown. Matching is case-insensitive.
func RateFor(model string) Rate {
	if r, ok := DefaultRates[strings.ToLower(model)]; ok {
		return r
	}
	return DefaultRates[DefaultModel]
}

// Estimate computes the USD cost of a call from token counts. Negative
// counts are treated as zero, so the result is always non-negative and
// monotonically non-decreasing in both arguments.
func Estimate(model string, tokensIn, tokensOut int) float64 {
	if tokensIn < 0 {
		tokensIn = 0
	}
	if tokensOut < 0 {
		tokensOut = 0
	}
	r := RateFor(model)
	return float64(tokensIn)/1e6*r.InputPerM + float64(tokensOut)/1e6*r.OutputPerM
}
