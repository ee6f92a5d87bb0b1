// Package pricing estimates the dollar cost of chat completion calls
// from token usage. Rates are expressed per million tokens, matching how
// the provider publishes them.
package pricing

import "strings"

// tokensPerUnit is the token denomination prices are quoted in.
const tokensPerUnit = 1_000_000

// Price is a model's rate in USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Table maps model names to prices. The zero Table prices everything at
// zero; use Default or New for a usable one.
type Table struct {
	prices   map[string]Price
	fallback Price
}

// New builds a Table from a model-to-price map and a fallback price for
// models the map does not cover. The map is copied.
func New(prices map[string]Price, fallback Price) Table {
	copied := make(map[string]Price, len(prices))
	for name, p := range prices {
		copied[name] = p
	}
	return Table{prices: copied, fallback: fallback}
}

// Default returns the built-in price table. Unknown models fall back to
// the gpt-4o-mini rate, the default model of the rewriter.
func Default() Table {
	return New(map[string]Price{
		"gpt-4o":        {Input: 2.50, Output: 10.00},
		"gpt-4o-mini":   {Input: 0.15, Output: 0.60},
		"gpt-4.1":       {Input: 2.00, Output: 8.00},
		"gpt-4.1-mini":  {Input: 0.40, Output: 1.60},
		"gpt-4-turbo":   {Input: 10.00, Output: 30.00},
		"gpt-3.5-turbo": {Input: 0.50, Output: 1.50},
	}, Price{Input: 0.15, Output: 0.60})
}

// Lookup resolves the price for a model: an exact name match first, then
// the longest table entry that prefixes the model (so dated snapshots
// like "gpt-4o-mini-2024-07-18" price as "gpt-4o-mini"), then the
// fallback.
func (t Table) Lookup(model string) Price {
	if p, ok := t.prices[model]; ok {
		return p
	}

	var best string
	found := false
	for name := range t.prices {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
			found = true
		}
	}
	if found {
		return t.prices[best]
	}
	return t.fallback
}

// Cost returns the USD cost of a call given its token usage. Negative
// token counts are treated as zero.
func (t Table) Cost(model string, inputTokens, outputTokens int) float64 {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	p := t.Lookup(model)
	return float64(inputTokens)/tokensPerUnit*p.Input +
		float64(outputTokens)/tokensPerUnit*p.Output
}
