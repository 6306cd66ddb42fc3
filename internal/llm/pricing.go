package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of a call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// priceRule prices every model id starting with prefix. Dated snapshots
// ("claude-haiku-4-5-20251001") and OpenRouter ids ("openai/gpt-4o-mini")
// resolve through the same rule.
type priceRule struct {
	prefix string
	cost   ModelCost
}

// prices is ordered so that a longer prefix precedes any shorter prefix
// it extends. Local models are free and not listed.
var prices = []priceRule{
	{"claude-haiku-4-5", ModelCost{1, 5}},
	{"claude-3-5-haiku", ModelCost{0.8, 4}},
	{"claude-sonnet-4", ModelCost{3, 15}},
	{"claude-opus-4-5", ModelCost{5, 25}},
	{"claude-opus-4", ModelCost{15, 75}},

	{"gpt-4o-mini", ModelCost{0.15, 0.6}},
	{"gpt-4o", ModelCost{2.5, 10}},
	{"gpt-4.1-nano", ModelCost{0.1, 0.4}},
	{"gpt-4.1-mini", ModelCost{0.4, 1.6}},
	{"gpt-4.1", ModelCost{2, 8}},
	{"gpt-5-nano", ModelCost{0.05, 0.4}},
	{"gpt-5-mini", ModelCost{0.25, 2}},
	{"gpt-5", ModelCost{1.25, 10}},

	{"gemini-2.0-flash-lite", ModelCost{0.075, 0.3}},
	{"gemini-2.0-flash", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash-lite", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash", ModelCost{0.3, 2.5}},
	{"gemini-2.5-pro", ModelCost{1.25, 10}},

	{"qwen/qwen-2.5-72b-instruct", ModelCost{0.12, 0.39}},
	{"deepseek/deepseek-chat", ModelCost{0.3, 0.85}},
}

// LookupCost returns the price of modelID, or nil when it is unknown.
// OpenRouter ids are tried whole, then without their vendor prefix.
func LookupCost(modelID string) *ModelCost {
	if c, ok := priceOf(modelID); ok {
		return &c
	}
	if _, bare, ok := strings.Cut(modelID, "/"); ok {
		if c, ok := priceOf(bare); ok {
			return &c
		}
	}
	return nil
}

func priceOf(id string) (ModelCost, bool) {
	for _, r := range prices {
		if strings.HasPrefix(id, r.prefix) {
			return r.cost, true
		}
	}
	return ModelCost{}, false
}
