package ai

import "strings"

// ModelPricing holds pricing for a model in USD per 1M tokens.
type ModelPricing struct {
	Model       string
	InputPer1M  float64
	OutputPer1M float64
}

var PricingTable = map[string]ModelPricing{
	"gpt-4o-mini":  {Model: "gpt-4o-mini", InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-4o":       {Model: "gpt-4o", InputPer1M: 2.50, OutputPer1M: 10.00},
	"gpt-4.1-mini": {Model: "gpt-4.1-mini", InputPer1M: 0.40, OutputPer1M: 1.60},
	"gpt-4.1-nano": {Model: "gpt-4.1-nano", InputPer1M: 0.10, OutputPer1M: 0.40},
	"gpt-4.1":      {Model: "gpt-4.1", InputPer1M: 2.00, OutputPer1M: 8.00},
}

// GetPricing resolves dated snapshots such as gpt-4o-mini-2024-07-18 to their
// base model. Returns nil for unknown models.
func GetPricing(model string) *ModelPricing {
	if p, ok := PricingTable[model]; ok {
		return &p
	}
	var best *ModelPricing
	for name, p := range PricingTable {
		if strings.HasPrefix(model, name+"-") && (best == nil || len(name) > len(best.Model)) {
			best = &p
		}
	}
	return best
}

// CalculateCost estimates the USD cost of a call; unknown models cost 0.
func CalculateCost(model string, inputTokens, outputTokens int) float64 {
	p := GetPricing(model)
	if p == nil {
		return 0
	}
	inputCost := float64(inputTokens) / 1_000_000 * p.InputPer1M
	outputCost := float64(outputTokens) / 1_000_000 * p.OutputPer1M
	return inputCost + outputCost
}
