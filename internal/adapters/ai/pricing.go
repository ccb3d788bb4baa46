package ai

import "github.com/shopspring/decimal"

// modelPrice holds USD cost per one million tokens.
type modelPrice struct {
	prompt     decimal.Decimal
	completion decimal.Decimal
}

// openaiPricing covers the models this service is expected to run with.
// Unknown models fall back to a zero-cost placeholder record rather than
// failing the analysis.
var openaiPricing = map[string]modelPrice{
	"gpt-4o-mini":   {prompt: decimal.RequireFromString("0.15"), completion: decimal.RequireFromString("0.60")},
	"gpt-4o":        {prompt: decimal.RequireFromString("2.50"), completion: decimal.RequireFromString("10.00")},
	"gpt-4-turbo":   {prompt: decimal.RequireFromString("10.00"), completion: decimal.RequireFromString("30.00")},
	"gpt-3.5-turbo": {prompt: decimal.RequireFromString("0.50"), completion: decimal.RequireFromString("1.50")},
}

var tokensPerMillion = decimal.NewFromInt(1_000_000)

// costForModel computes the USD cost of a call, or zero for models
// without a published price.
func costForModel(model string, promptTokens, completionTokens int) decimal.Decimal {
	price, ok := openaiPricing[model]
	if !ok {
		return decimal.Zero
	}

	promptCost := price.prompt.Mul(decimal.NewFromInt(int64(promptTokens))).Div(tokensPerMillion)
	completionCost := price.completion.Mul(decimal.NewFromInt(int64(completionTokens))).Div(tokensPerMillion)

	return promptCost.Add(completionCost)
}
