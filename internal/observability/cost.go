package observability

// Pricing constants (USD per 1K tokens)
const (
	tokensPerKilo = 1000.0

	// Gemini 2.5 Flash pricing
	geminiFlashInputPrice  = 0.0003
	geminiFlashOutputPrice = 0.0025

	// Gemini 2.5 Flash-Lite pricing
	geminiFlashLiteInputPrice  = 0.0001
	geminiFlashLiteOutputPrice = 0.0004

	// Gemini 2.5 Pro pricing
	geminiProInputPrice  = 0.00125
	geminiProOutputPrice = 0.01

	// GPT-4o-mini pricing
	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64
	OutputPricePer1K float64
}

// PricingTable contains pricing for the models in the fallback list
var PricingTable = map[string]ModelPricing{
	"gemini-2.5-flash": {
		InputPricePer1K:  geminiFlashInputPrice,
		OutputPricePer1K: geminiFlashOutputPrice,
	},
	"gemini-2.5-flash-lite": {
		InputPricePer1K:  geminiFlashLiteInputPrice,
		OutputPricePer1K: geminiFlashLiteOutputPrice,
	},
	"gemini-2.5-pro": {
		InputPricePer1K:  geminiProInputPrice,
		OutputPricePer1K: geminiProOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
}

// CalculateModelCost estimates the USD cost of one generation.
// Unknown models fall back to Flash pricing, the default model.
func CalculateModelCost(model string, inputTokens, outputTokens int) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		pricing = PricingTable["gemini-2.5-flash"]
	}

	inputCost := (float64(inputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(outputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}
