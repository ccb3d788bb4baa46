package ai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/finsent/newsradar/pkg/models"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements structured entity extraction via OpenAI.
type OpenAIProvider struct {
	chat chatClient
}

// NewOpenAIProvider creates new OpenAI provider
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIProvider{
		chat: chatClient{
			client:  openai.NewClient(apiKey),
			model:   model,
			timeout: defaultRequestTimeout,
		},
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Model() string {
	return p.chat.model
}

// SetTimeout overrides the per-call request timeout.
func (p *OpenAIProvider) SetTimeout(d time.Duration) {
	if d > 0 {
		p.chat.timeout = d
	}
}

// ExtractEntities runs one structured extraction attempt and prices the
// call from the OpenAI token counts.
func (p *OpenAIProvider) ExtractEntities(ctx context.Context, text string) (*Extraction, error) {
	content, usage, err := p.chat.completeStructured(ctx, extractionSystemPrompt, text, "entity_sentiment_analysis", extractionSchema)
	if err != nil {
		return nil, err
	}

	entities, err := parseExtraction(content)
	if err != nil {
		return nil, err
	}

	return &Extraction{
		Entities: entities,
		Usage: models.UsageStats{
			TotalTokens:      usage.TotalTokens,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalCostUSD:     costForModel(p.chat.model, usage.PromptTokens, usage.CompletionTokens),
		},
	}, nil
}
