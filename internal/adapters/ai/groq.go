package ai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/finsent/newsradar/pkg/models"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// GroqProvider implements structured entity extraction via Groq's
// OpenAI-compatible API. Groq returns token counts but publishes no
// per-token price in the response, so usage records carry zero cost.
type GroqProvider struct {
	chat chatClient
}

// NewGroqProvider creates new Groq provider
func NewGroqProvider(apiKey, model string) *GroqProvider {
	if model == "" {
		model = defaultGroqModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	return &GroqProvider{
		chat: chatClient{
			client:  openai.NewClientWithConfig(cfg),
			model:   model,
			timeout: defaultRequestTimeout,
		},
	}
}

func (p *GroqProvider) Name() string {
	return "groq"
}

func (p *GroqProvider) Model() string {
	return p.chat.model
}

// SetTimeout overrides the per-call request timeout.
func (p *GroqProvider) SetTimeout(d time.Duration) {
	if d > 0 {
		p.chat.timeout = d
	}
}

// ExtractEntities runs one structured extraction attempt.
func (p *GroqProvider) ExtractEntities(ctx context.Context, text string) (*Extraction, error) {
	content, usage, err := p.chat.completeStructured(ctx, extractionSystemPrompt, text, "entity_sentiment_analysis", extractionSchema)
	if err != nil {
		return nil, err
	}

	entities, err := parseExtraction(content)
	if err != nil {
		return nil, err
	}

	// Cost placeholder: tokens are tracked, price is not exposed.
	return &Extraction{
		Entities: entities,
		Usage: models.UsageStats{
			TotalTokens:      usage.TotalTokens,
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
		},
	}, nil
}
