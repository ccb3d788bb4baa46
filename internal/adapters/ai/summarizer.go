package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/finsent/newsradar/pkg/models"
)

// Summarizer produces structured per-entity sentiment summaries from
// stored reasoning snippets. It always runs on OpenAI, independently of
// the extraction provider selected for a pipeline run.
type Summarizer struct {
	chat chatClient
}

// NewSummarizer creates new entity summarizer
func NewSummarizer(apiKey, model string) *Summarizer {
	if model == "" {
		model = defaultOpenAIModel
	}

	return &Summarizer{
		chat: chatClient{
			client:  openai.NewClient(apiKey),
			model:   model,
			timeout: defaultRequestTimeout,
		},
	}
}

// Summarize synthesizes the given reasoning snippets into an EntitySummary.
func (s *Summarizer) Summarize(ctx context.Context, entityName string, reasons []string) (*models.EntitySummary, error) {
	if len(reasons) == 0 {
		return nil, fmt.Errorf("no reasoning snippets for entity %q", entityName)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Please summarize the following reasoning points for %s:\n\n", entityName)
	for _, r := range reasons {
		fmt.Fprintf(&sb, "- %s\n", r)
	}

	content, _, err := s.chat.completeStructured(ctx, summarySystemPrompt, sb.String(), "entity_summary", summarySchema)
	if err != nil {
		return nil, fmt.Errorf("summarize entity %q: %w", entityName, err)
	}

	var summary models.EntitySummary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, fmt.Errorf("%w: decode summary: %v", ErrSchemaValidation, err)
	}
	if summary.FinalSummary == "" {
		return nil, fmt.Errorf("%w: summary is missing final_summary", ErrSchemaValidation)
	}

	return &summary, nil
}
