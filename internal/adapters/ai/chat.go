package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// defaultRequestTimeout bounds a single LLM call so an unresponsive
// provider cannot stall the pipeline beyond one in-flight request.
const defaultRequestTimeout = 60 * time.Second

// chatClient is the shared structured-output transport used by all
// OpenAI-compatible providers.
type chatClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// completeStructured issues one chat completion constrained to the given
// JSON schema and returns the raw message content plus token usage.
// Transport and API errors come back unwrapped from the schema class;
// an empty choice list counts as malformed output.
func (c *chatClient) completeStructured(ctx context.Context, system, user, schemaName string, schema jsonschema.Definition) (string, openai.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: &schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return "", openai.Usage{}, fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", resp.Usage, fmt.Errorf("%w: response contains no choices", ErrSchemaValidation)
	}

	return resp.Choices[0].Message.Content, resp.Usage, nil
}
