package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsent/newsradar/pkg/models"
)

// ErrSchemaValidation marks a structured-output response that did not
// conform to the extraction schema (unparseable JSON, missing required
// fields, unknown enum values). This class is retryable; transport and
// provider errors are not.
var ErrSchemaValidation = errors.New("schema validation failed")

// Extraction is the validated result of a single structured-output call.
type Extraction struct {
	Entities []models.EntitySentiment
	Usage    models.UsageStats
}

// Provider performs one structured entity-sentiment extraction attempt
// against a concrete LLM vendor. Callers depend only on this interface,
// never on vendor identity.
type Provider interface {
	// Name returns provider name for usage logs
	Name() string

	// Model returns the configured model identifier
	Model() string

	// ExtractEntities runs a single structured-output call over article
	// text. Non-conforming output is reported as ErrSchemaValidation.
	ExtractEntities(ctx context.Context, text string) (*Extraction, error)
}

// Options selects and configures a provider. Zero-value fields fall back
// to the given default.
type Options struct {
	Provider string
	Model    string
	APIKey   string
}

// NewProvider constructs the provider named in opts.
func NewProvider(opts Options) (Provider, error) {
	switch opts.Provider {
	case "openai":
		return NewOpenAIProvider(opts.APIKey, opts.Model), nil
	case "groq":
		return NewGroqProvider(opts.APIKey, opts.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", opts.Provider)
	}
}
