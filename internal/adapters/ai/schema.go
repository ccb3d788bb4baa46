package ai

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/finsent/newsradar/pkg/models"
)

// extractionSchema is the fixed response schema for entity extraction.
// All fields are required; enums are enforced server-side by providers
// that honor json_schema strict mode, and re-validated locally either way.
var extractionSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"entities": {
			Type:        jsonschema.Array,
			Description: "Companies and cryptocurrencies mentioned in the text. Empty if none are found.",
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"entity_name": {
						Type:        jsonschema.String,
						Description: "Full official name of the company or cryptocurrency, resolved from abbreviations.",
					},
					"entity_type": {
						Type: jsonschema.String,
						Enum: []string{"company", "crypto"},
					},
					"financial_sentiment": {
						Type:        jsonschema.String,
						Enum:        []string{"positive", "negative", "neutral"},
						Description: "Sentiment based ONLY on financial performance such as stock prices, earnings, and market data.",
					},
					"overall_sentiment": {
						Type:        jsonschema.String,
						Enum:        []string{"positive", "negative", "neutral"},
						Description: "Sentiment based on general news such as company decisions, product launches, partnerships, or legal issues.",
					},
					"reasoning": {
						Type:        jsonschema.String,
						Description: "Brief justification for both sentiment classifications.",
					},
				},
				Required:             []string{"entity_name", "entity_type", "financial_sentiment", "overall_sentiment", "reasoning"},
				AdditionalProperties: false,
			},
		},
	},
	Required:             []string{"entities"},
	AdditionalProperties: false,
}

var summarySchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"positive_financial": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		"negative_financial": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		"neutral_financial":  {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		"positive_overall":   {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		"negative_overall":   {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		"neutral_overall":    {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		"final_summary": {
			Type:        jsonschema.String,
			Description: "Brief conclusive summary of the entity's overall position.",
		},
	},
	Required: []string{
		"positive_financial", "negative_financial", "neutral_financial",
		"positive_overall", "negative_overall", "neutral_overall", "final_summary",
	},
	AdditionalProperties: false,
}

// rawEntity mirrors one entity object as the model emits it, before
// enum validation.
type rawEntity struct {
	EntityName         *string `json:"entity_name"`
	EntityType         *string `json:"entity_type"`
	FinancialSentiment *string `json:"financial_sentiment"`
	OverallSentiment   *string `json:"overall_sentiment"`
	Reasoning          *string `json:"reasoning"`
}

type rawAnalysis struct {
	Entities []rawEntity `json:"entities"`
}

// parseExtraction decodes and validates the model output against the
// extraction schema. Every failure mode here is the retryable
// schema-validation class.
func parseExtraction(content string) ([]models.EntitySentiment, error) {
	var analysis rawAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSchemaValidation, err)
	}

	entities := make([]models.EntitySentiment, 0, len(analysis.Entities))
	for i, e := range analysis.Entities {
		if e.EntityName == nil || e.EntityType == nil || e.FinancialSentiment == nil ||
			e.OverallSentiment == nil || e.Reasoning == nil {
			return nil, fmt.Errorf("%w: entity %d is missing required fields", ErrSchemaValidation, i)
		}
		if !models.ValidEntityType(*e.EntityType) {
			return nil, fmt.Errorf("%w: entity %d has unknown entity_type %q", ErrSchemaValidation, i, *e.EntityType)
		}
		if !models.ValidSentiment(*e.FinancialSentiment) {
			return nil, fmt.Errorf("%w: entity %d has unknown financial_sentiment %q", ErrSchemaValidation, i, *e.FinancialSentiment)
		}
		if !models.ValidSentiment(*e.OverallSentiment) {
			return nil, fmt.Errorf("%w: entity %d has unknown overall_sentiment %q", ErrSchemaValidation, i, *e.OverallSentiment)
		}

		entities = append(entities, models.EntitySentiment{
			EntityName:         *e.EntityName,
			EntityType:         models.EntityType(*e.EntityType),
			FinancialSentiment: models.Sentiment(*e.FinancialSentiment),
			OverallSentiment:   models.Sentiment(*e.OverallSentiment),
			Reasoning:          *e.Reasoning,
		})
	}

	return entities, nil
}
