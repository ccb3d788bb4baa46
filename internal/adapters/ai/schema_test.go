package ai

import (
	"errors"
	"testing"

	"github.com/finsent/newsradar/pkg/models"
)

func TestParseExtraction(t *testing.T) {
	valid := `{"entities":[{"entity_name":"Aramco","entity_type":"company","financial_sentiment":"positive","overall_sentiment":"neutral","reasoning":"record quarterly profit"}]}`

	tests := []struct {
		name     string
		content  string
		want     int
		wantErr  bool
	}{
		{name: "valid single entity", content: valid, want: 1},
		{name: "empty entity list", content: `{"entities":[]}`, want: 0},
		{name: "not json", content: `here are the entities you asked for`, wantErr: true},
		{name: "missing required field", content: `{"entities":[{"entity_name":"Aramco","entity_type":"company","financial_sentiment":"positive","overall_sentiment":"neutral"}]}`, wantErr: true},
		{name: "unknown entity type", content: `{"entities":[{"entity_name":"Dubai","entity_type":"city","financial_sentiment":"neutral","overall_sentiment":"neutral","reasoning":"x"}]}`, wantErr: true},
		{name: "unknown sentiment label", content: `{"entities":[{"entity_name":"Bitcoin","entity_type":"crypto","financial_sentiment":"bullish","overall_sentiment":"neutral","reasoning":"x"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities, err := parseExtraction(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrSchemaValidation) {
					t.Fatalf("expected schema validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(entities) != tt.want {
				t.Fatalf("expected %d entities, got %d", tt.want, len(entities))
			}
		})
	}
}

func TestParseExtractionPreservesBothAxes(t *testing.T) {
	content := `{"entities":[{"entity_name":"Careem","entity_type":"company","financial_sentiment":"negative","overall_sentiment":"positive","reasoning":"losses widened but expansion continues"}]}`

	entities, err := parseExtraction(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}

	e := entities[0]
	if e.FinancialSentiment != models.SentimentNegative {
		t.Errorf("financial sentiment = %q, want negative", e.FinancialSentiment)
	}
	if e.OverallSentiment != models.SentimentPositive {
		t.Errorf("overall sentiment = %q, want positive", e.OverallSentiment)
	}
}
