package ai

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/finsent/newsradar/pkg/logger"
	"github.com/finsent/newsradar/pkg/models"
)

const (
	// maxExtractionAttempts bounds retries on schema-validation failures.
	// Attempts are immediate, with no backoff; the per-call timeout bounds
	// total stall time.
	maxExtractionAttempts = 3

	// minArticleLength short-circuits stub content before any model call
	// is made, so no tokens are spent on it.
	minArticleLength = 20
)

// Analyzer wraps a Provider with the extraction workflow: short-circuit
// on stub text, bounded retry on malformed output, and a defensive
// completeness filter over the validated result.
type Analyzer struct {
	provider Provider
}

// NewAnalyzer creates new analyzer over the given provider
func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// ProviderName returns the underlying provider name for usage logs.
func (a *Analyzer) ProviderName() string {
	return a.provider.Name()
}

// AnalyzeText extracts entity sentiments from article text.
//
// Schema-validation failures are retried up to maxExtractionAttempts with
// the same prompt; exhausting them degrades to an empty result with empty
// usage and no error, so one stubborn article cannot fail the batch.
// Any other error (transport, provider) is returned immediately without
// retry - the caller keeps the article unanalyzed for the next run.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) ([]models.EntitySentiment, models.UsageStats, error) {
	if len(strings.TrimSpace(text)) < minArticleLength {
		return nil, models.UsageStats{}, nil
	}

	for attempt := 1; attempt <= maxExtractionAttempts; attempt++ {
		extraction, err := a.provider.ExtractEntities(ctx, text)
		if err == nil {
			return a.filterComplete(extraction.Entities), extraction.Usage, nil
		}

		if !errors.Is(err, ErrSchemaValidation) {
			return nil, models.UsageStats{}, err
		}

		logger.Warn("schema validation failed",
			zap.String("provider", a.provider.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxExtractionAttempts),
			zap.Error(err),
		)
	}

	logger.Error("max extraction retries reached, returning empty result",
		zap.String("provider", a.provider.Name()),
	)

	return nil, models.UsageStats{}, nil
}

// filterComplete drops entity objects with blank required fields. Schema
// validation should make this unreachable, but providers have been seen
// to only partially honor structured-output contracts.
func (a *Analyzer) filterComplete(entities []models.EntitySentiment) []models.EntitySentiment {
	valid := make([]models.EntitySentiment, 0, len(entities))
	for _, e := range entities {
		if strings.TrimSpace(e.EntityName) == "" || e.EntityType == "" ||
			e.FinancialSentiment == "" || e.OverallSentiment == "" {
			logger.Warn("discarding malformed entity object from LLM",
				zap.String("provider", a.provider.Name()),
				zap.String("entity_name", e.EntityName),
			)
			continue
		}
		valid = append(valid, e)
	}
	return valid
}
