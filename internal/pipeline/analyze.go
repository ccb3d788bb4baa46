package pipeline

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finsent/newsradar/pkg/logger"
)

// analyzeStats aggregates the analysis stage outcome.
type analyzeStats struct {
	EntitiesAnalyzed int
	TotalCostUSD     decimal.Decimal
}

// runAnalysisStage drains the unanalyzed-article queue through the
// extractor. The article is marked analyzed after every successful
// extraction, including zero-entity results, so it can never re-enter
// the queue. A transport-class extractor error skips the article without
// marking it, leaving it for the next run; one bad article does not
// abort the batch. The context is checked before each article so
// cancellation latency is bounded by one in-flight LLM call.
func runAnalysisStage(ctx context.Context, repo Repository, extractor Extractor, tracker *Tracker) (analyzeStats, error) {
	stats := analyzeStats{TotalCostUSD: decimal.Zero}

	articles, err := repo.UnanalyzedArticles(ctx)
	if err != nil {
		return stats, fmt.Errorf("load unanalyzed articles: %w", err)
	}

	tracker.SetPhase(statusAnalyzing, len(articles))
	if len(articles) == 0 {
		tracker.SetTask("No new articles to analyze.")
		return stats, nil
	}

	for i, article := range articles {
		if ctx.Err() != nil {
			return stats, nil
		}

		tracker.SetTask(fmt.Sprintf("Analyzing article ID: %d", article.ID))

		entities, usage, err := extractor.AnalyzeText(ctx, article.CleanedText)
		if err != nil {
			// transport-class failure: keep the article unanalyzed so the
			// next run retries it
			logger.Error("entity extraction failed",
				zap.Int64("article_id", article.ID),
				zap.Error(err),
			)
			tracker.SetProgress(i + 1)
			continue
		}

		if !usage.IsZero() {
			if err := repo.AddUsageLog(ctx, article.ID, extractor.ProviderName(), usage); err != nil {
				return stats, fmt.Errorf("add usage log for article %d: %w", article.ID, err)
			}
			stats.TotalCostUSD = stats.TotalCostUSD.Add(usage.TotalCostUSD)
		}

		for _, entity := range entities {
			if err := repo.AddSentiment(ctx, article.ID, entity); err != nil {
				return stats, fmt.Errorf("add sentiment for article %d: %w", article.ID, err)
			}
			stats.EntitiesAnalyzed++
		}

		// Unconditional for any successful extraction outcome: an article
		// that legitimately mentions no entities must not be retried forever.
		if err := repo.MarkArticleAnalyzed(ctx, article.ID); err != nil {
			return stats, fmt.Errorf("mark article %d analyzed: %w", article.ID, err)
		}

		tracker.SetProgress(i + 1)
	}

	logger.Info("finished sentiment analysis",
		zap.Int("entities_analyzed", stats.EntitiesAnalyzed),
		zap.String("session_cost_usd", stats.TotalCostUSD.StringFixed(6)),
	)

	return stats, nil
}
