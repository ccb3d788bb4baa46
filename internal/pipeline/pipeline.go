package pipeline

import (
	"context"
	"errors"

	"github.com/finsent/newsradar/pkg/models"
)

// ErrAlreadyRunning is returned by Trigger while a run is in progress.
// Triggers are rejected, never queued.
var ErrAlreadyRunning = errors.New("a pipeline run is already in progress")

// ErrNotRunning is returned by Stop when there is nothing to stop.
var ErrNotRunning = errors.New("no pipeline run is in progress")

// Repository is the persistence surface the pipeline stages consume.
type Repository interface {
	// AddLink inserts a discovered URL; duplicates return nil, nil.
	AddLink(ctx context.Context, url, source string) (*models.Link, error)

	// UnscrapedLinks returns links with no corresponding article.
	UnscrapedLinks(ctx context.Context) ([]models.Link, error)

	// AddArticle inserts scraped content; URL collisions return nil, nil.
	AddArticle(ctx context.Context, linkID int64, data *models.ArticleData) (*models.Article, error)

	// UnanalyzedArticles returns articles awaiting analysis.
	UnanalyzedArticles(ctx context.Context) ([]models.Article, error)

	// MarkArticleAnalyzed flips the analyzed flag; idempotent.
	MarkArticleAnalyzed(ctx context.Context, articleID int64) error

	AddSentiment(ctx context.Context, articleID int64, entity models.EntitySentiment) error
	AddUsageLog(ctx context.Context, articleID int64, provider string, usage models.UsageStats) error
	AddPipelineRun(ctx context.Context, run models.PipelineRun) error
}

// Scraper is the discovery/fetch collaborator driven by the scrape stage.
type Scraper interface {
	Name() string
	ListURLs(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, url string) (*models.ArticleData, error)
}

// Extractor is the structured sentiment extraction collaborator. An
// error return is the non-retryable transport class; recoverable
// malformed-output failures are absorbed inside the extractor and
// surface as an empty result.
type Extractor interface {
	ProviderName() string
	AnalyzeText(ctx context.Context, text string) ([]models.EntitySentiment, models.UsageStats, error)
}

// Notifier receives the terminal record of a finished run. Failures are
// logged, never propagated into the run status.
type Notifier interface {
	NotifyRunFinished(ctx context.Context, run models.PipelineRun) error
}
