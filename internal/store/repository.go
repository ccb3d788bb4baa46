package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/finsent/newsradar/pkg/models"
)

// Store is the Postgres persistence layer. Write paths treat unique
// violations as no-ops so pipeline ingestion stays idempotent.
type Store struct {
	db *sqlx.DB
}

// New creates a Store over an open connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// AddLink inserts a discovered URL. A URL seen before returns nil, nil.
func (s *Store) AddLink(ctx context.Context, url, source string) (*models.Link, error) {
	var link models.Link
	err := s.db.GetContext(ctx, &link, `
		INSERT INTO links (url, source)
		VALUES ($1, $2)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, url, source, discovered_at`,
		url, source,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return &link, nil
}

// UnscrapedLinks returns links that have no article row yet, oldest first.
func (s *Store) UnscrapedLinks(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	err := s.db.SelectContext(ctx, &links, `
		SELECT l.id, l.url, l.source, l.discovered_at
		FROM links l
		LEFT JOIN articles a ON a.link_id = l.id
		WHERE a.id IS NULL
		ORDER BY l.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select unscraped links: %w", err)
	}
	return links, nil
}

// AddArticle inserts scraped content. A colliding article URL returns
// nil, nil.
func (s *Store) AddArticle(ctx context.Context, linkID int64, data *models.ArticleData) (*models.Article, error) {
	var article models.Article
	err := s.db.GetContext(ctx, &article, `
		INSERT INTO articles (link_id, url, title, author, publication_date, raw_text, cleaned_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, link_id, url, title, author, publication_date, raw_text, cleaned_text, is_analyzed, created_at`,
		linkID, data.URL, data.Title, data.Author, data.PublicationDate, data.RawText, data.CleanedText,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return &article, nil
}

// UnanalyzedArticles returns articles awaiting analysis that carry usable
// text, oldest first.
func (s *Store) UnanalyzedArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.SelectContext(ctx, &articles, `
		SELECT id, link_id, url, title, author, publication_date, raw_text, cleaned_text, is_analyzed, created_at
		FROM articles
		WHERE is_analyzed = FALSE
		  AND cleaned_text <> ''
		  AND cleaned_text <> 'N/A'
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select unanalyzed articles: %w", err)
	}
	return articles, nil
}

// MarkArticleAnalyzed flips the analyzed flag. Idempotent.
func (s *Store) MarkArticleAnalyzed(ctx context.Context, articleID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE articles SET is_analyzed = TRUE WHERE id = $1`,
		articleID,
	)
	if err != nil {
		return fmt.Errorf("mark article analyzed: %w", err)
	}
	return nil
}

// AddSentiment persists one extracted entity for an article.
func (s *Store) AddSentiment(ctx context.Context, articleID int64, entity models.EntitySentiment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sentiments (article_id, entity_name, entity_type, financial_sentiment, overall_sentiment, reasoning)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		articleID, entity.EntityName, entity.EntityType, entity.FinancialSentiment, entity.OverallSentiment, entity.Reasoning,
	)
	if err != nil {
		return fmt.Errorf("insert sentiment: %w", err)
	}
	return nil
}

// AddUsageLog persists the token usage of one extraction call.
func (s *Store) AddUsageLog(ctx context.Context, articleID int64, provider string, usage models.UsageStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_logs (article_id, provider, total_tokens, prompt_tokens, completion_tokens, total_cost_usd)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		articleID, provider, usage.TotalTokens, usage.PromptTokens, usage.CompletionTokens, usage.TotalCostUSD,
	)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}
	return nil
}

// AddPipelineRun records the terminal state of one pipeline execution.
func (s *Store) AddPipelineRun(ctx context.Context, run models.PipelineRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (run_timestamp, new_links_found, articles_scraped, entities_analyzed, status)
		VALUES ($1, $2, $3, $4, $5)`,
		run.RunTimestamp, run.NewLinksFound, run.ArticlesScraped, run.EntitiesAnalyzed, run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert pipeline run: %w", err)
	}
	return nil
}

// LastPipelineRun returns the most recent run record, or nil when no run
// has ever been recorded.
func (s *Store) LastPipelineRun(ctx context.Context) (*models.PipelineRun, error) {
	var run models.PipelineRun
	err := s.db.GetContext(ctx, &run, `
		SELECT id, run_timestamp, new_links_found, articles_scraped, entities_analyzed, status
		FROM pipeline_runs
		ORDER BY id DESC
		LIMIT 1`,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select last pipeline run: %w", err)
	}
	return &run, nil
}

// GetConfigValue reads one app_config entry. Missing keys return the
// given fallback.
func (s *Store) GetConfigValue(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM app_config WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("select config %q: %w", key, err)
	}
	return value, nil
}

// SetConfigValue upserts one app_config entry.
func (s *Store) SetConfigValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert config %q: %w", key, err)
	}
	return nil
}
