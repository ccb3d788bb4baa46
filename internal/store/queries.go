package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cinar/indicator"
	"github.com/shopspring/decimal"

	"github.com/finsent/newsradar/pkg/models"
)

// psql builds queries with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sentimentAxes maps the public axis names onto whitelisted columns.
// Query parameters never reach SQL identifiers any other way.
var sentimentAxes = map[string]string{
	"financial": "financial_sentiment",
	"overall":   "overall_sentiment",
}

// ArticleFilter narrows the article listing. Zero values mean "any".
type ArticleFilter struct {
	EntityName         string
	EntityType         string
	FinancialSentiment string
	OverallSentiment   string
	Limit              uint64
}

// ArticleWithSentiments is an article joined with its extracted entities.
type ArticleWithSentiments struct {
	models.Article
	Sentiments []models.SentimentRecord `json:"sentiments"`
}

// FilterArticles returns analyzed articles matching the filter, newest
// first, each carrying its sentiment rows.
func (s *Store) FilterArticles(ctx context.Context, filter ArticleFilter) ([]ArticleWithSentiments, error) {
	idQuery := psql.Select("DISTINCT a.id").
		From("articles a").
		Where(sq.Eq{"a.is_analyzed": true}).
		OrderBy("a.id DESC")

	joinSentiments := filter.EntityName != "" || filter.EntityType != "" ||
		filter.FinancialSentiment != "" || filter.OverallSentiment != ""
	if joinSentiments {
		idQuery = idQuery.Join("sentiments se ON se.article_id = a.id")
		if filter.EntityName != "" {
			idQuery = idQuery.Where(sq.ILike{"se.entity_name": "%" + filter.EntityName + "%"})
		}
		if filter.EntityType != "" {
			idQuery = idQuery.Where(sq.Eq{"se.entity_type": filter.EntityType})
		}
		if filter.FinancialSentiment != "" {
			idQuery = idQuery.Where(sq.Eq{"se.financial_sentiment": filter.FinancialSentiment})
		}
		if filter.OverallSentiment != "" {
			idQuery = idQuery.Where(sq.Eq{"se.overall_sentiment": filter.OverallSentiment})
		}
	}
	if filter.Limit > 0 {
		idQuery = idQuery.Limit(filter.Limit)
	}

	query, args, err := idQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article filter: %w", err)
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select article ids: %w", err)
	}
	if len(ids) == 0 {
		return []ArticleWithSentiments{}, nil
	}

	query, args, err = psql.Select("id", "link_id", "url", "title", "author",
		"publication_date", "raw_text", "cleaned_text", "is_analyzed", "created_at").
		From("articles").
		Where(sq.Eq{"id": ids}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article select: %w", err)
	}

	var articles []models.Article
	if err := s.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	query, args, err = psql.Select("id", "article_id", "entity_name", "entity_type",
		"financial_sentiment", "overall_sentiment", "reasoning", "created_at").
		From("sentiments").
		Where(sq.Eq{"article_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sentiment select: %w", err)
	}

	var sentiments []models.SentimentRecord
	if err := s.db.SelectContext(ctx, &sentiments, query, args...); err != nil {
		return nil, fmt.Errorf("select sentiments: %w", err)
	}

	byArticle := make(map[int64][]models.SentimentRecord, len(articles))
	for _, se := range sentiments {
		byArticle[se.ArticleID] = append(byArticle[se.ArticleID], se)
	}

	result := make([]ArticleWithSentiments, 0, len(articles))
	for _, a := range articles {
		result = append(result, ArticleWithSentiments{
			Article:    a,
			Sentiments: byArticle[a.ID],
		})
	}
	return result, nil
}

// DistinctEntities lists every entity name seen so far, alphabetically.
func (s *Store) DistinctEntities(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT DISTINCT entity_name FROM sentiments ORDER BY entity_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select distinct entities: %w", err)
	}
	return names, nil
}

// EntityCount ranks one entity by mention count for a single axis/label.
type EntityCount struct {
	EntityName string `json:"entity_name" db:"entity_name"`
	Count      int    `json:"count" db:"count"`
}

// TopEntities ranks entities by how often they carry the given label on
// the given axis ("financial" or "overall"). ascending=true surfaces the
// least-mentioned entities instead.
func (s *Store) TopEntities(ctx context.Context, axis, label string, ascending bool, limit uint64) ([]EntityCount, error) {
	column, ok := sentimentAxes[axis]
	if !ok {
		return nil, fmt.Errorf("unknown sentiment axis %q", axis)
	}
	if !models.ValidSentiment(label) {
		return nil, fmt.Errorf("unknown sentiment label %q", label)
	}
	if limit == 0 {
		limit = 10
	}

	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	query, args, err := psql.Select("entity_name", "COUNT(*) AS count").
		From("sentiments").
		Where(sq.Eq{column: label}).
		GroupBy("entity_name").
		OrderBy("count "+direction, "entity_name").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top entities: %w", err)
	}

	var counts []EntityCount
	if err := s.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("select top entities: %w", err)
	}
	return counts, nil
}

// SentimentPoint is one day of an entity's sentiment trend. Scores map
// positive to +1, negative to -1, neutral to 0, averaged per day; the
// smoothed values are a simple moving average over the dated series.
type SentimentPoint struct {
	Date              string  `json:"date" db:"date"`
	FinancialScore    float64 `json:"financial_score" db:"financial_score"`
	OverallScore      float64 `json:"overall_score" db:"overall_score"`
	FinancialSmoothed float64 `json:"financial_smoothed"`
	OverallSmoothed   float64 `json:"overall_smoothed"`
}

// sentimentSmoothingPeriod is the SMA window for trend series.
const sentimentSmoothingPeriod = 3

// SentimentOverTime returns the dated sentiment score series for one
// entity across both axes, oldest first.
func (s *Store) SentimentOverTime(ctx context.Context, entityName string) ([]SentimentPoint, error) {
	var points []SentimentPoint
	err := s.db.SelectContext(ctx, &points, `
		SELECT
			TO_CHAR(created_at::date, 'YYYY-MM-DD') AS date,
			AVG(CASE financial_sentiment WHEN 'positive' THEN 1.0 WHEN 'negative' THEN -1.0 ELSE 0.0 END) AS financial_score,
			AVG(CASE overall_sentiment WHEN 'positive' THEN 1.0 WHEN 'negative' THEN -1.0 ELSE 0.0 END) AS overall_score
		FROM sentiments
		WHERE entity_name = $1
		GROUP BY created_at::date
		ORDER BY created_at::date`,
		entityName,
	)
	if err != nil {
		return nil, fmt.Errorf("select sentiment over time: %w", err)
	}
	if len(points) == 0 {
		return []SentimentPoint{}, nil
	}

	financial := make([]float64, len(points))
	overall := make([]float64, len(points))
	for i, p := range points {
		financial[i] = p.FinancialScore
		overall[i] = p.OverallScore
	}

	financialSma := indicator.Sma(sentimentSmoothingPeriod, financial)
	overallSma := indicator.Sma(sentimentSmoothingPeriod, overall)
	for i := range points {
		points[i].FinancialSmoothed = financialSma[i]
		points[i].OverallSmoothed = overallSma[i]
	}

	return points, nil
}

// SentimentDistribution counts labels on one axis.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// DashboardStats aggregates the headline numbers for the dashboard.
type DashboardStats struct {
	TotalArticles    int                   `json:"total_articles"`
	AnalyzedArticles int                   `json:"analyzed_articles"`
	TotalEntities    int                   `json:"total_entities"`
	DistinctEntities int                   `json:"distinct_entities"`
	Financial        SentimentDistribution `json:"financial_sentiment"`
	Overall          SentimentDistribution `json:"overall_sentiment"`
}

// DashboardStats computes article totals and the label distribution on
// both axes.
func (s *Store) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	err := s.db.GetContext(ctx, &stats.TotalArticles, `SELECT COUNT(*) FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	err = s.db.GetContext(ctx, &stats.AnalyzedArticles, `SELECT COUNT(*) FROM articles WHERE is_analyzed = TRUE`)
	if err != nil {
		return nil, fmt.Errorf("count analyzed articles: %w", err)
	}

	var row struct {
		Total       int `db:"total"`
		Distinct    int `db:"distinct_entities"`
		FinPositive int `db:"fin_positive"`
		FinNegative int `db:"fin_negative"`
		FinNeutral  int `db:"fin_neutral"`
		OvPositive  int `db:"ov_positive"`
		OvNegative  int `db:"ov_negative"`
		OvNeutral   int `db:"ov_neutral"`
	}
	err = s.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT entity_name) AS distinct_entities,
			COUNT(*) FILTER (WHERE financial_sentiment = 'positive') AS fin_positive,
			COUNT(*) FILTER (WHERE financial_sentiment = 'negative') AS fin_negative,
			COUNT(*) FILTER (WHERE financial_sentiment = 'neutral') AS fin_neutral,
			COUNT(*) FILTER (WHERE overall_sentiment = 'positive') AS ov_positive,
			COUNT(*) FILTER (WHERE overall_sentiment = 'negative') AS ov_negative,
			COUNT(*) FILTER (WHERE overall_sentiment = 'neutral') AS ov_neutral
		FROM sentiments`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate sentiments: %w", err)
	}

	stats.TotalEntities = row.Total
	stats.DistinctEntities = row.Distinct
	stats.Financial = SentimentDistribution{Positive: row.FinPositive, Negative: row.FinNegative, Neutral: row.FinNeutral}
	stats.Overall = SentimentDistribution{Positive: row.OvPositive, Negative: row.OvNegative, Neutral: row.OvNeutral}
	return &stats, nil
}

// UsageLogs returns raw usage rows, newest first.
func (s *Store) UsageLogs(ctx context.Context, limit uint64) ([]models.UsageLog, error) {
	if limit == 0 {
		limit = 100
	}

	query, args, err := psql.Select("id", "article_id", "provider", "total_tokens",
		"prompt_tokens", "completion_tokens", "total_cost_usd", "created_at").
		From("usage_logs").
		OrderBy("id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build usage logs: %w", err)
	}

	var logs []models.UsageLog
	if err := s.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("select usage logs: %w", err)
	}
	return logs, nil
}

// ProviderUsage is the per-provider usage rollup.
type ProviderUsage struct {
	Provider         string          `json:"provider" db:"provider"`
	Calls            int             `json:"calls" db:"calls"`
	TotalTokens      int             `json:"total_tokens" db:"total_tokens"`
	PromptTokens     int             `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens" db:"completion_tokens"`
	TotalCostUSD     decimal.Decimal `json:"total_cost_usd" db:"total_cost_usd"`
}

// UsageSummary aggregates usage per provider.
func (s *Store) UsageSummary(ctx context.Context) ([]ProviderUsage, error) {
	var summary []ProviderUsage
	err := s.db.SelectContext(ctx, &summary, `
		SELECT
			provider,
			COUNT(*) AS calls,
			COALESCE(SUM(total_tokens), 0) AS total_tokens,
			COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) AS completion_tokens,
			COALESCE(SUM(total_cost_usd), 0) AS total_cost_usd
		FROM usage_logs
		GROUP BY provider
		ORDER BY provider`,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize usage: %w", err)
	}
	return summary, nil
}

// ArticleRef identifies an article inside a sentiment bucket.
type ArticleRef struct {
	ID        int64     `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EntityArticleBuckets groups one entity's articles into the six
// axis/label buckets. An article appears at most once per bucket even
// when the entity was extracted from it multiple times.
type EntityArticleBuckets struct {
	PositiveFinancial []ArticleRef `json:"positive_financial"`
	NegativeFinancial []ArticleRef `json:"negative_financial"`
	NeutralFinancial  []ArticleRef `json:"neutral_financial"`
	PositiveOverall   []ArticleRef `json:"positive_overall"`
	NegativeOverall   []ArticleRef `json:"negative_overall"`
	NeutralOverall    []ArticleRef `json:"neutral_overall"`
}

// EntityArticlesBySentiment buckets one entity's articles per axis/label.
func (s *Store) EntityArticlesBySentiment(ctx context.Context, entityName string) (*EntityArticleBuckets, error) {
	var rows []struct {
		ArticleRef
		FinancialSentiment string `db:"financial_sentiment"`
		OverallSentiment   string `db:"overall_sentiment"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id, a.url, a.title, a.created_at, se.financial_sentiment, se.overall_sentiment
		FROM sentiments se
		JOIN articles a ON a.id = se.article_id
		WHERE se.entity_name = $1
		ORDER BY a.id DESC`,
		entityName,
	)
	if err != nil {
		return nil, fmt.Errorf("select entity articles: %w", err)
	}

	buckets := &EntityArticleBuckets{
		PositiveFinancial: []ArticleRef{},
		NegativeFinancial: []ArticleRef{},
		NeutralFinancial:  []ArticleRef{},
		PositiveOverall:   []ArticleRef{},
		NegativeOverall:   []ArticleRef{},
		NeutralOverall:    []ArticleRef{},
	}

	appendOnce := func(bucket *[]ArticleRef, seen map[string]bool, ref ArticleRef) {
		if seen[ref.URL] {
			return
		}
		seen[ref.URL] = true
		*bucket = append(*bucket, ref)
	}

	var (
		seenFinPos = map[string]bool{}
		seenFinNeg = map[string]bool{}
		seenFinNeu = map[string]bool{}
		seenOvPos  = map[string]bool{}
		seenOvNeg  = map[string]bool{}
		seenOvNeu  = map[string]bool{}
	)

	for _, row := range rows {
		switch row.FinancialSentiment {
		case string(models.SentimentPositive):
			appendOnce(&buckets.PositiveFinancial, seenFinPos, row.ArticleRef)
		case string(models.SentimentNegative):
			appendOnce(&buckets.NegativeFinancial, seenFinNeg, row.ArticleRef)
		case string(models.SentimentNeutral):
			appendOnce(&buckets.NeutralFinancial, seenFinNeu, row.ArticleRef)
		}
		switch row.OverallSentiment {
		case string(models.SentimentPositive):
			appendOnce(&buckets.PositiveOverall, seenOvPos, row.ArticleRef)
		case string(models.SentimentNegative):
			appendOnce(&buckets.NegativeOverall, seenOvNeg, row.ArticleRef)
		case string(models.SentimentNeutral):
			appendOnce(&buckets.NeutralOverall, seenOvNeu, row.ArticleRef)
		}
	}

	return buckets, nil
}

// Reasoning is one stored explanation with its labels, input to the
// entity summarizer.
type Reasoning struct {
	FinancialSentiment string `json:"financial_sentiment" db:"financial_sentiment"`
	OverallSentiment   string `json:"overall_sentiment" db:"overall_sentiment"`
	Reasoning          string `json:"reasoning" db:"reasoning"`
}

// EntityReasonings returns the non-empty reasoning snippets recorded for
// an entity, oldest first.
func (s *Store) EntityReasonings(ctx context.Context, entityName string) ([]Reasoning, error) {
	var reasonings []Reasoning
	err := s.db.SelectContext(ctx, &reasonings, `
		SELECT financial_sentiment, overall_sentiment, reasoning
		FROM sentiments
		WHERE entity_name = $1 AND reasoning <> ''
		ORDER BY id`,
		entityName,
	)
	if err != nil {
		return nil, fmt.Errorf("select entity reasonings: %w", err)
	}
	return reasonings, nil
}
