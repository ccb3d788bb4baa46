package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityType classifies an extracted entity
type EntityType string

const (
	EntityCompany EntityType = "company"
	EntityCrypto  EntityType = "crypto"
)

// Sentiment is one label on a single sentiment axis
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ValidEntityType reports whether s is a known entity type.
func ValidEntityType(s string) bool {
	return s == string(EntityCompany) || s == string(EntityCrypto)
}

// ValidSentiment reports whether s is a known sentiment label.
func ValidSentiment(s string) bool {
	return s == string(SentimentPositive) || s == string(SentimentNegative) || s == string(SentimentNeutral)
}

// EntitySentiment is one entity extracted from an article with its two
// independently assigned sentiment labels. The financial axis reflects
// quantitative performance language only; the overall axis reflects the
// qualitative/operational narrative. Neither is ever derived from the other.
type EntitySentiment struct {
	EntityName         string     `json:"entity_name"`
	EntityType         EntityType `json:"entity_type"`
	FinancialSentiment Sentiment  `json:"financial_sentiment"`
	OverallSentiment   Sentiment  `json:"overall_sentiment"`
	Reasoning          string     `json:"reasoning"`
}

// SentimentRecord is a persisted EntitySentiment. Immutable once written.
type SentimentRecord struct {
	ID                 int64      `json:"id" db:"id"`
	ArticleID          int64      `json:"article_id" db:"article_id"`
	EntityName         string     `json:"entity_name" db:"entity_name"`
	EntityType         EntityType `json:"entity_type" db:"entity_type"`
	FinancialSentiment Sentiment  `json:"financial_sentiment" db:"financial_sentiment"`
	OverallSentiment   Sentiment  `json:"overall_sentiment" db:"overall_sentiment"`
	Reasoning          string     `json:"reasoning" db:"reasoning"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// UsageStats captures token usage and cost of a single LLM call.
// Providers that do not expose cost metrics produce a zero-cost record.
type UsageStats struct {
	TotalTokens      int             `json:"total_tokens"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalCostUSD     decimal.Decimal `json:"total_cost_usd"`
}

// IsZero reports whether no usage was recorded at all.
func (u UsageStats) IsZero() bool {
	return u.TotalTokens == 0 && u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalCostUSD.IsZero()
}

// UsageLog is a persisted UsageStats row tied to an article.
type UsageLog struct {
	ID               int64           `json:"id" db:"id"`
	ArticleID        int64           `json:"article_id" db:"article_id"`
	Provider         string          `json:"provider" db:"provider"`
	TotalTokens      int             `json:"total_tokens" db:"total_tokens"`
	PromptTokens     int             `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens" db:"completion_tokens"`
	TotalCostUSD     decimal.Decimal `json:"total_cost_usd" db:"total_cost_usd"`
	CreatedAt        time.Time       `json:"timestamp" db:"created_at"`
}

// EntitySummary is the structured LLM summary of an entity's sentiment
// profile, synthesized from stored reasoning snippets.
type EntitySummary struct {
	PositiveFinancial []string `json:"positive_financial"`
	NegativeFinancial []string `json:"negative_financial"`
	NeutralFinancial  []string `json:"neutral_financial"`
	PositiveOverall   []string `json:"positive_overall"`
	NegativeOverall   []string `json:"negative_overall"`
	NeutralOverall    []string `json:"neutral_overall"`
	FinalSummary      string   `json:"final_summary"`
}
