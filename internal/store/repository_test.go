package store

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/finsent/newsradar/pkg/logger"
	"github.com/finsent/newsradar/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAddLink(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO links")).
		WithArgs("https://example.com/a", "zawya.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "source", "discovered_at"}).
			AddRow(1, "https://example.com/a", "zawya.com", now))

	link, err := s.AddLink(context.Background(), "https://example.com/a", "zawya.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link == nil || link.ID != 1 || link.Source != "zawya.com" {
		t.Fatalf("unexpected link: %+v", link)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAddLinkDuplicateIsNoOp(t *testing.T) {
	s, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING returns no row for a duplicate
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO links")).
		WithArgs("https://example.com/a", "zawya.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "source", "discovered_at"}))

	link, err := s.AddLink(context.Background(), "https://example.com/a", "zawya.com")
	if err != nil {
		t.Fatalf("duplicate insert must not error: %v", err)
	}
	if link != nil {
		t.Fatalf("duplicate insert must return nil, got %+v", link)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAddArticleCollisionIsNoOp(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	article, err := s.AddArticle(context.Background(), 7, &models.ArticleData{URL: "https://example.com/a"})
	if err != nil {
		t.Fatalf("collision insert must not error: %v", err)
	}
	if article != nil {
		t.Fatalf("collision insert must return nil, got %+v", article)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUnanalyzedArticlesFiltersUnusableText(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE is_analyzed = FALSE\s+AND cleaned_text <> ''\s+AND cleaned_text <> 'N/A'`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "link_id", "url", "title", "author", "publication_date",
			"raw_text", "cleaned_text", "is_analyzed", "created_at",
		}).AddRow(3, 3, "https://example.com/c", "C", "", "", "raw", "cleaned body", false, now))

	articles, err := s.UnanalyzedArticles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != 3 {
		t.Fatalf("unexpected articles: %+v", articles)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMarkArticleAnalyzed(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles SET is_analyzed = TRUE WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.MarkArticleAnalyzed(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetConfigValueFallsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM app_config WHERE key = $1")).
		WithArgs("schedule_time").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, err := s.GetConfigValue(context.Background(), "schedule_time", "01:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "01:00" {
		t.Fatalf("value = %q, want fallback 01:00", value)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetConfigValueUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (key) DO UPDATE")).
		WithArgs("schedule_time", "06:30").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.SetConfigValue(context.Background(), "schedule_time", "06:30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLastPipelineRunEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pipeline_runs")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	run, err := s.LastPipelineRun(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}
