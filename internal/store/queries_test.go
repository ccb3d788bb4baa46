package store

import (
	"context"
	"math"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTopEntitiesRejectsUnknownAxis(t *testing.T) {
	s, _ := newMockStore(t)

	if _, err := s.TopEntities(context.Background(), "vibes", "positive", false, 10); err == nil {
		t.Fatal("expected error for unknown axis")
	}
	if _, err := s.TopEntities(context.Background(), "financial", "bullish", false, 10); err == nil {
		t.Fatal("expected error for unknown sentiment label")
	}
}

func TestTopEntitiesQueriesWhitelistedColumn(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("financial_sentiment")).
		WithArgs("negative").
		WillReturnRows(sqlmock.NewRows([]string{"entity_name", "count"}).
			AddRow("Careem", 4).
			AddRow("Bitcoin", 2))

	counts, err := s.TopEntities(context.Background(), "financial", "negative", false, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 || counts[0].EntityName != "Careem" || counts[0].Count != 4 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSentimentOverTimeSmoothsSeries(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sentiments")).
		WithArgs("Aramco").
		WillReturnRows(sqlmock.NewRows([]string{"date", "financial_score", "overall_score"}).
			AddRow("2026-01-01", 1.0, 1.0).
			AddRow("2026-01-02", 0.0, -1.0).
			AddRow("2026-01-03", -1.0, -1.0))

	points, err := s.SentimentOverTime(context.Background(), "Aramco")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	// 3-day moving average: the window grows until it is full
	wantFinancial := []float64{1.0, 0.5, 0.0}
	for i, want := range wantFinancial {
		if math.Abs(points[i].FinancialSmoothed-want) > 1e-9 {
			t.Errorf("financial smoothed[%d] = %v, want %v", i, points[i].FinancialSmoothed, want)
		}
	}

	if points[2].OverallSmoothed >= points[0].OverallSmoothed {
		t.Error("overall trend should decline across the series")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSentimentOverTimeNoData(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sentiments")).
		WithArgs("Unknown Corp").
		WillReturnRows(sqlmock.NewRows([]string{"date", "financial_score", "overall_score"}))

	points, err := s.SentimentOverTime(context.Background(), "Unknown Corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Fatalf("expected empty slice, got %#v", points)
	}
}
