package ai

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCostForModel(t *testing.T) {
	// gpt-4o-mini: 0.15 / 0.60 USD per 1M tokens
	got := costForModel("gpt-4o-mini", 1_000_000, 500_000)
	want := decimal.RequireFromString("0.45")
	if !got.Equal(want) {
		t.Errorf("cost = %s, want %s", got, want)
	}
}

func TestCostForUnknownModelIsZero(t *testing.T) {
	if got := costForModel("llama-3.3-70b-versatile", 10_000, 10_000); !got.IsZero() {
		t.Errorf("unknown model cost = %s, want 0", got)
	}
	if got := costForModel("gpt-4o-mini", 0, 0); !got.IsZero() {
		t.Errorf("zero tokens cost = %s, want 0", got)
	}
}
