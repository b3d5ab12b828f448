package recorder

import (
	"context"
	"path/filepath"
	"testing"

	"stock-forecaster/internal/types"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "forecasts.db")

	r, err := NewSQLiteRecorder(ctx, dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder failed: %v", err)
	}
	defer r.Close()

	forecasts := []types.Forecast{
		{Symbol: "INFY", Outlook: "BULLISH", Confidence: 0.72, TargetLow: 1500, TargetHigh: 1580, Reason: "strong momentum", Days: []string{"2024-06-11", "2024-06-12"}},
		{Symbol: "INFY", Outlook: "NEUTRAL", Confidence: 0.3, Reason: "mixed signals"},
		{Symbol: "TCS", Outlook: "BEARISH", Confidence: 0.6, Reason: "weak guidance"},
	}
	for _, f := range forecasts {
		if err := r.Record(ctx, f, 1520.5); err != nil {
			t.Fatalf("Record(%s) failed: %v", f.Symbol, err)
		}
	}

	got, err := r.RecentForecasts(ctx, "INFY", 10)
	if err != nil {
		t.Fatalf("RecentForecasts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 INFY forecasts, got %d", len(got))
	}
	for _, f := range got {
		if f.Symbol != "INFY" {
			t.Errorf("expected only INFY rows, got %s", f.Symbol)
		}
	}

	var bullish types.Forecast
	for _, f := range got {
		if f.Outlook == "BULLISH" {
			bullish = f
		}
	}
	if bullish.Confidence != 0.72 {
		t.Errorf("expected confidence 0.72, got %f", bullish.Confidence)
	}
	if len(bullish.Days) != 2 || bullish.Days[0] != "2024-06-11" {
		t.Errorf("unexpected days: %v", bullish.Days)
	}
}

func TestSQLiteRecorderLimit(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRecorder(ctx, filepath.Join(t.TempDir(), "forecasts.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder failed: %v", err)
	}
	defer r.Close()

	for i := 0; i < 5; i++ {
		if err := r.Record(ctx, types.Forecast{Symbol: "SBIN", Outlook: "NEUTRAL"}, 800); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.RecentForecasts(ctx, "SBIN", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected limit of 3, got %d", len(got))
	}
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	if err := r.Record(context.Background(), types.Forecast{Symbol: "INFY"}, 1500); err != nil {
		t.Errorf("noop Record returned error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("noop Close returned error: %v", err)
	}
}
