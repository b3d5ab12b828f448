package zerodha

import (
	"context"
	"testing"
	"time"
)

func TestStaticDailyBarsDeterministic(t *testing.T) {
	z := NewZerodha(Params{Mode: "STATIC", Exchange: "NSE"})

	a, err := z.DailyBars(context.Background(), "RELIANCE", 90)
	if err != nil {
		t.Fatal(err)
	}
	b, err := z.DailyBars(context.Background(), "RELIANCE", 90)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("unexpected lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bar %d differs between runs", i)
		}
	}
}

func TestStaticDailyBarsShape(t *testing.T) {
	z := NewZerodha(Params{Mode: "STATIC", Exchange: "NSE"})

	bars, err := z.DailyBars(context.Background(), "TCS", 400)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) < 250 {
		t.Fatalf("expected a year of weekday bars, got %d", len(bars))
	}

	for i, bar := range bars {
		if wd := bar.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("bar %d falls on %s", i, wd)
		}
		if bar.Low > bar.Open || bar.Low > bar.Close || bar.High < bar.Open || bar.High < bar.Close {
			t.Errorf("bar %d violates low <= open,close <= high: %+v", i, bar)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(bar.Timestamp) {
			t.Errorf("bars not ordered oldest first at %d", i)
		}
	}
}

func TestStaticQuoteMatchesSeries(t *testing.T) {
	z := NewZerodha(Params{Mode: "STATIC", Exchange: "NSE"})

	q, err := z.Quote(context.Background(), "INFY")
	if err != nil {
		t.Fatal(err)
	}
	if q.Symbol != "INFY" || q.Price <= 0 {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestLiveModeRequiresToken(t *testing.T) {
	z := NewZerodha(Params{Mode: "LIVE", APIKey: "k", AccessToken: "t", Exchange: "NSE"})

	if _, err := z.DailyBars(context.Background(), "UNKNOWN", 90); err == nil {
		t.Error("expected error for symbol without instrument token")
	}
}
