package zerodha

import (
	"hash/fnv"
	"math/rand"
	"time"

	"stock-forecaster/internal/types"
)

// STATIC mode serves a deterministic random walk per symbol so development
// runs and tests see stable data without touching the Kite API.

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}

func (z *Zerodha) staticQuote(symbol string) types.Quote {
	bars := z.staticDailyBars(symbol, 10)
	price := 1000.0
	if len(bars) > 0 {
		price = bars[len(bars)-1].Close
	}
	return types.Quote{Symbol: symbol, Price: price, AsOf: time.Now()}
}

func (z *Zerodha) staticDailyBars(symbol string, days int) []types.DailyBar {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))

	base := symbolSeed(symbol) % 1000
	if base < 0 {
		base += 1000
	}
	price := 500 + float64(base) // 500..1500
	start := time.Now().UTC().AddDate(0, 0, -days)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Now().UTC()

	var bars []types.DailyBar
	for day.Before(end) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			open := price
			change := (rng.Float64() - 0.48) * 0.02 // slight upward drift
			close := open * (1 + change)
			high := open
			if close > high {
				high = close
			}
			high *= 1 + rng.Float64()*0.01
			low := open
			if close < low {
				low = close
			}
			low *= 1 - rng.Float64()*0.01

			bars = append(bars, types.DailyBar{
				Timestamp: day.Add(10 * time.Hour),
				Open:      open,
				High:      high,
				Low:       low,
				Close:     close,
				Volume:    float64(100000 + rng.Intn(900000)),
			})
			price = close
		}
		day = day.AddDate(0, 0, 1)
	}
	return bars
}
