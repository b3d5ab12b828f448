package zerodha

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/types"
)

type Params struct {
	Mode        string // LIVE or STATIC
	APIKey      string
	AccessToken string
	Exchange    string
	// Tokens maps trading symbols to Kite instrument tokens, needed for
	// historical data requests.
	Tokens map[string]int
}

// Zerodha serves quotes and daily bars from the Kite Connect REST API, or
// deterministic synthetic data in STATIC mode.
type Zerodha struct {
	p      Params
	kc     *kiteconnect.Client
	mapper *instrumentMapper
}

var _ interfaces.MarketData = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	z := &Zerodha{p: p, mapper: newInstrumentMapper(p.Tokens)}

	if p.Mode == "LIVE" {
		z.kc = kiteconnect.New(p.APIKey)
		z.kc.SetAccessToken(p.AccessToken)
	}

	return z
}

func (z *Zerodha) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	if z.kc == nil {
		return z.staticQuote(symbol), nil
	}

	instrument := z.p.Exchange + ":" + symbol
	quotes, err := z.kc.GetLTP(instrument)
	if err != nil {
		return types.Quote{}, fmt.Errorf("fetch LTP for %s: %w", instrument, err)
	}
	q, ok := quotes[instrument]
	if !ok {
		return types.Quote{}, fmt.Errorf("no quote returned for %s", instrument)
	}

	return types.Quote{Symbol: symbol, Price: q.LastPrice, AsOf: time.Now()}, nil
}

func (z *Zerodha) DailyBars(ctx context.Context, symbol string, days int) ([]types.DailyBar, error) {
	if z.kc == nil {
		return z.staticDailyBars(symbol, days), nil
	}

	token, ok := z.mapper.getToken(symbol)
	if !ok {
		return nil, fmt.Errorf("no instrument token configured for %s", symbol)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	hist, err := z.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}

	bars := make([]types.DailyBar, 0, len(hist))
	for _, h := range hist {
		bars = append(bars, types.DailyBar{
			Timestamp: h.Date.Time,
			Open:      h.Open,
			High:      h.High,
			Low:       h.Low,
			Close:     h.Close,
			Volume:    float64(h.Volume),
		})
	}
	return bars, nil
}
