package brokerobs

import (
	"context"

	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/trace"
	"stock-forecaster/internal/types"
)

// observableMarketData wraps a MarketData source with logging and tracing
type observableMarketData struct {
	md interfaces.MarketData
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(md interfaces.MarketData) interfaces.MarketData {
	return &observableMarketData{md: md}
}

func (o *observableMarketData) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.Quote")
	defer span.End()

	quote, err := o.md.Quote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote", err, "symbol", symbol)
		return types.Quote{}, err
	}

	logger.DebugSkip(ctx, 1, "Quote fetched", "symbol", symbol, "price", quote.Price)
	return quote, nil
}

func (o *observableMarketData) DailyBars(ctx context.Context, symbol string, days int) ([]types.DailyBar, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.DailyBars")
	defer span.End()

	bars, err := o.md.DailyBars(ctx, symbol, days)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch daily bars", err, "symbol", symbol, "days", days)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Daily bars fetched", "symbol", symbol, "bars", len(bars))
	return bars, nil
}
