package interfaces

import (
	"context"

	"stock-forecaster/internal/types"
)

// MarketData provides quotes and historical daily bars for a symbol.
type MarketData interface {
	// Quote returns the last traded price for a symbol
	Quote(ctx context.Context, symbol string) (types.Quote, error)

	// DailyBars fetches daily bars covering the trailing `days` calendar
	// days, ordered oldest to newest
	DailyBars(ctx context.Context, symbol string, days int) ([]types.DailyBar, error)
}
