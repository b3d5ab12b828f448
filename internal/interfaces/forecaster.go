package interfaces

import (
	"context"

	"stock-forecaster/internal/marketcal"
	"stock-forecaster/internal/stats"
	"stock-forecaster/internal/types"
)

// ForecastRequest is the full state handed to a forecasting provider.
type ForecastRequest struct {
	Symbol      string                 `json:"symbol"`
	Quote       types.Quote            `json:"quote"`
	Stats       stats.HistoricalContext `json:"stats"`
	TradingDays []marketcal.TradingDay `json:"trading_days"`
	Headlines   []string               `json:"headlines,omitempty"`
}

// Forecaster asks a generative model for a structured price outlook over the
// supplied trading days.
type Forecaster interface {
	Forecast(ctx context.Context, req ForecastRequest) (types.Forecast, error)
}
