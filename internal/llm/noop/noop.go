package noop

import (
	"context"

	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/types"
)

// NoopForecaster always returns a NEUTRAL forecast. Used when no LLM
// provider is configured or as a safe fallback.
type NoopForecaster struct{}

var _ interfaces.Forecaster = (*NoopForecaster)(nil)

func NewNoopForecaster() *NoopForecaster {
	return &NoopForecaster{}
}

func (f *NoopForecaster) Forecast(ctx context.Context, req interfaces.ForecastRequest) (types.Forecast, error) {
	logger.Debug(ctx, "Noop forecaster invoked", "symbol", req.Symbol)
	fc := types.Forecast{
		Symbol:     req.Symbol,
		Outlook:    "NEUTRAL",
		Confidence: 0.0,
		Reason:     "noop_forecaster_fallback",
	}
	for _, d := range req.TradingDays {
		fc.Days = append(fc.Days, d.String())
	}
	return fc, nil
}
