package llmobs

import (
	"context"
	"time"

	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/trace"
	"stock-forecaster/internal/types"
)

// observableForecaster wraps a Forecaster with tracing and timing logs.
type observableForecaster struct {
	inner interfaces.Forecaster
	name  string
}

// Wrap returns a Forecaster that records a span and structured logs
// around every Forecast call. name identifies the provider in logs.
func Wrap(inner interfaces.Forecaster, name string) interfaces.Forecaster {
	return &observableForecaster{inner: inner, name: name}
}

func (o *observableForecaster) Forecast(ctx context.Context, req interfaces.ForecastRequest) (types.Forecast, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Forecast")
	defer span.End()

	start := time.Now()
	logger.DebugSkip(ctx, 1, "LLM forecast starting",
		"provider", o.name,
		"symbol", req.Symbol,
		"trading_days", len(req.TradingDays),
		"headlines", len(req.Headlines))

	fc, err := o.inner.Forecast(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "LLM forecast failed", err,
			"provider", o.name,
			"symbol", req.Symbol,
			"duration_ms", elapsed.Milliseconds())
		return types.Forecast{}, err
	}

	logger.InfoSkip(ctx, 1, "LLM forecast completed",
		"provider", o.name,
		"symbol", req.Symbol,
		"outlook", fc.Outlook,
		"confidence", fc.Confidence,
		"duration_ms", elapsed.Milliseconds())
	return fc, nil
}
