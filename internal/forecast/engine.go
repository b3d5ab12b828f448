package forecast

import (
	"context"
	"errors"
	"time"

	"stock-forecaster/internal/forecastlog"
	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/marketcal"
	"stock-forecaster/internal/news"
	"stock-forecaster/internal/recorder"
	"stock-forecaster/internal/stats"
	"stock-forecaster/internal/store"
	"stock-forecaster/internal/types"
)

// Result is the outcome of one forecast run for a symbol.
type Result struct {
	Symbol      string                  `json:"symbol"`
	Quote       types.Quote             `json:"quote"`
	Stats       stats.HistoricalContext `json:"stats"`
	TradingDays []marketcal.TradingDay  `json:"trading_days"`
	Headlines   []string                `json:"headlines,omitempty"`
	Forecast    types.Forecast          `json:"forecast"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Engine runs the forecast pipeline: fetch quote and history, compute
// historical context, resolve upcoming trading days, optionally gather
// headlines, and ask the forecaster for an outlook.
type Engine struct {
	cfg        *store.Config
	market     interfaces.MarketData
	forecaster interfaces.Forecaster
	headlines  *news.Service
	rec        recorder.Recorder
}

func New(cfg *store.Config, market interfaces.MarketData, forecaster interfaces.Forecaster, headlines *news.Service, rec recorder.Recorder) *Engine {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Engine{cfg: cfg, market: market, forecaster: forecaster, headlines: headlines, rec: rec}
}

// Run produces a forecast for one symbol.
func (e *Engine) Run(ctx context.Context, symbol string) (*Result, error) {
	logger.Debug(ctx, "Starting forecast run", "symbol", symbol)

	quote, err := e.market.Quote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch quote", err, "symbol", symbol)
		return nil, err
	}
	logger.Debug(ctx, "Quote fetched", "symbol", symbol, "price", quote.Price)

	bars, err := e.market.DailyBars(ctx, symbol, e.cfg.HistoryDays)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch daily bars", err, "symbol", symbol)
		return nil, err
	}
	logger.Debug(ctx, "Daily bars fetched", "symbol", symbol, "count", len(bars))

	histCtx, err := stats.Compute(bars)
	if err != nil {
		var insufficient *stats.InsufficientHistoryError
		if errors.As(err, &insufficient) {
			logger.Error(ctx, "Insufficient price history",
				"symbol", symbol,
				"received", insufficient.Have,
				"required", insufficient.Want)
		} else {
			logger.ErrorWithErr(ctx, "Failed to compute historical context", err, "symbol", symbol)
		}
		return nil, err
	}
	logger.Debug(ctx, "Historical context computed",
		"symbol", symbol,
		"streak_direction", histCtx.Streak.Direction,
		"streak_days", histCtx.Streak.Days,
		"change_1d", histCtx.Performance.Change1D,
		"change_5d", histCtx.Performance.Change5D,
		"change_30d", histCtx.Performance.Change30D,
		"atr_14", histCtx.ATR14,
		"position_52w", histCtx.Position52W,
	)

	loc := e.cfg.Location()
	now := time.Now().In(loc)
	tradingDays := marketcal.NextTradingDays(now, loc, e.cfg.HorizonDays)
	logger.Debug(ctx, "Trading days resolved", "symbol", symbol, "count", len(tradingDays), "reference", now.Format(time.RFC3339))

	var headlines []string
	if e.headlines != nil && e.cfg.News.Enabled {
		headlines, _ = e.headlines.Headlines(ctx, symbol)
		logger.Debug(ctx, "Headlines gathered", "symbol", symbol, "count", len(headlines))
	}

	fc, err := e.forecaster.Forecast(ctx, interfaces.ForecastRequest{
		Symbol:      symbol,
		Quote:       quote,
		Stats:       histCtx,
		TradingDays: tradingDays,
		Headlines:   headlines,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Forecast failed", err, "symbol", symbol)
		return nil, err
	}

	logger.Forecast(ctx, symbol, fc.Outlook, fc.Confidence, fc.Reason, "price", quote.Price)
	_ = forecastlog.Append(forecastlog.Entry{
		Symbol:     symbol,
		Outlook:    fc.Outlook,
		Confidence: fc.Confidence,
		Price:      quote.Price,
		TargetLow:  fc.TargetLow,
		TargetHigh: fc.TargetHigh,
		Reason:     fc.Reason,
		Days:       fc.Days,
	})
	if err := e.rec.Record(ctx, fc, quote.Price); err != nil {
		logger.ErrorWithErr(ctx, "Failed to record forecast", err, "symbol", symbol)
	}

	logger.Debug(ctx, "Forecast run completed", "symbol", symbol, "outlook", fc.Outlook)
	return &Result{
		Symbol:      symbol,
		Quote:       quote,
		Stats:       histCtx,
		TradingDays: tradingDays,
		Headlines:   headlines,
		Forecast:    fc,
		GeneratedAt: time.Now(),
	}, nil
}

// RunAll forecasts every symbol in the configured universe. A symbol that
// fails is logged and skipped; the remaining symbols still run.
func (e *Engine) RunAll(ctx context.Context) []*Result {
	results := make([]*Result, 0, len(e.cfg.Universe))
	for _, symbol := range e.cfg.Universe {
		if ctx.Err() != nil {
			logger.Warn(ctx, "Forecast batch cancelled", "remaining", len(e.cfg.Universe)-len(results))
			break
		}
		res, err := e.Run(ctx, symbol)
		if err != nil {
			logger.ErrorWithErr(ctx, "Skipping symbol after forecast failure", err, "symbol", symbol)
			continue
		}
		results = append(results, res)
	}
	logger.Info(ctx, "Forecast batch completed", "requested", len(e.cfg.Universe), "succeeded", len(results))
	return results
}
