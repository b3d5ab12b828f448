package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stock-forecaster/internal/broker/brokerobs"
	"stock-forecaster/internal/broker/zerodha"
	"stock-forecaster/internal/forecastlog"
	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/llm/claude"
	"stock-forecaster/internal/llm/llmobs"
	"stock-forecaster/internal/llm/noop"
	"stock-forecaster/internal/llm/openai"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/news"
	"stock-forecaster/internal/recorder"
	"stock-forecaster/internal/store"
	"stock-forecaster/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger, and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old forecast log files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("FORECASTER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := forecastlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeMarketData initializes the market data source with observability
func initializeMarketData(ctx context.Context, cfg *store.Config) interfaces.MarketData {
	md := zerodha.NewZerodha(zerodha.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
		Tokens:      cfg.InstrumentTokens,
	})

	if cfg.Mode == "LIVE" {
		logger.Info(ctx, "Using LIVE market data from Zerodha")
	} else {
		logger.Info(ctx, "Using STATIC synthetic market data for testing")
	}

	// Wrap with observability middleware
	return brokerobs.Wrap(md)
}

// initializeForecaster initializes the LLM forecaster with observability
func initializeForecaster(ctx context.Context, cfg *store.Config) interfaces.Forecaster {
	var forecaster interfaces.Forecaster
	var name string

	switch cfg.LLM.Provider {
	case "OPENAI":
		forecaster = openai.NewOpenAIForecaster(cfg)
		name = "openai"
	case "CLAUDE":
		forecaster = claude.NewClaudeForecaster(cfg)
		name = "claude"
	default:
		forecaster = noop.NewNoopForecaster()
		name = "noop"
		logger.Warn(ctx, "No LLM provider configured - using Noop forecaster (always NEUTRAL)")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(forecaster, name)
}

// initializeHeadlines builds the headline service, or nil when disabled
func initializeHeadlines(ctx context.Context, cfg *store.Config) *news.Service {
	if !cfg.News.Enabled {
		logger.Info(ctx, "Headline collection disabled")
		return nil
	}
	return news.NewService(&news.ServiceConfig{
		MaxArticles:    cfg.News.MaxArticles,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	})
}

// initializeRecorder builds the forecast recorder per config
func initializeRecorder(ctx context.Context, cfg *store.Config) (recorder.Recorder, error) {
	if cfg.Recorder.Driver != "sqlite" {
		return recorder.NewNoopRecorder(), nil
	}
	rec, err := recorder.NewSQLiteRecorder(ctx, cfg.Recorder.Path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open forecast recorder", err, "path", cfg.Recorder.Path)
		return nil, err
	}
	return rec, nil
}
