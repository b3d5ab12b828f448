package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-forecaster/internal/forecast"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/scheduler"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		symbol     = flag.String("symbol", "", "forecast a single symbol and exit")
		daemon     = flag.Bool("daemon", false, "run on the configured schedule")
	)
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	market := initializeMarketData(ctx, cfg)
	forecaster := initializeForecaster(ctx, cfg)
	headlines := initializeHeadlines(ctx, cfg)
	rec, err := initializeRecorder(ctx, cfg)
	if err != nil {
		os.Exit(1)
	}
	defer rec.Close()

	eng := forecast.New(cfg, market, forecaster, headlines, rec)

	switch {
	case *symbol != "":
		res, err := eng.Run(ctx, *symbol)
		if err != nil {
			logger.ErrorWithErr(ctx, "Forecast failed", err, "symbol", *symbol)
			os.Exit(1)
		}
		b, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(b))

	case *daemon:
		sched := scheduler.New(ctx, cfg, eng)
		if err := sched.Register(); err != nil {
			logger.ErrorWithErr(ctx, "Failed to register scheduled jobs", err)
			os.Exit(1)
		}
		sched.Start()

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		logger.Info(ctx, "Shutting down...")
		sched.Stop()

	default:
		// Forecast the whole universe once and print the results.
		results := eng.RunAll(ctx)
		for _, res := range results {
			b, _ := json.Marshal(res)
			fmt.Println(string(b))
		}
		if len(results) == 0 {
			os.Exit(1)
		}
	}
}
