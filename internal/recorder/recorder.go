package recorder

import (
	"context"

	"stock-forecaster/internal/types"
)

// Recorder persists completed forecasts for later review.
type Recorder interface {
	Record(ctx context.Context, forecast types.Forecast, price float64) error
	Close() error
}

// NoopRecorder discards everything. Used when persistence is disabled.
type NoopRecorder struct{}

var _ Recorder = (*NoopRecorder)(nil)

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (r *NoopRecorder) Record(ctx context.Context, forecast types.Forecast, price float64) error {
	return nil
}

func (r *NoopRecorder) Close() error { return nil }
