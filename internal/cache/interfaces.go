package cache

import (
	"context"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// PredictionCache stores single-customer prediction results by content key.
// Implementations fail open: lookup errors are reported as misses.
type PredictionCache interface {
	Get(ctx context.Context, key string) (*domain.PredictionResult, bool)
	Set(ctx context.Context, key string, result *domain.PredictionResult)
}

// Noop is used when caching is disabled
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.PredictionResult, bool) { return nil, false }

func (Noop) Set(context.Context, string, *domain.PredictionResult) {}
