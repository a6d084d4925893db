package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// Supported history groupings
const (
	GroupByTier     = "tier"
	GroupByDay      = "day"
	GroupByContract = "contract"
)

// HistoryQuery represents prediction history query parameters (unix seconds, inclusive)
type HistoryQuery struct {
	From    int64
	To      int64
	GroupBy string
}

// HistoryGroupResult represents aggregated predictions for a specific group
type HistoryGroupResult struct {
	GroupValue    string
	Predictions   uint64
	RevenueAtRisk decimal.Decimal
}

// HistoryResult represents the result of a history query
type HistoryResult struct {
	TotalCount      uint64
	UniqueCustomers uint64
	RevenueAtRisk   decimal.Decimal
	Groups          []HistoryGroupResult
}

// PredictionRepository defines the interface for prediction history storage
type PredictionRepository interface {
	// InsertBatch inserts a batch of prediction records into the storage
	InsertBatch(ctx context.Context, records []*domain.PredictionRecord) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error

	// GetHistorySummary aggregates stored predictions for the query window
	GetHistorySummary(ctx context.Context, query HistoryQuery) (*HistoryResult, error)
}
