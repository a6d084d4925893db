package service

import (
	"context"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/dto"
)

// PredictionServicer defines the interface for prediction service operations
type PredictionServicer interface {
	Predict(ctx context.Context, raw domain.RawRecord) (*dto.PredictResponse, error)
	PredictBatch(ctx context.Context, table *domain.Table) (*dto.BatchPredictResponse, error)
	GetHistorySummary(ctx context.Context, req *dto.HistorySummaryRequest) (*dto.HistorySummaryResponse, error)
	ModelVersion() string
}

// ReportServicer defines the interface for report generation
type ReportServicer interface {
	GenerateReport(ctx context.Context, req *dto.ReportRequest) ([]byte, error)
}

// ReportRenderer turns a company and batch summary into a document
type ReportRenderer interface {
	Render(company domain.CompanyInfo, summary domain.BatchSummary) ([]byte, error)
}
