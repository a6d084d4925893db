package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/dto"
)

// ReportService produces portfolio PDF reports
type ReportService struct {
	renderer ReportRenderer
	log      *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(renderer ReportRenderer, log *zap.Logger) *ReportService {
	return &ReportService{
		renderer: renderer,
		log:      log,
	}
}

// GenerateReport renders the report for a company and batch summary
func (s *ReportService) GenerateReport(ctx context.Context, req *dto.ReportRequest) ([]byte, error) {
	summary, err := req.BatchSummary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(req.CompanyInfo(), summary)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	s.log.Info("Report generated",
		zap.String("company", req.Company.Name),
		zap.Int("bytes", len(pdf)))

	return pdf, nil
}
