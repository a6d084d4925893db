package queue

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// PredictionMessage is the JSON body of a history message
type PredictionMessage struct {
	PredictionID     string          `json:"prediction_id"`
	BatchID          string          `json:"batch_id,omitempty"`
	Mode             string          `json:"mode"`
	CustomerID       string          `json:"customer_id"`
	ChurnProbability float64         `json:"churn_probability"`
	RiskTier         domain.RiskTier `json:"risk_tier"`
	RevenueAtRisk    decimal.Decimal `json:"revenue_at_risk"`
	MonthlyCharges   float64         `json:"monthly_charges"`
	Contract         string          `json:"contract"`
	ModelVersion     string          `json:"model_version"`
	HorizonMonths    int             `json:"horizon_months"`
	PredictedAt      int64           `json:"predicted_at"` // unix milliseconds
}

// NewPredictionMessage converts a record into its wire form
func NewPredictionMessage(r domain.PredictionRecord) PredictionMessage {
	return PredictionMessage{
		PredictionID:     r.PredictionID,
		BatchID:          r.BatchID,
		Mode:             r.Mode,
		CustomerID:       r.CustomerID,
		ChurnProbability: r.ChurnProbability,
		RiskTier:         r.RiskTier,
		RevenueAtRisk:    r.RevenueAtRisk,
		MonthlyCharges:   r.MonthlyCharges,
		Contract:         r.Contract,
		ModelVersion:     r.ModelVersion,
		HorizonMonths:    r.HorizonMonths,
		PredictedAt:      r.PredictedAt.UnixMilli(),
	}
}

// Record validates the message and converts it back into a domain record
func (m PredictionMessage) Record() (*domain.PredictionRecord, error) {
	if m.PredictionID == "" {
		return nil, fmt.Errorf("prediction_id is required")
	}
	if m.Mode != domain.ModeSingle && m.Mode != domain.ModeBatch {
		return nil, fmt.Errorf("invalid mode: %q", m.Mode)
	}
	if m.ChurnProbability < 0 || m.ChurnProbability > 1 {
		return nil, fmt.Errorf("churn_probability out of range: %v", m.ChurnProbability)
	}
	if m.PredictedAt <= 0 {
		return nil, fmt.Errorf("predicted_at is required")
	}

	return &domain.PredictionRecord{
		PredictionID:     m.PredictionID,
		BatchID:          m.BatchID,
		Mode:             m.Mode,
		CustomerID:       m.CustomerID,
		ChurnProbability: m.ChurnProbability,
		RiskTier:         m.RiskTier,
		RevenueAtRisk:    m.RevenueAtRisk,
		MonthlyCharges:   m.MonthlyCharges,
		Contract:         m.Contract,
		ModelVersion:     m.ModelVersion,
		HorizonMonths:    m.HorizonMonths,
		PredictedAt:      time.UnixMilli(m.PredictedAt).UTC(),
	}, nil
}
