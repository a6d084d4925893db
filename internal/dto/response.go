package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error          string   `json:"error" example:"schema_error"`
	Message        string   `json:"message,omitempty" example:"dataset missing required columns: Contract"`
	MissingColumns []string `json:"missing_columns,omitempty" example:"Contract"`
}

// StatusResponse represents the liveness response
type StatusResponse struct {
	Status string `json:"status" example:"API is running"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string `json:"status" example:"ok"`
	ModelVersion string `json:"model_version" example:"churn-logistic@1.3.0"`
}

// PredictResponse represents a single-customer prediction
type PredictResponse struct {
	CustomerID        string          `json:"customer_id" example:"7590-VHVEG"`
	ChurnProbability  float64         `json:"churn_probability" example:"0.73"`
	ChurnPrediction   string          `json:"churn_prediction" example:"Yes"`
	RiskLevel         domain.RiskTier `json:"risk_level" swaggertype:"string" example:"High Risk"`
	RecommendedAction string          `json:"recommended_action" example:"Immediate retention offer & contract upgrade"`
	RevenueAtRisk     decimal.Decimal `json:"revenue_at_risk" swaggertype:"string" example:"130.746"`
	ModelVersion      string          `json:"model_version" example:"churn-logistic@1.3.0"`
	Cached            bool            `json:"cached" example:"false"`
}

// SummaryRow represents the aggregate of one risk segment
type SummaryRow struct {
	RiskSegment   domain.RiskTier `json:"risk_segment" swaggertype:"string" example:"High Risk"`
	Customers     int             `json:"customers" example:"42"`
	RevenueAtRisk decimal.Decimal `json:"revenue_at_risk" swaggertype:"string" example:"18250.5"`
}

// PredictionRow represents one scored customer of a batch
type PredictionRow struct {
	CustomerID        string          `json:"customerID" example:"CUST_1"`
	MonthlyCharges    float64         `json:"MonthlyCharges" example:"70.35"`
	Tenure            float64         `json:"tenure" example:"2"`
	Contract          string          `json:"Contract" example:"Month-to-month"`
	ChurnProbability  float64         `json:"churn_probability" example:"0.81"`
	ChurnPrediction   string          `json:"churn_prediction" example:"Yes"`
	RiskSegment       domain.RiskTier `json:"risk_segment" swaggertype:"string" example:"High Risk"`
	RevenueAtRisk     decimal.Decimal `json:"revenue_at_risk" swaggertype:"string" example:"341.9"`
	RecommendedAction string          `json:"recommended_action" example:"Immediate retention offer & contract upgrade"`
}

// BatchPredictResponse represents a batch prediction result
type BatchPredictResponse struct {
	BatchID           string          `json:"batch_id" example:"0b7f6a52-8d0e-4c43-9df4-0b7cf3a5a0f1"`
	TotalRows         int             `json:"total_rows" example:"7043"`
	LowThreshold      float64         `json:"low_threshold" example:"0.4"`
	HighThreshold     float64         `json:"high_threshold" example:"0.7"`
	HorizonMonths     int             `json:"horizon_months" example:"6"`
	ModelVersion      string          `json:"model_version" example:"churn-logistic@1.3.0"`
	Summary           []SummaryRow    `json:"summary"`
	SamplePredictions []PredictionRow `json:"sample_predictions"`
}

// HistoryGroupData represents aggregated history for a specific group
type HistoryGroupData struct {
	GroupValue    string          `json:"group_value" example:"High Risk"`
	Predictions   uint64          `json:"predictions" example:"1500"`
	RevenueAtRisk decimal.Decimal `json:"revenue_at_risk" swaggertype:"string" example:"48211.25"`
}

// HistorySummaryResponse represents the prediction history query response
type HistorySummaryResponse struct {
	From            int64              `json:"from" example:"1766016000"`
	To              int64              `json:"to" example:"1766620800"`
	TotalCount      uint64             `json:"total_count" example:"5000"`
	UniqueCustomers uint64             `json:"unique_customers" example:"4200"`
	RevenueAtRisk   decimal.Decimal    `json:"revenue_at_risk" swaggertype:"string" example:"120034.5"`
	GroupBy         string             `json:"group_by,omitempty" example:"tier"`
	Groups          []HistoryGroupData `json:"groups,omitempty"`
}
