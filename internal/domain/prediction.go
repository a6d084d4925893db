package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TenureGroup is the ordinal lifecycle bucket derived from tenure
type TenureGroup string

const (
	TenureGroup0To1Yr TenureGroup = "0-1yr"
	TenureGroup1To2Yr TenureGroup = "1-2yr"
	TenureGroup2To4Yr TenureGroup = "2-4yr"
	TenureGroup4To6Yr TenureGroup = "4-6yr"
)

// FeatureVector is a customer record augmented with the derived model features
type FeatureVector struct {
	Record          CustomerRecord
	ChargePerTenure float64
	NumServices     int
	TenureGroup     TenureGroup
}

// Numeric returns the numeric model inputs keyed by column name
func (v FeatureVector) Numeric() map[string]float64 {
	return map[string]float64{
		ColSeniorCitizen:    v.Record.SeniorCitizen,
		ColTenure:           v.Record.Tenure,
		ColMonthlyCharges:   v.Record.MonthlyCharges,
		ColTotalCharges:     v.Record.TotalCharges,
		"charge_per_tenure": v.ChargePerTenure,
		"num_services":      float64(v.NumServices),
	}
}

// Categorical returns the categorical model inputs keyed by column name
func (v FeatureVector) Categorical() map[string]string {
	r := v.Record
	return map[string]string{
		ColGender:           r.Gender,
		ColPartner:          r.Partner,
		ColDependents:       r.Dependents,
		ColPhoneService:     r.PhoneService,
		ColMultipleLines:    r.MultipleLines,
		ColInternetService:  r.InternetService,
		ColOnlineSecurity:   r.OnlineSecurity,
		ColOnlineBackup:     r.OnlineBackup,
		ColDeviceProtection: r.DeviceProtection,
		ColTechSupport:      r.TechSupport,
		ColStreamingTV:      r.StreamingTV,
		ColStreamingMovies:  r.StreamingMovies,
		ColContract:         r.Contract,
		ColPaperlessBilling: r.PaperlessBilling,
		ColPaymentMethod:    r.PaymentMethod,
		"tenure_group":      string(v.TenureGroup),
	}
}

// RiskTier is the ordinal churn risk classification
type RiskTier int

const (
	RiskTierLow RiskTier = iota
	RiskTierMedium
	RiskTierHigh
)

// RiskTiers lists every tier in ascending order
var RiskTiers = []RiskTier{RiskTierLow, RiskTierMedium, RiskTierHigh}

// String returns the display label
func (t RiskTier) String() string {
	switch t {
	case RiskTierLow:
		return "Low Risk"
	case RiskTierMedium:
		return "Medium Risk"
	case RiskTierHigh:
		return "High Risk"
	default:
		return fmt.Sprintf("RiskTier(%d)", int(t))
	}
}

// ParseRiskTier reconstructs a RiskTier from its label
func ParseRiskTier(s string) (RiskTier, error) {
	for _, t := range RiskTiers {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("invalid risk tier: %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *RiskTier) UnmarshalText(text []byte) error {
	parsed, err := ParseRiskTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PredictionResult is the outcome of scoring one customer
type PredictionResult struct {
	CustomerID        string
	ChurnProbability  float64
	ChurnPrediction   string
	RiskTier          RiskTier
	RecommendedAction string
	RevenueAtRisk     decimal.Decimal
}

// ScoredCustomer is one row of a batch result
type ScoredCustomer struct {
	MonthlyCharges float64
	Tenure         float64
	Contract       string
	PredictionResult
}

// TierSummary aggregates the customers of one tier
type TierSummary struct {
	Tier          RiskTier
	Customers     int
	RevenueAtRisk decimal.Decimal
}

// BatchSummary holds one row per tier, always all tiers in ascending order
type BatchSummary []TierSummary

// NewBatchSummary returns a summary with every tier present and zeroed
func NewBatchSummary() BatchSummary {
	summary := make(BatchSummary, len(RiskTiers))
	for i, t := range RiskTiers {
		summary[i] = TierSummary{Tier: t, RevenueAtRisk: decimal.Zero}
	}
	return summary
}

// Add accounts one scored customer into its tier row
func (s BatchSummary) Add(tier RiskTier, revenue decimal.Decimal) {
	for i := range s {
		if s[i].Tier == tier {
			s[i].Customers++
			s[i].RevenueAtRisk = s[i].RevenueAtRisk.Add(revenue)
			return
		}
	}
}

// CompanyInfo identifies the organisation a report is produced for
type CompanyInfo struct {
	Name     string
	Location string
	Email    string
	Website  string
}

// Prediction modes recorded in history
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

// PredictionRecord is a scored customer as stored in prediction history
type PredictionRecord struct {
	PredictionID     string
	BatchID          string
	Mode             string
	CustomerID       string
	ChurnProbability float64
	RiskTier         RiskTier
	RevenueAtRisk    decimal.Decimal
	MonthlyCharges   float64
	Contract         string
	ModelVersion     string
	HorizonMonths    int
	PredictedAt      time.Time
	Version          uint64
}
