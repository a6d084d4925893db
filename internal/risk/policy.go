package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

const (
	DefaultLowThreshold  = 0.4
	DefaultHighThreshold = 0.7
	DefaultHorizonMonths = 6

	// ChurnCutoff is the probability at which a customer is predicted to churn
	ChurnCutoff = 0.5
)

// Retention actions keyed by tier
const (
	ActionHigh   = "Immediate retention offer & contract upgrade"
	ActionMedium = "Engagement campaign & personalized discount/loyalty incentives"
	ActionLow    = "Loyalty rewards & upsell opportunity"
)

// Policy maps churn probabilities to tiers, actions and revenue at risk
type Policy struct {
	lowThreshold  float64
	highThreshold float64
	horizonMonths int
}

// NewPolicy creates a policy. Probabilities below low are Low, below high are Medium,
// the rest High.
func NewPolicy(low, high float64, horizonMonths int) (*Policy, error) {
	if low <= 0 || low > 1 || high <= 0 || high > 1 {
		return nil, fmt.Errorf("thresholds must be in (0, 1]: low=%v high=%v", low, high)
	}
	if low >= high {
		return nil, fmt.Errorf("low threshold must be less than high threshold: %v >= %v", low, high)
	}
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("horizon must be positive: %d", horizonMonths)
	}

	return &Policy{
		lowThreshold:  low,
		highThreshold: high,
		horizonMonths: horizonMonths,
	}, nil
}

// DefaultPolicy returns the 0.4/0.7 policy with a six month horizon
func DefaultPolicy() *Policy {
	return &Policy{
		lowThreshold:  DefaultLowThreshold,
		highThreshold: DefaultHighThreshold,
		horizonMonths: DefaultHorizonMonths,
	}
}

func (p *Policy) LowThreshold() float64  { return p.lowThreshold }
func (p *Policy) HighThreshold() float64 { return p.highThreshold }
func (p *Policy) HorizonMonths() int     { return p.horizonMonths }

// Tier buckets a probability
func (p *Policy) Tier(probability float64) domain.RiskTier {
	switch {
	case probability >= p.highThreshold:
		return domain.RiskTierHigh
	case probability >= p.lowThreshold:
		return domain.RiskTierMedium
	default:
		return domain.RiskTierLow
	}
}

// Action returns the recommended retention action for a tier
func Action(tier domain.RiskTier) string {
	switch tier {
	case domain.RiskTierHigh:
		return ActionHigh
	case domain.RiskTierMedium:
		return ActionMedium
	default:
		return ActionLow
	}
}

// ChurnLabel returns "Yes" when the probability reaches ChurnCutoff
func ChurnLabel(probability float64) string {
	if probability >= ChurnCutoff {
		return "Yes"
	}
	return "No"
}

// RevenueAtRisk is probability x monthly charge x horizon months
func (p *Policy) RevenueAtRisk(probability, monthlyCharges float64) decimal.Decimal {
	return decimal.NewFromFloat(probability).
		Mul(decimal.NewFromFloat(monthlyCharges)).
		Mul(decimal.NewFromInt(int64(p.horizonMonths)))
}

// Evaluate builds the full prediction result for one scored customer
func (p *Policy) Evaluate(customerID string, probability, monthlyCharges float64) domain.PredictionResult {
	tier := p.Tier(probability)

	return domain.PredictionResult{
		CustomerID:        customerID,
		ChurnProbability:  probability,
		ChurnPrediction:   ChurnLabel(probability),
		RiskTier:          tier,
		RecommendedAction: Action(tier),
		RevenueAtRisk:     p.RevenueAtRisk(probability, monthlyCharges),
	}
}
