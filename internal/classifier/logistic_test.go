package classifier

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

const testArtifact = `
name: test-model
version: "0.1"
intercept: 0
numeric:
  tenure: -0.1
categorical:
  Contract:
    Month-to-month: 1.5
`

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadLogisticModel_Success(t *testing.T) {
	model, err := LoadLogisticModel(writeArtifact(t, testArtifact))

	require.NoError(t, err)
	assert.Equal(t, "test-model@0.1", model.Version())
}

func TestLoadLogisticModel_MissingFile(t *testing.T) {
	model, err := LoadLogisticModel(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
	assert.Nil(t, model)
	assert.Contains(t, err.Error(), "failed to read model artifact")
}

func TestLoadLogisticModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed yaml", "name: [", "failed to parse"},
		{"no name", "version: \"1\"\n", "name is required"},
		{"no version", "name: m\n", "version is required"},
		{"unknown numeric", "name: m\nversion: \"1\"\nnumeric:\n  shoe_size: 1\n", "unknown numeric feature"},
		{"unknown categorical", "name: m\nversion: \"1\"\ncategorical:\n  colour:\n    red: 1\n", "unknown categorical feature"},
		{"non-finite coefficient", "name: m\nversion: \"1\"\nnumeric:\n  tenure: .nan\n", "not finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := LoadLogisticModel(writeArtifact(t, tt.body))

			assert.Error(t, err)
			assert.Nil(t, model)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogisticModel_PredictProba(t *testing.T) {
	model, err := LoadLogisticModel(writeArtifact(t, testArtifact))
	require.NoError(t, err)

	vectors := []domain.FeatureVector{
		{Record: domain.CustomerRecord{Tenure: 0}},
		{Record: domain.CustomerRecord{Tenure: 15, Contract: "Month-to-month"}},
		{Record: domain.CustomerRecord{Tenure: 20, Contract: "Two year"}},
	}

	probabilities, err := model.PredictProba(context.Background(), vectors)

	require.NoError(t, err)
	require.Len(t, probabilities, 3)
	assert.InDelta(t, 0.5, probabilities[0], 1e-9)
	assert.InDelta(t, 0.5, probabilities[1], 1e-9)
	assert.InDelta(t, 1/(1+math.Exp(2)), probabilities[2], 1e-9)
}

func TestLogisticModel_PredictProba_Empty(t *testing.T) {
	model, err := LoadLogisticModel(writeArtifact(t, testArtifact))
	require.NoError(t, err)

	probabilities, err := model.PredictProba(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, probabilities)
}

func TestLogisticModel_PredictProba_Cancelled(t *testing.T) {
	model, err := LoadLogisticModel(writeArtifact(t, testArtifact))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = model.PredictProba(ctx, []domain.FeatureVector{{}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadLogisticModel_ShippedArtifact(t *testing.T) {
	model, err := LoadLogisticModel(filepath.Join("..", "..", "models", "churn_model.yaml"))
	require.NoError(t, err)

	loyal := domain.FeatureVector{
		Record: domain.CustomerRecord{
			Tenure:          70,
			MonthlyCharges:  25,
			TotalCharges:    1750,
			Contract:        "Two year",
			InternetService: "No",
			PaymentMethod:   "Credit card (automatic)",
			Partner:         "Yes",
			Dependents:      "Yes",
		},
		ChargePerTenure: 25.0 / 71,
		TenureGroup:     domain.TenureGroup4To6Yr,
	}
	atRisk := domain.FeatureVector{
		Record: domain.CustomerRecord{
			Tenure:           1,
			MonthlyCharges:   95,
			TotalCharges:     95,
			Contract:         "Month-to-month",
			InternetService:  "Fiber optic",
			OnlineSecurity:   "No",
			TechSupport:      "No",
			PaperlessBilling: "Yes",
			PaymentMethod:    "Electronic check",
		},
		ChargePerTenure: 47.5,
		TenureGroup:     domain.TenureGroup0To1Yr,
	}

	probabilities, err := model.PredictProba(context.Background(), []domain.FeatureVector{loyal, atRisk})

	require.NoError(t, err)
	for _, p := range probabilities {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
	assert.Less(t, probabilities[0], 0.4)
	assert.GreaterOrEqual(t, probabilities[1], 0.7)
}

func TestLogisticModel_PredictProba_StableAcrossCalls(t *testing.T) {
	model, err := LoadLogisticModel(filepath.Join("..", "..", "models", "churn_model.yaml"))
	require.NoError(t, err)

	vector := domain.FeatureVector{
		Record: domain.CustomerRecord{
			SeniorCitizen:    1,
			Tenure:           13,
			MonthlyCharges:   89.95,
			TotalCharges:     1169.35,
			Contract:         "Month-to-month",
			InternetService:  "Fiber optic",
			PaperlessBilling: "Yes",
			PaymentMethod:    "Electronic check",
		},
		ChargePerTenure: 89.95 / 14,
		TenureGroup:     domain.TenureGroup1To2Yr,
	}

	seen := make(map[float64]struct{})
	for i := 0; i < 1000; i++ {
		probabilities, err := model.PredictProba(context.Background(), []domain.FeatureVector{vector})
		require.NoError(t, err)
		seen[probabilities[0]] = struct{}{}
	}

	assert.Len(t, seen, 1)
}
