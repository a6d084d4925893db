package classifier

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// Artifact is the on-disk form of a trained logistic regression
type Artifact struct {
	Name        string                        `yaml:"name"`
	Version     string                        `yaml:"version"`
	Intercept   float64                       `yaml:"intercept"`
	Numeric     map[string]float64            `yaml:"numeric"`
	Categorical map[string]map[string]float64 `yaml:"categorical"`
}

// LogisticModel scores customers as sigmoid(intercept + sum of feature terms).
// Numeric features contribute value x coefficient; categorical features contribute the
// coefficient of their one-hot level, unseen levels contribute nothing.
type LogisticModel struct {
	artifact Artifact

	// terms are summed in sorted feature order so a vector always gets the same score
	numericFeatures     []string
	categoricalFeatures []string
}

// LoadLogisticModel reads and validates a YAML artifact
func LoadLogisticModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	return NewLogisticModel(artifact)
}

// NewLogisticModel validates an artifact and wraps it in a model
func NewLogisticModel(artifact Artifact) (*LogisticModel, error) {
	if err := validateArtifact(artifact); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &LogisticModel{
		artifact:            artifact,
		numericFeatures:     sortedKeys(artifact.Numeric),
		categoricalFeatures: sortedKeys(artifact.Categorical),
	}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateArtifact(a Artifact) error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.Version == "" {
		return fmt.Errorf("version is required")
	}
	if !finite(a.Intercept) {
		return fmt.Errorf("intercept is not finite")
	}

	empty := domain.FeatureVector{}
	numeric := empty.Numeric()
	categorical := empty.Categorical()

	for feature, coef := range a.Numeric {
		if _, ok := numeric[feature]; !ok {
			return fmt.Errorf("unknown numeric feature %q", feature)
		}
		if !finite(coef) {
			return fmt.Errorf("coefficient for %q is not finite", feature)
		}
	}

	for feature, levels := range a.Categorical {
		if _, ok := categorical[feature]; !ok {
			return fmt.Errorf("unknown categorical feature %q", feature)
		}
		for level, coef := range levels {
			if level == "" {
				return fmt.Errorf("empty level for feature %q", feature)
			}
			if !finite(coef) {
				return fmt.Errorf("coefficient for %s=%s is not finite", feature, level)
			}
		}
	}

	return nil
}

// PredictProba scores every vector in order
func (m *LogisticModel) PredictProba(ctx context.Context, vectors []domain.FeatureVector) ([]float64, error) {
	probabilities := make([]float64, len(vectors))
	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("prediction cancelled at row %d: %w", i, err)
		}
		probabilities[i] = sigmoid(m.logit(v))
	}
	return probabilities, nil
}

// Version identifies the loaded artifact
func (m *LogisticModel) Version() string {
	return m.artifact.Name + "@" + m.artifact.Version
}

func (m *LogisticModel) logit(v domain.FeatureVector) float64 {
	z := m.artifact.Intercept

	numeric := v.Numeric()
	for _, feature := range m.numericFeatures {
		z += m.artifact.Numeric[feature] * numeric[feature]
	}
	categorical := v.Categorical()
	for _, feature := range m.categoricalFeatures {
		z += m.artifact.Categorical[feature][categorical[feature]]
	}

	return z
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
