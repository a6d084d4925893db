// Package classifier scores feature vectors with a pre-trained churn model.
package classifier

import (
	"context"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// Classifier returns one churn probability in [0, 1] per feature vector, in input order.
// Implementations must be safe for concurrent use.
type Classifier interface {
	PredictProba(ctx context.Context, vectors []domain.FeatureVector) ([]float64, error)
	Version() string
}
