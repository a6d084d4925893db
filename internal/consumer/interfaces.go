package consumer

import (
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// MessageParser turns a raw queue message body into a prediction record
type MessageParser interface {
	Parse(body []byte) (*domain.PredictionRecord, error)
}
