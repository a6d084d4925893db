package consumer

import (
	"context"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// Envelope carries a parsed record together with the callbacks that settle its message
type Envelope struct {
	Record *domain.PredictionRecord
	ack    func(context.Context) error
	nack   func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(record *domain.PredictionRecord, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{Record: record, ack: ack, nack: nack}
}

// Ack settles the message as stored
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack == nil {
		return nil
	}
	return e.ack(ctx)
}

// Nack hands the message back to the queue for redelivery
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack == nil {
		return nil
	}
	return e.nack(ctx)
}
