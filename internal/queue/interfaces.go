package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// PredictionPublisher defines the interface for publishing prediction records to a queue
type PredictionPublisher interface {
	PublishPredictions(ctx context.Context, records []domain.PredictionRecord) error
}

// PublishError reports a publish where only some records were accepted
type PublishError struct {
	Failed int
	Total  int
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish %d of %d predictions: %v", e.Failed, e.Total, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// FailedRecords returns how many of total records a publish error covers.
// Errors that carry no count are assumed to cover every record.
func FailedRecords(err error, total int) int {
	if err == nil {
		return 0
	}
	var publishErr *PublishError
	if errors.As(err, &publishErr) {
		return publishErr.Failed
	}
	return total
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error)
	QueueURL() string
}

// NoopPublisher discards records; used when history is disabled
type NoopPublisher struct{}

func (NoopPublisher) PublishPredictions(context.Context, []domain.PredictionRecord) error {
	return nil
}
