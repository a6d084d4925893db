package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/config"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/queue"
)

// maxBatchEntries is the SQS limit for SendMessageBatch
const maxBatchEntries = 10

// API is the subset of the SQS client used here
type API interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// Client represents an SQS client
type Client struct {
	client API
	config envConfig.SQS
	log    *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, SQSConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(SQSConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if SQSConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", SQSConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(SQSConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", SQSConfig.Region),
		zap.String("queue_url", SQSConfig.QueueURL))

	return NewClientWithAPI(sqs.NewFromConfig(cfg, clientOpts...), SQSConfig, log), nil
}

// NewClientWithAPI wraps an existing SQS API implementation
func NewClientWithAPI(api API, SQSConfig envConfig.SQS, log *zap.Logger) *Client {
	return &Client{
		client: api,
		config: SQSConfig,
		log:    log,
	}
}

// ReceiveMessages receives messages from SQS
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// ChangeMessageVisibility changes how long a received message stays hidden
func (c *Client) ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error) {
	return c.client.ChangeMessageVisibility(ctx, input)
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.config.QueueURL
}

// PublishPredictions sends prediction records to SQS in batches of ten.
// Every chunk is attempted; when any record is not accepted the returned error is a
// *queue.PublishError carrying the number of records that failed.
func (c *Client) PublishPredictions(ctx context.Context, records []domain.PredictionRecord) error {
	var (
		failed int
		errs   []error
	)

	for start := 0; start < len(records); start += maxBatchEntries {
		end := min(start+maxBatchEntries, len(records))
		n, err := c.sendBatch(ctx, records[start:end])
		failed += n
		if err != nil {
			errs = append(errs, err)
		}
	}

	if failed > 0 {
		return &queue.PublishError{
			Failed: failed,
			Total:  len(records),
			Err:    errors.Join(errs...),
		}
	}

	if len(records) > 0 {
		c.log.Debug("Predictions published to SQS", zap.Int("count", len(records)))
	}
	return nil
}

// sendBatch sends one chunk and reports how many of its records were not accepted
func (c *Client) sendBatch(ctx context.Context, records []domain.PredictionRecord) (int, error) {
	var (
		failed  int
		errs    []error
		entries = make([]types.SendMessageBatchRequestEntry, 0, len(records))
	)

	for i, record := range records {
		body, err := json.Marshal(queue.NewPredictionMessage(record))
		if err != nil {
			c.log.Error("Failed to marshal prediction",
				zap.String("prediction_id", record.PredictionID),
				zap.Error(err))
			failed++
			errs = append(errs, fmt.Errorf("failed to marshal prediction %s: %w", record.PredictionID, err))
			continue
		}

		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          aws.String(strconv.Itoa(i)),
			MessageBody: aws.String(string(body)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"Mode": {
					DataType:    aws.String("String"),
					StringValue: aws.String(record.Mode),
				},
				"RiskTier": {
					DataType:    aws.String("String"),
					StringValue: aws.String(record.RiskTier.String()),
				},
			},
		})
	}

	if len(entries) == 0 {
		return failed, errors.Join(errs...)
	}

	output, err := c.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(c.config.QueueURL),
		Entries:  entries,
	})
	if err != nil {
		c.log.Error("Failed to send message batch to SQS",
			zap.Int("count", len(entries)),
			zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to send message batch to SQS: %w", err))
		return failed + len(entries), errors.Join(errs...)
	}

	if len(output.Failed) > 0 {
		first := output.Failed[0]
		c.log.Error("SQS rejected batch entries",
			zap.Int("failed", len(output.Failed)),
			zap.String("code", aws.ToString(first.Code)),
			zap.String("message", aws.ToString(first.Message)))
		failed += len(output.Failed)
		errs = append(errs, fmt.Errorf("SQS rejected %d of %d messages: %s", len(output.Failed), len(entries), aws.ToString(first.Code)))
	}

	return failed, errors.Join(errs...)
}
