package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	envConfig "github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/config"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/queue"
)

const testQueueURL = "http://localhost:9324/000000000000/predictions"

// MockSQSAPI is a mock implementation of API
type MockSQSAPI struct {
	mock.Mock
}

func (m *MockSQSAPI) SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageBatchOutput), args.Error(1)
}

func (m *MockSQSAPI) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*sqs.ReceiveMessageOutput), args.Error(1)
}

func (m *MockSQSAPI) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*sqs.DeleteMessageOutput), args.Error(1)
}

func (m *MockSQSAPI) ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*sqs.ChangeMessageVisibilityOutput), args.Error(1)
}

func makeRecords(n int) []domain.PredictionRecord {
	records := make([]domain.PredictionRecord, n)
	for i := range records {
		records[i] = domain.PredictionRecord{
			PredictionID:     fmt.Sprintf("pred-%d", i),
			BatchID:          "batch-1",
			Mode:             domain.ModeBatch,
			CustomerID:       fmt.Sprintf("CUST_%d", i+1),
			ChurnProbability: 0.5,
			RiskTier:         domain.RiskTierMedium,
			RevenueAtRisk:    decimal.NewFromInt(180),
			MonthlyCharges:   60,
			ModelVersion:     "churn-logistic@1.3.0",
			HorizonMonths:    6,
			PredictedAt:      time.UnixMilli(1766702551000),
		}
	}
	return records
}

func newTestClient(api API) *Client {
	return NewClientWithAPI(api, envConfig.SQS{QueueURL: testQueueURL}, zap.NewNop())
}

func TestClient_PublishPredictions_ChunksByTen(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	var sizes []int
	api.On("SendMessageBatch", mock.Anything, mock.AnythingOfType("*sqs.SendMessageBatchInput")).
		Run(func(args mock.Arguments) {
			input := args.Get(1).(*sqs.SendMessageBatchInput)
			assert.Equal(t, testQueueURL, aws.ToString(input.QueueUrl))
			sizes = append(sizes, len(input.Entries))
		}).
		Return(&sqs.SendMessageBatchOutput{}, nil)

	err := client.PublishPredictions(context.Background(), makeRecords(23))

	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 3}, sizes)
	api.AssertNumberOfCalls(t, "SendMessageBatch", 3)
}

func TestClient_PublishPredictions_MessageBody(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	var body string
	api.On("SendMessageBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			input := args.Get(1).(*sqs.SendMessageBatchInput)
			body = aws.ToString(input.Entries[0].MessageBody)
			assert.Equal(t, "batch", aws.ToString(input.Entries[0].MessageAttributes["Mode"].StringValue))
		}).
		Return(&sqs.SendMessageBatchOutput{}, nil)

	require.NoError(t, client.PublishPredictions(context.Background(), makeRecords(1)))

	var msg queue.PredictionMessage
	require.NoError(t, json.Unmarshal([]byte(body), &msg))
	assert.Equal(t, "pred-0", msg.PredictionID)
	assert.Equal(t, domain.RiskTierMedium, msg.RiskTier)
	assert.Equal(t, int64(1766702551000), msg.PredictedAt)
	assert.True(t, msg.RevenueAtRisk.Equal(decimal.NewFromInt(180)))
}

func TestClient_PublishPredictions_Empty(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	require.NoError(t, client.PublishPredictions(context.Background(), nil))
	api.AssertNotCalled(t, "SendMessageBatch")
}

func TestClient_PublishPredictions_SendError(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	api.On("SendMessageBatch", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	err := client.PublishPredictions(context.Background(), makeRecords(15))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 15, queue.FailedRecords(err, 15))
	api.AssertNumberOfCalls(t, "SendMessageBatch", 2)
}

func TestClient_PublishPredictions_ContinuesAfterFailedChunk(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	var thirdChunkIDs []string
	api.On("SendMessageBatch", mock.Anything, mock.Anything).
		Return(&sqs.SendMessageBatchOutput{}, nil).Once()
	api.On("SendMessageBatch", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled")).Once()
	api.On("SendMessageBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			input := args.Get(1).(*sqs.SendMessageBatchInput)
			for _, entry := range input.Entries {
				var msg queue.PredictionMessage
				require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.MessageBody)), &msg))
				thirdChunkIDs = append(thirdChunkIDs, msg.PredictionID)
			}
		}).
		Return(&sqs.SendMessageBatchOutput{}, nil).Once()

	err := client.PublishPredictions(context.Background(), makeRecords(30))

	require.Error(t, err)
	var publishErr *queue.PublishError
	require.ErrorAs(t, err, &publishErr)
	assert.Equal(t, 10, publishErr.Failed)
	assert.Equal(t, 30, publishErr.Total)
	assert.Equal(t, 10, queue.FailedRecords(err, 30))
	assert.Contains(t, err.Error(), "throttled")
	api.AssertNumberOfCalls(t, "SendMessageBatch", 3)
	require.Len(t, thirdChunkIDs, 10)
	assert.Equal(t, "pred-20", thirdChunkIDs[0])
}

func TestClient_PublishPredictions_PartialFailure(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	api.On("SendMessageBatch", mock.Anything, mock.Anything).Return(&sqs.SendMessageBatchOutput{
		Failed: []types.BatchResultErrorEntry{
			{Id: aws.String("2"), Code: aws.String("InternalError"), Message: aws.String("boom")},
		},
	}, nil)

	err := client.PublishPredictions(context.Background(), makeRecords(4))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rejected 1 of 4")
	assert.Equal(t, 1, queue.FailedRecords(err, 4))
}

func TestClient_ReceiveAndAcknowledge(t *testing.T) {
	api := new(MockSQSAPI)
	client := newTestClient(api)

	api.On("ReceiveMessage", mock.Anything, mock.Anything).Return(&sqs.ReceiveMessageOutput{
		Messages: []types.Message{{MessageId: aws.String("m-1"), ReceiptHandle: aws.String("r-1")}},
	}, nil)
	api.On("DeleteMessage", mock.Anything, mock.MatchedBy(func(in *sqs.DeleteMessageInput) bool {
		return aws.ToString(in.ReceiptHandle) == "r-1"
	})).Return(&sqs.DeleteMessageOutput{}, nil)
	api.On("ChangeMessageVisibility", mock.Anything, mock.MatchedBy(func(in *sqs.ChangeMessageVisibilityInput) bool {
		return in.VisibilityTimeout == 0
	})).Return(&sqs.ChangeMessageVisibilityOutput{}, nil)

	out, err := client.ReceiveMessages(context.Background(), &sqs.ReceiveMessageInput{QueueUrl: aws.String(client.QueueURL())})
	require.NoError(t, err)
	require.Len(t, out.Messages, 1)

	_, err = client.DeleteMessage(context.Background(), &sqs.DeleteMessageInput{ReceiptHandle: aws.String("r-1")})
	require.NoError(t, err)

	_, err = client.ChangeMessageVisibility(context.Background(), &sqs.ChangeMessageVisibilityInput{ReceiptHandle: aws.String("r-1")})
	require.NoError(t, err)

	assert.Equal(t, testQueueURL, client.QueueURL())
	api.AssertExpectations(t)
}
