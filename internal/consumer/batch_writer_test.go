package consumer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/repository"
)

// MockPredictionRepository is a mock implementation of repository.PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) InsertBatch(ctx context.Context, records []*domain.PredictionRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockPredictionRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPredictionRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPredictionRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPredictionRepository) GetHistorySummary(ctx context.Context, query repository.HistoryQuery) (*repository.HistoryResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.HistoryResult), args.Error(1)
}

// settleCounter records how each test envelope was settled
type settleCounter struct {
	acked  atomic.Int32
	nacked atomic.Int32
}

func (c *settleCounter) envelope(predictionID string) *Envelope {
	record := &domain.PredictionRecord{
		PredictionID: predictionID,
		Mode:         domain.ModeBatch,
		CustomerID:   "CUST_" + predictionID,
		RiskTier:     domain.RiskTierMedium,
	}
	return NewEnvelope(record,
		func(context.Context) error { c.acked.Add(1); return nil },
		func(context.Context) error { c.nacked.Add(1); return nil },
	)
}

func recordsOfLen(n int) interface{} {
	return mock.MatchedBy(func(records []*domain.PredictionRecord) bool {
		return len(records) == n
	})
}

func TestBatchWriter_Start_FlushesAtMaxBatchSize(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 3, FlushTimeout: 10 * time.Second}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, recordsOfLen(3)).Return(3, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")
	in <- counter.envelope("3")

	assert.Eventually(t, func() bool { return counter.acked.Load() == 3 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertExpectations(t)
}

func TestBatchWriter_Start_FlushesOnTimeout(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 30 * time.Millisecond}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, recordsOfLen(2)).Return(2, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")

	assert.Eventually(t, func() bool { return counter.acked.Load() == 2 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertExpectations(t)
}

func TestBatchWriter_Start_InsertFailureNacks(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 2, FlushTimeout: 10 * time.Second}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(0, errors.New("clickhouse: connection refused"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")

	assert.Eventually(t, func() bool { return counter.nacked.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), counter.acked.Load())
}

func TestBatchWriter_Start_PartialInsertNacks(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 3, FlushTimeout: 10 * time.Second}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, recordsOfLen(3)).Return(2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- counter.envelope("1")
	in <- counter.envelope("2")
	in <- counter.envelope("3")

	assert.Eventually(t, func() bool { return counter.nacked.Load() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), counter.acked.Load())
}

func TestBatchWriter_Start_FinalFlushOnCancel(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 10 * time.Second}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), recordsOfLen(2)).Return(2, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan *Envelope, 5)
	done := make(chan struct{})
	go func() {
		writer.Start(ctx, in)
		close(done)
	}()

	in <- counter.envelope("1")
	in <- counter.envelope("2")
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("graceful shutdown took too long")
	}

	mockRepo.AssertExpectations(t)
	assert.Equal(t, int32(2), counter.acked.Load())
}

func TestBatchWriter_Start_FinalFlushOnClosedInput(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 10 * time.Second}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, recordsOfLen(2)).Return(2, nil).Once()

	in := make(chan *Envelope, 5)
	in <- counter.envelope("1")
	in <- counter.envelope("2")
	close(in)

	writer.Start(context.Background(), in)

	mockRepo.AssertExpectations(t)
	assert.Equal(t, int32(2), counter.acked.Load())
}

func TestBatchWriter_Start_EmptyBatchNotFlushed(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 20 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	writer.Start(ctx, make(chan *Envelope))

	mockRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestBatchWriter_Start_MultipleBatches(t *testing.T) {
	mockRepo := new(MockPredictionRepository)
	counter := &settleCounter{}
	writer := NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: 2, FlushTimeout: 10 * time.Second}, zap.NewNop())

	mockRepo.On("InsertBatch", mock.Anything, recordsOfLen(2)).Return(2, nil).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *Envelope, 10)
	go writer.Start(ctx, in)

	for _, id := range []string{"1", "2", "3", "4"} {
		in <- counter.envelope(id)
	}

	assert.Eventually(t, func() bool { return counter.acked.Load() == 4 }, time.Second, 5*time.Millisecond)
	mockRepo.AssertNumberOfCalls(t, "InsertBatch", 2)
}
