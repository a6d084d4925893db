package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/config"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/queue"
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/repository"
)

// SQS long-poll limits
const (
	receiveMaxMessages     = 10
	receiveWaitTimeSeconds = 20
	stageBufferSize        = 100
)

// Consumer moves prediction records from the queue into the repository through
// three stages: receive, parse, batch-write
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	batchWriter *BatchWriter
	bufferSize  int
}

// NewConsumer creates a new consumer pipeline
func NewConsumer(cfg config.Consumer, queueConsumer queue.QueueConsumer, repo repository.PredictionRepository, log *zap.Logger) *Consumer {
	receiverConfig := ReceiverConfig{
		MaxMessages:     receiveMaxMessages,
		WaitTimeSeconds: receiveWaitTimeSeconds,
		BufferSize:      stageBufferSize,
	}

	return &Consumer{
		receiver: NewReceiver(queueConsumer, receiverConfig, log),
		parser:   NewParserStage(queueConsumer, NewJSONPredictionParser(), log),
		batchWriter: NewBatchWriter(repo, BatchWriterConfig{
			MaxBatchSize: cfg.BatchSizeMax,
			FlushTimeout: time.Duration(cfg.BatchTimeoutSec) * time.Second,
		}, log),
		bufferSize: receiverConfig.BufferSize,
	}
}

// Start runs the pipeline and blocks until every stage has stopped
func (c *Consumer) Start(ctx context.Context) error {
	bufferSize := c.bufferSize
	if bufferSize <= 0 {
		bufferSize = stageBufferSize
	}
	messages := make(chan types.Message, bufferSize)
	envelopes := make(chan *Envelope, bufferSize)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messages)
	}()

	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messages, envelopes)
	}()

	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, envelopes)
	}()

	wg.Wait()
	return nil
}
